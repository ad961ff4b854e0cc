package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/recall-engine/internal/rules"
	"github.com/pdiddy/recall-engine/pkg/types"
)

// mockBackend records prompts and replays scripted responses.
type mockBackend struct {
	responses []string
	err       error
	prompts   []string
}

func (m *mockBackend) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

func testClient(t *testing.T, backend Backend, cfg types.ExtractionConfig) (*Client, *rules.Store) {
	t.Helper()
	store := rules.NewStore(filepath.Join(t.TempDir(), "rejection_rules.txt"))
	return NewClient(backend, store, cfg), store
}

// --- stripFences ---

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"has_value": false}`, `{"has_value": false}`},
		{"json fence", "```json\n{\"has_value\": true}\n```", `{"has_value": true}`},
		{"bare fence", "```\n{}\n```", `{}`},
		{"leading whitespace", "  ```json\n{}\n```  ", `{}`},
		{"fence without close", "```json\n{}", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// --- Analyze ---

func TestAnalyzeFencedResponse(t *testing.T) {
	backend := &mockBackend{responses: []string{"```json\n{\"has_value\": true, \"flashcards\": []}\n```"}}
	client, _ := testClient(t, backend, types.ExtractionConfig{})

	analysis, err := client.Analyze(context.Background(), "USER:\nhello\n")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !analysis.HasValue {
		t.Error("HasValue = false, want true")
	}
	if len(analysis.Flashcards) != 0 {
		t.Errorf("got %d flashcards, want 0", len(analysis.Flashcards))
	}
}

func TestAnalyzeFlashcards(t *testing.T) {
	backend := &mockBackend{responses: []string{
		`{"has_value": true, "flashcards": [{"front": "What does tar -xzf do?", "back": "Extracts a gzipped archive."}]}`,
	}}
	client, _ := testClient(t, backend, types.ExtractionConfig{})

	analysis, err := client.Analyze(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(analysis.Flashcards) != 1 {
		t.Fatalf("got %d flashcards, want 1", len(analysis.Flashcards))
	}
	if analysis.Flashcards[0].Front != "What does tar -xzf do?" {
		t.Errorf("Front = %q", analysis.Flashcards[0].Front)
	}
}

func TestAnalyzePromptContents(t *testing.T) {
	backend := &mockBackend{responses: []string{`{"has_value": false, "flashcards": []}`}}
	cfg := types.ExtractionConfig{Interests: []string{"Databases", "Networking"}}
	client, store := testClient(t, backend, cfg)

	if err := store.Append("Don't create flashcards for trivial shell commands."); err != nil {
		t.Fatal(err)
	}

	transcript := "Conversation: test\n\nMessages:\n\nUSER:\nhow do vlans work?\n"
	if _, err := client.Analyze(context.Background(), transcript); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	prompt := backend.prompts[0]
	for _, want := range []string{
		transcript,
		"Databases, Networking",
		"- Don't create flashcards for trivial shell commands.",
		"previously rejected flashcards",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalyzeNoRulesSection(t *testing.T) {
	backend := &mockBackend{responses: []string{`{"has_value": false, "flashcards": []}`}}
	client, _ := testClient(t, backend, types.ExtractionConfig{})

	if _, err := client.Analyze(context.Background(), "transcript"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if strings.Contains(backend.prompts[0], "previously rejected") {
		t.Error("prompt should have no rules section when no rules exist")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name    string
		backend *mockBackend
	}{
		{"backend failure", &mockBackend{err: fmt.Errorf("service unavailable")}},
		{"non-JSON body", &mockBackend{responses: []string{"Sorry, I can't help with that."}}},
		{"fence around invalid JSON", &mockBackend{responses: []string{"```json\n{broken\n```"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := testClient(t, tt.backend, types.ExtractionConfig{})
			if _, err := client.Analyze(context.Background(), "transcript"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// --- SummarizeRejection ---

func TestSummarizeRejection(t *testing.T) {
	backend := &mockBackend{responses: []string{"  Don't make cards for one-off debugging output.\n"}}
	cfg := types.ExtractionConfig{RejectionContextLimit: 10}
	client, store := testClient(t, backend, cfg)

	if err := store.Append("An existing rule."); err != nil {
		t.Fatal(err)
	}

	cards := []types.Flashcard{{Front: "f1", Back: "b1"}}
	rule, err := client.SummarizeRejection(context.Background(), cards, "0123456789 this part is truncated away", "too trivial")
	if err != nil {
		t.Fatalf("SummarizeRejection: %v", err)
	}
	if rule != "Don't make cards for one-off debugging output." {
		t.Errorf("rule = %q", rule)
	}

	prompt := backend.prompts[0]
	for _, want := range []string{
		"- Front: f1\n  Back: b1",
		"0123456789...",
		"too trivial",
		"An existing rule.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "this part is truncated away") {
		t.Error("transcript should be truncated to the configured prefix")
	}
}

func TestSummarizeRejectionBackendFailure(t *testing.T) {
	client, _ := testClient(t, &mockBackend{err: fmt.Errorf("quota exceeded")}, types.ExtractionConfig{})

	_, err := client.SummarizeRejection(context.Background(), nil, "transcript", "")
	if err == nil {
		t.Error("expected error")
	}
}

// --- truncate ---

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q, want unchanged", got)
	}
	if got := truncate("0123456789abc", 10); got != "0123456789..." {
		t.Errorf("truncate = %q", got)
	}
}
