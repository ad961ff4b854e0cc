package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeExport writes content to dataDir/rel, creating directories.
func writeExport(t *testing.T, dataDir, rel, content string) {
	t.Helper()
	path := filepath.Join(dataDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestClaudeMissingFile(t *testing.T) {
	convs, err := ClaudeSource{}.Conversations(t.TempDir())
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if len(convs) != 0 {
		t.Errorf("got %d conversations, want 0", len(convs))
	}
}

func TestClaudeConversations(t *testing.T) {
	dataDir := t.TempDir()
	writeExport(t, dataDir, "claude/conversations.json", `[
		{
			"name": "Docker networking",
			"summary": "Bridge networks explained.",
			"chat_messages": [
				{"sender": "human", "content": [{"type": "text", "text": "How do"}, {"type": "text", "text": "bridges work?"}]},
				{"sender": "assistant", "content": [{"type": "text", "text": "A bridge network..."}]},
				{"sender": "assistant", "content": [{"type": "tool_use"}]}
			]
		},
		{
			"name": "",
			"summary": "",
			"chat_messages": []
		}
	]`)

	convs, err := ClaudeSource{}.Conversations(dataDir)
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("got %d conversations, want 2", len(convs))
	}

	first := convs[0]
	if first.Name != "Docker networking" {
		t.Errorf("Name = %q, want %q", first.Name, "Docker networking")
	}
	if first.Tag != "claude" {
		t.Errorf("Tag = %q, want %q", first.Tag, "claude")
	}
	for _, want := range []string{
		"Conversation: Docker networking",
		"Summary: Bridge networks explained.",
		"HUMAN:\nHow do bridges work?",
		"ASSISTANT:\nA bridge network...",
	} {
		if !strings.Contains(first.Text, want) {
			t.Errorf("text missing %q:\n%s", want, first.Text)
		}
	}
	// The tool_use-only message has no text blocks and is omitted.
	if got := strings.Count(first.Text, "ASSISTANT:"); got != 1 {
		t.Errorf("ASSISTANT blocks = %d, want 1", got)
	}

	if convs[1].Name != "Untitled" {
		t.Errorf("missing name defaults to %q, got %q", "Untitled", convs[1].Name)
	}
}

func TestClaudeMalformedFile(t *testing.T) {
	dataDir := t.TempDir()
	writeExport(t, dataDir, "claude/conversations.json", `{not json`)

	if _, err := (ClaudeSource{}).Conversations(dataDir); err == nil {
		t.Fatal("expected error for malformed conversations.json")
	}
}
