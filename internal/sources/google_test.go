package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGoogleMissingDir(t *testing.T) {
	convs, err := GoogleSource{}.Conversations(t.TempDir())
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if len(convs) != 0 {
		t.Errorf("got %d conversations, want 0", len(convs))
	}
}

func TestReadConversationFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	conversation := `{"chunkedPrompt": {"chunks": [{"role": "user", "text": "hi"}]}}`

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"conversation with json extension", write("chat.json", conversation), true},
		{"conversation without extension", write("my-chat", conversation), true},
		{"denylisted filename", write("memories.json", conversation), false},
		{"media extension", write("clip.mp4", conversation), false},
		{"other extension", write("notes.txt", conversation), false},
		{"malformed json", write("broken.json", `{broken`), false},
		{"json without chunkedPrompt", write("users2.json", `{"settings": {"theme": "dark"}}`), false},
		{"chunkedPrompt without chunks", write("partial.json", `{"chunkedPrompt": {}}`), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := readConversationFile(tt.path)
			if ok != tt.want {
				t.Errorf("readConversationFile(%s) = %v, want %v", filepath.Base(tt.path), ok, tt.want)
			}
		})
	}
}

func TestGoogleConversations(t *testing.T) {
	dataDir := t.TempDir()
	writeExport(t, dataDir, "google/quantum-notes.json", `{
		"chunkedPrompt": {"chunks": [
			{"role": "user", "text": "What is superposition?"},
			{"role": "model", "text": "Thinking about it...", "isThought": true},
			{"role": "model", "text": "A quantum state can..."},
			{"role": "model", "text": ""}
		]}
	}`)
	writeExport(t, dataDir, "google/users.json", `{"chunkedPrompt": {"chunks": []}}`)
	writeExport(t, dataDir, "google/photo.png", "not json")

	convs, err := GoogleSource{}.Conversations(dataDir)
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("got %d conversations, want 1", len(convs))
	}

	conv := convs[0]
	if conv.Name != "quantum-notes" {
		t.Errorf("Name = %q, want %q (file stem)", conv.Name, "quantum-notes")
	}
	if conv.Tag != "google-gemini" {
		t.Errorf("Tag = %q, want %q", conv.Tag, "google-gemini")
	}
	if !strings.Contains(conv.Text, "USER:\nWhat is superposition?") {
		t.Errorf("text missing user chunk:\n%s", conv.Text)
	}
	if !strings.Contains(conv.Text, "ASSISTANT:\nA quantum state can...") {
		t.Errorf("text missing assistant chunk:\n%s", conv.Text)
	}
	if strings.Contains(conv.Text, "Thinking about it") {
		t.Errorf("thought chunk should be skipped:\n%s", conv.Text)
	}
}
