// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/recall-engine/pkg/types"
)

const tagGoogle = "google-gemini"

// skipFiles lists Google-export bookkeeping files that are never
// conversations.
var skipFiles = map[string]bool{
	"applet_access_history.json": true,
	"memories.json":              true,
	"projects.json":              true,
	"users.json":                 true,
}

// mediaExtensions lists attachment extensions found alongside Google
// conversation files.
var mediaExtensions = map[string]bool{
	".mp4":  true,
	".m4a":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// googleExport mirrors the body of a Google AI Studio conversation file.
type googleExport struct {
	ChunkedPrompt *googleChunkedPrompt `json:"chunkedPrompt"`
}

type googleChunkedPrompt struct {
	Chunks []googleChunk `json:"chunks"`
}

type googleChunk struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	IsThought bool   `json:"isThought"`
}

// GoogleSource reads a Google export: a flat directory of heterogeneous
// files under dataDir/google/, where conversations are identified by
// content sniffing rather than filename.
type GoogleSource struct{}

// Name returns "google-gemini".
func (GoogleSource) Name() string { return tagGoogle }

// Conversations scans dataDir/google/ for conversation files. An absent
// directory yields an empty slice. Entries are visited in sorted name
// order so the worklist ordering is stable across runs.
func (GoogleSource) Conversations(dataDir string) ([]types.Conversation, error) {
	dir := filepath.Join(dataDir, "google")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var convs []types.Conversation
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		export, ok := readConversationFile(filepath.Join(dir, entry.Name()))
		if !ok {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		convs = append(convs, types.Conversation{
			Name: name,
			Text: formatGoogle(name, export),
			Tag:  tagGoogle,
		})
	}
	return convs, nil
}

// readConversationFile decides whether path holds a Google conversation
// and parses it. A file qualifies only if its name is not on the skip
// list, its extension is ".json" or empty, and its JSON body carries a
// chunkedPrompt.chunks array. Unreadable or malformed files are treated
// as non-conversations, not errors.
func readConversationFile(path string) (googleExport, bool) {
	name := filepath.Base(path)
	if skipFiles[name] {
		return googleExport{}, false
	}

	ext := filepath.Ext(name)
	if mediaExtensions[ext] {
		return googleExport{}, false
	}
	if ext != ".json" && ext != "" {
		return googleExport{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return googleExport{}, false
	}

	var export googleExport
	if err := json.Unmarshal(data, &export); err != nil {
		return googleExport{}, false
	}
	if export.ChunkedPrompt == nil || export.ChunkedPrompt.Chunks == nil {
		return googleExport{}, false
	}
	return export, true
}

// formatGoogle renders chunks as a labelled transcript. Thought chunks
// and chunks without text are omitted; any non-user role is labelled
// ASSISTANT.
func formatGoogle(name string, export googleExport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation: %s\n\n", name)
	b.WriteString("Messages:\n")

	for _, chunk := range export.ChunkedPrompt.Chunks {
		if chunk.IsThought || chunk.Text == "" {
			continue
		}
		label := "ASSISTANT"
		if chunk.Role == "user" {
			label = "USER"
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", label, chunk.Text)
	}
	return b.String()
}
