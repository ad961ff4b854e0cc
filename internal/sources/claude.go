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

const tagClaude = "claude"

// claudeConversation mirrors one entry of a Claude export's
// conversations.json array.
type claudeConversation struct {
	Name     string          `json:"name"`
	Summary  string          `json:"summary"`
	Messages []claudeMessage `json:"chat_messages"`
}

type claudeMessage struct {
	Sender  string        `json:"sender"`
	Content []claudeBlock `json:"content"`
}

type claudeBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ClaudeSource reads a Claude data export: a single conversations.json
// array under dataDir/claude/.
type ClaudeSource struct{}

// Name returns "claude".
func (ClaudeSource) Name() string { return tagClaude }

// Conversations reads dataDir/claude/conversations.json. An absent file
// yields an empty slice.
func (ClaudeSource) Conversations(dataDir string) ([]types.Conversation, error) {
	path := filepath.Join(dataDir, "claude", "conversations.json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var export []claudeConversation
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	convs := make([]types.Conversation, 0, len(export))
	for _, c := range export {
		name := c.Name
		if name == "" {
			name = "Untitled"
		}
		convs = append(convs, types.Conversation{
			Name: name,
			Text: formatClaude(name, c),
			Tag:  tagClaude,
		})
	}
	return convs, nil
}

// formatClaude renders a Claude conversation as a labelled transcript:
// name, summary, then each message as "SENDER:" followed by its text
// blocks joined with spaces. Messages without text blocks are omitted.
func formatClaude(name string, c claudeConversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation: %s\n\n", name)
	fmt.Fprintf(&b, "Summary: %s\n\n", c.Summary)
	b.WriteString("Messages:\n")

	for _, msg := range c.Messages {
		var parts []string
		for _, block := range msg.Content {
			if block.Type == "text" {
				parts = append(parts, block.Text)
			}
		}
		if len(parts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", strings.ToUpper(msg.Sender), strings.Join(parts, " "))
	}
	return b.String()
}
