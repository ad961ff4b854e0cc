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

const tagOpenAI = "openai"

// openaiConversation mirrors one entry of an OpenAI export's
// conversations.json array. Messages form a tree: mapping holds node id →
// node, and current_node points at the leaf of the active branch.
type openaiConversation struct {
	Title       string                `json:"title"`
	Mapping     map[string]openaiNode `json:"mapping"`
	CurrentNode string                `json:"current_node"`
}

type openaiNode struct {
	Message *openaiMessage `json:"message"`
	Parent  string         `json:"parent"`
}

type openaiMessage struct {
	Author struct {
		Role string `json:"role"`
	} `json:"author"`
	Content struct {
		Parts []json.RawMessage `json:"parts"`
	} `json:"content"`
	Metadata struct {
		Hidden bool `json:"is_visually_hidden_from_conversation"`
	} `json:"metadata"`
}

// OpenAISource reads an OpenAI ChatGPT export: a single conversations.json
// array under dataDir/openai/.
type OpenAISource struct{}

// Name returns "openai".
func (OpenAISource) Name() string { return tagOpenAI }

// Conversations reads dataDir/openai/conversations.json. An absent file
// yields an empty slice. Conversations whose transcript ends up with no
// USER: or ASSISTANT: messages are dropped.
func (OpenAISource) Conversations(dataDir string) ([]types.Conversation, error) {
	path := filepath.Join(dataDir, "openai", "conversations.json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var export []openaiConversation
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var convs []types.Conversation
	for _, c := range export {
		title := c.Title
		if title == "" {
			title = "Untitled"
		}
		text := formatOpenAI(title, c)
		if !strings.Contains(text, "USER:") && !strings.Contains(text, "ASSISTANT:") {
			continue
		}
		convs = append(convs, types.Conversation{
			Name: title,
			Text: text,
			Tag:  tagOpenAI,
		})
	}
	return convs, nil
}

// chainMessage is one visible message on the active branch.
type chainMessage struct {
	role string
	text string
}

// messageChain walks parent links from currentNode to the root and
// returns the visible user/assistant messages in chronological order.
func messageChain(mapping map[string]openaiNode, currentNode string) []chainMessage {
	var chain []chainMessage
	seen := make(map[string]bool)

	for id := currentNode; id != "" && !seen[id]; {
		seen[id] = true
		node, ok := mapping[id]
		if !ok {
			break
		}

		if msg := node.Message; msg != nil {
			role := msg.Author.Role
			text := partsText(msg.Content.Parts)
			if !msg.Metadata.Hidden && strings.TrimSpace(text) != "" &&
				(role == "user" || role == "assistant") {
				chain = append(chain, chainMessage{role: role, text: text})
			}
		}
		id = node.Parent
	}

	// The walk runs leaf to root; reverse for chronological order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// partsText concatenates message parts. Parts are either plain strings or
// objects with a "text" field; anything else contributes nothing.
func partsText(parts []json.RawMessage) string {
	var b strings.Builder
	for _, part := range parts {
		var s string
		if err := json.Unmarshal(part, &s); err == nil {
			b.WriteString(s)
			continue
		}
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(part, &obj); err == nil {
			b.WriteString(obj.Text)
		}
	}
	return b.String()
}

// formatOpenAI renders the active branch as a labelled transcript.
func formatOpenAI(title string, c openaiConversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation: %s\n\n", title)
	b.WriteString("Messages:\n")

	if c.CurrentNode == "" {
		return b.String()
	}

	for _, msg := range messageChain(c.Mapping, c.CurrentNode) {
		label := "ASSISTANT"
		if msg.role == "user" {
			label = "USER"
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", label, msg.text)
	}
	return b.String()
}
