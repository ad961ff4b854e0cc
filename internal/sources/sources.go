// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources reads exported AI-chat transcripts and normalizes them
// into canonical conversation records. Each export format (Claude, Google
// Gemini, OpenAI ChatGPT) has its own adapter; all three converge on
// types.Conversation.
package sources

import (
	"fmt"
	"io"

	"github.com/pdiddy/recall-engine/pkg/types"
)

// Source reads one provider's export from dataDir and returns canonical
// conversation records. A missing export directory or file yields an empty
// slice, not an error; files that do not look like conversations are
// skipped silently.
type Source interface {
	// Name returns the source identifier, also used as the note tag.
	Name() string

	// Conversations reads the provider's export below dataDir.
	Conversations(dataDir string) ([]types.Conversation, error)
}

// All reads every source in fixed order (claude, google, openai) and
// concatenates the results into one worklist. The ordering is stable
// across runs for unchanged exports, which keeps checkpoint indices
// valid between resumed runs. Per-source counts are reported on w.
func All(dataDir string, w io.Writer) ([]types.Conversation, error) {
	srcs := []Source{ClaudeSource{}, GoogleSource{}, OpenAISource{}}

	var all []types.Conversation
	for _, src := range srcs {
		convs, err := src.Conversations(dataDir)
		if err != nil {
			return nil, fmt.Errorf("reading %s export: %w", src.Name(), err)
		}
		fmt.Fprintf(w, "  %s: %d conversation(s)\n", src.Name(), len(convs))
		all = append(all, convs...)
	}
	return all, nil
}
