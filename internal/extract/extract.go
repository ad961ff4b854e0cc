// Package extract turns a conversation transcript into proposed
// flashcards through a single generative AI call, and distills user
// rejections into reusable filtering rules.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/recall-engine/internal/rules"
	"github.com/pdiddy/recall-engine/pkg/types"
)

const defaultRejectionContextLimit = 2000

// Backend abstracts the generative AI API so tests can supply a mock.
// Generate sends one prompt and returns the model's raw text response.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client analyzes conversations and summarizes rejections. It makes
// exactly one backend call per operation; there are no retries.
type Client struct {
	backend        Backend
	rules          *rules.Store
	interests      []string
	rejectionLimit int
}

// NewClient builds a Client. The rules store feeds previously rejected
// patterns back into every analysis prompt.
func NewClient(backend Backend, ruleStore *rules.Store, cfg types.ExtractionConfig) *Client {
	interests := cfg.Interests
	if len(interests) == 0 {
		interests = types.DefaultInterests
	}
	limit := cfg.RejectionContextLimit
	if limit <= 0 {
		limit = defaultRejectionContextLimit
	}
	return &Client{
		backend:        backend,
		rules:          ruleStore,
		interests:      interests,
		rejectionLimit: limit,
	}
}

// Analyze asks the model whether the transcript contains anything worth
// remembering and, if so, for proposed flashcards. Callers treat any
// error as "no value found" and continue; extraction failures never
// abort a run.
func (c *Client) Analyze(ctx context.Context, transcript string) (types.Analysis, error) {
	ruleText, err := c.rules.Load()
	if err != nil {
		return types.Analysis{}, err
	}

	prompt, err := renderAnalysisPrompt(transcript, c.interests, ruleText)
	if err != nil {
		return types.Analysis{}, fmt.Errorf("rendering analysis prompt: %w", err)
	}

	raw, err := c.backend.Generate(ctx, prompt)
	if err != nil {
		return types.Analysis{}, err
	}

	var analysis types.Analysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &analysis); err != nil {
		return types.Analysis{}, fmt.Errorf("parsing analysis response: %w", err)
	}
	return analysis, nil
}

// SummarizeRejection asks the model to distill one short rule from a
// rejected flashcard batch. The transcript is truncated to a bounded
// prefix; feedback, when present, is the primary basis for the rule.
// Failures are non-fatal to the caller.
func (c *Client) SummarizeRejection(ctx context.Context, cards []types.Flashcard, transcript, feedback string) (string, error) {
	existing, err := c.rules.Load()
	if err != nil {
		return "", err
	}

	prompt, err := renderRejectionPrompt(cards, truncate(transcript, c.rejectionLimit), feedback, c.interests, existing)
	if err != nil {
		return "", fmt.Errorf("rendering rejection prompt: %w", err)
	}

	raw, err := c.backend.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// stripFences removes a leading/trailing triple-backtick code fence, with
// or without a "json" language tag, from a model response.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// truncate bounds s to limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
