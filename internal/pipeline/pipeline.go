// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the run: for each conversation it extracts
// proposed flashcards, gates them on user approval, pushes accepted cards
// to Anki, and persists a checkpoint. Everything is single-threaded and
// sequential; recovery is skip-and-continue at conversation or card
// granularity, never at run granularity.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/recall-engine/internal/checkpoint"
	"github.com/pdiddy/recall-engine/internal/confirm"
	"github.com/pdiddy/recall-engine/internal/history"
	"github.com/pdiddy/recall-engine/internal/rules"
	"github.com/pdiddy/recall-engine/pkg/types"
)

// Extractor is the extraction-client surface the pipeline needs.
type Extractor interface {
	Analyze(ctx context.Context, transcript string) (types.Analysis, error)
	SummarizeRejection(ctx context.Context, cards []types.Flashcard, transcript, feedback string) (string, error)
}

// Sink pushes one accepted flashcard to the flashcard application.
type Sink interface {
	AddNote(ctx context.Context, deck, front, back, tag string) error
}

// Pipeline wires the components of one processing run.
type Pipeline struct {
	// Deck is the target Anki deck.
	Deck string

	Extractor  Extractor
	Sink       Sink
	Gate       confirm.Gate
	Checkpoint *checkpoint.Store
	Rules      *rules.Store

	// History records added cards when non-nil; history failures are
	// logged and never abort a run.
	History *history.Store

	// Out receives progress output.
	Out io.Writer
}

// Summary holds counts from one run.
type Summary struct {
	Processed  int
	NoValue    int
	Rejected   int
	CardsAdded int
}

// Run processes the worklist once, resuming from the checkpoint when one
// exists. The checkpoint is rewritten after every conversation regardless
// of outcome, so an abort loses at most the in-flight conversation, and
// is deleted when the whole worklist completes.
func (p *Pipeline) Run(ctx context.Context, convs []types.Conversation) (Summary, error) {
	cp := p.Checkpoint.Load()
	if cp.ConversationIndex > 0 {
		fmt.Fprintf(p.Out, "Resuming from conversation %d (%d cards added so far)\n",
			cp.ConversationIndex+1, cp.CardsAdded)
	}

	summary := Summary{CardsAdded: cp.CardsAdded}

	for i, conv := range convs {
		if i < cp.ConversationIndex {
			continue
		}

		fmt.Fprintf(p.Out, "\n[%d/%d] %s: %s\n", i+1, len(convs), conv.Tag, conv.Name)

		added, err := p.processOne(ctx, conv, &summary)
		if err != nil {
			return summary, err
		}
		summary.Processed++
		summary.CardsAdded += added

		if err := p.Checkpoint.Save(checkpoint.Checkpoint{
			ConversationIndex: i + 1,
			CardsAdded:        summary.CardsAdded,
		}); err != nil {
			return summary, err
		}
	}

	if err := p.Checkpoint.Clear(); err != nil {
		return summary, err
	}

	fmt.Fprintf(p.Out, "\nProcessing complete! Added %d flashcards total.\n", summary.CardsAdded)
	return summary, nil
}

// processOne handles a single conversation and returns the number of
// cards added for it. Only a confirmation-read failure is returned as an
// error; extraction and sink failures are logged and skipped.
func (p *Pipeline) processOne(ctx context.Context, conv types.Conversation, summary *Summary) (int, error) {
	analysis, err := p.Extractor.Analyze(ctx, conv.Text)
	if err != nil {
		fmt.Fprintf(p.Out, "  error analyzing conversation: %v\n", err)
		summary.NoValue++
		return 0, nil
	}

	if !analysis.HasValue || len(analysis.Flashcards) == 0 {
		fmt.Fprintln(p.Out, "  No valuable information found")
		summary.NoValue++
		return 0, nil
	}

	decision, err := p.Gate.Confirm(conv.Name, analysis.Flashcards)
	if err != nil {
		return 0, fmt.Errorf("confirming flashcards: %w", err)
	}

	if !decision.Accepted {
		summary.Rejected++
		p.learnFromRejection(ctx, analysis.Flashcards, conv.Text, decision.Feedback)
		fmt.Fprintln(p.Out, "  Skipped")
		return 0, nil
	}

	added := 0
	for _, card := range analysis.Flashcards {
		if err := p.Sink.AddNote(ctx, p.Deck, card.Front, card.Back, conv.Tag); err != nil {
			fmt.Fprintf(p.Out, "  error adding flashcard: %v\n", err)
			continue
		}
		added++

		if p.History != nil {
			err := p.History.Record(ctx, history.Entry{
				Deck:         p.Deck,
				Front:        card.Front,
				Back:         card.Back,
				Tag:          conv.Tag,
				Conversation: conv.Name,
			})
			if err != nil {
				fmt.Fprintf(p.Out, "  warning: history not recorded: %v\n", err)
			}
		}
	}

	fmt.Fprintf(p.Out, "  Added %d flashcard(s)\n", added)
	return added, nil
}

// learnFromRejection runs the secondary extraction call that turns a
// rejection into a persisted rule. Failures here are logged only; the
// run continues without a new rule.
func (p *Pipeline) learnFromRejection(ctx context.Context, cards []types.Flashcard, transcript, feedback string) {
	fmt.Fprintln(p.Out, "  Learning from rejection...")

	rule, err := p.Extractor.SummarizeRejection(ctx, cards, transcript, feedback)
	if err != nil {
		fmt.Fprintf(p.Out, "  error summarizing rejection: %v\n", err)
		return
	}
	if rule == "" {
		return
	}

	if err := p.Rules.Append(rule); err != nil {
		fmt.Fprintf(p.Out, "  error saving rule: %v\n", err)
		return
	}
	fmt.Fprintf(p.Out, "  Added rule: %s\n", rule)
}
