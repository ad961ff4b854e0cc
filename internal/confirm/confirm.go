// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package confirm gates proposed flashcards on interactive approval. The
// terminal gate blocks on a yes/no read; tests substitute a scripted
// responder through the Gate interface.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/recall-engine/pkg/types"
)

// Decision is the outcome of one confirmation.
type Decision struct {
	// Accepted is true only for an explicit "y" answer.
	Accepted bool

	// Feedback is the optional free-text rejection reason ("" when the
	// user skipped the feedback prompt or accepted).
	Feedback string
}

// Gate presents proposed flashcards and blocks for a decision.
type Gate interface {
	Confirm(conversationName string, cards []types.Flashcard) (Decision, error)
}

// TerminalGate reads decisions from an interactive terminal.
type TerminalGate struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalGate returns a gate reading from in and writing to out
// (typically os.Stdin and os.Stdout).
func NewTerminalGate(in io.Reader, out io.Writer) *TerminalGate {
	return &TerminalGate{in: bufio.NewReader(in), out: out}
}

// Confirm renders the batch and blocks for a y/n answer. Any answer other
// than "y" is a rejection, followed by an optional feedback prompt. A
// read failure (including EOF) is surfaced so the run stops with the
// checkpoint intact.
func (g *TerminalGate) Confirm(conversationName string, cards []types.Flashcard) (Decision, error) {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(g.out, "\nConversation: %s\n", conversationName)
	fmt.Fprintf(g.out, "Found %d flashcard(s) to add:\n\n", len(cards))

	tbl := table.NewWriter()
	tbl.SetOutputMirror(g.out)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Front", "Back"})
	for i, card := range cards {
		tbl.AppendRow(table.Row{i + 1, card.Front, card.Back})
	}
	tbl.Render()

	fmt.Fprint(g.out, "\nAdd these flashcards to Anki? (y/n): ")
	answer, err := g.readLine()
	if err != nil {
		return Decision{}, fmt.Errorf("reading confirmation: %w", err)
	}

	if strings.ToLower(answer) == "y" {
		return Decision{Accepted: true}, nil
	}

	fmt.Fprint(g.out, "\nWhy did you reject these cards? (Press Enter to skip)\nFeedback: ")
	feedback, err := g.readLine()
	if err != nil {
		// A rejection already happened; a missing feedback line just
		// means no feedback was recorded.
		feedback = ""
	}
	return Decision{Accepted: false, Feedback: feedback}, nil
}

func (g *TerminalGate) readLine() (string, error) {
	line, err := g.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
