// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model and configuration structs
// for the recall-engine pipeline.
package types

// Conversation is the canonical record every export format converges to.
// Immutable once produced by a source adapter; consumed once by extraction.
type Conversation struct {
	// Name is the conversation title as reported by the export
	// ("Untitled" when the export carries none).
	Name string `json:"name" yaml:"name"`

	// Text is the pre-formatted transcript: a header line, an optional
	// summary, then USER:/ASSISTANT: labelled message blocks.
	Text string `json:"text" yaml:"text"`

	// Tag identifies the source adapter: "claude", "google-gemini", or
	// "openai". It becomes the Anki note tag for accepted cards.
	Tag string `json:"tag" yaml:"tag"`
}
