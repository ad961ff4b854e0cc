// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Flashcard is a proposed front/back card pair. It has no identity of its
// own; once written to Anki the note belongs to the flashcard application.
type Flashcard struct {
	// Front is the question or prompt side.
	Front string `json:"front" yaml:"front"`

	// Back is the answer side.
	Back string `json:"back" yaml:"back"`
}

// Analysis is the structured result of analyzing one conversation.
type Analysis struct {
	// HasValue reports whether the model found anything worth remembering.
	HasValue bool `json:"has_value"`

	// Flashcards are the proposed cards; empty when HasValue is false.
	Flashcards []Flashcard `json:"flashcards"`
}
