// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package checkpoint persists run progress so an interrupted run resumes
// where it left off. The checkpoint is a single JSON file rewritten after
// every processed conversation and deleted when a run completes.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
)

// Checkpoint records how far a run has progressed.
type Checkpoint struct {
	// ConversationIndex is the index of the next conversation to process.
	ConversationIndex int `json:"conversation_index"`

	// CardsAdded is the cumulative number of flashcards added this run,
	// carried across resumes.
	CardsAdded int `json:"cards_added"`
}

// Store manages the checkpoint file.
type Store struct {
	path string
}

// NewStore returns a store backed by the checkpoint file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the checkpoint. A missing or unparseable file yields the
// zero checkpoint: a fresh run starts from the beginning rather than
// failing on stale state.
func (s *Store) Load() Checkpoint {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Checkpoint{}
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}
	}
	return cp
}

// Save rewrites the checkpoint file.
func (s *Store) Save(cp Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing checkpoint %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the checkpoint file. A completed run leaves no residue;
// an already-absent file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing checkpoint %s: %w", s.path, err)
	}
	return nil
}
