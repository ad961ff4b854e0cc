// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules persists user-authored rejection heuristics. The store is
// an append-only plain-text file, one "- rule" line per rejection, read
// in full before every extraction call so the model learns from past
// rejections.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store manages the rejection-rules file.
type Store struct {
	path string
}

// NewStore returns a store backed by the rules file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the full trimmed rule text, or "" when no rules file
// exists yet.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading rules file %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Append adds one rule as a single "- rule" line. The write is a single
// append so a rule is either fully recorded or not at all.
func (s *Store) Append(rule string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating rules directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening rules file %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "- %s\n", strings.TrimSpace(rule)); err != nil {
		return fmt.Errorf("appending rule: %w", err)
	}
	return nil
}
