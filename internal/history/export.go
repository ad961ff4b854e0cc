// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes the full card history to dir/export.yaml, oldest
// first.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rowid, deck, front, back, tag, conversation, added_at
		 FROM cards ORDER BY rowid LIMIT ?`, exportLimit)
	if err != nil {
		return "", fmt.Errorf("querying history for export: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling export: %w", err)
	}

	path := filepath.Join(s.dir, "export.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
