// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records every flashcard actually added to Anki, in a
// local SQLite database with full-text search over the card text. The
// history is an audit trail across runs; failures writing it never abort
// a run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "history.db"

// Entry is one added card.
type Entry struct {
	ID           int64     `json:"id" yaml:"id"`
	Deck         string    `json:"deck" yaml:"deck"`
	Front        string    `json:"front" yaml:"front"`
	Back         string    `json:"back" yaml:"back"`
	Tag          string    `json:"tag" yaml:"tag"`
	Conversation string    `json:"conversation" yaml:"conversation"`
	AddedAt      time.Time `json:"added_at" yaml:"added_at"`
}

// Store manages the history SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates the history database at dir/history.db,
// creating the schema on first use.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			deck TEXT NOT NULL,
			front TEXT NOT NULL,
			back TEXT NOT NULL,
			tag TEXT,
			conversation TEXT,
			added_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_tag ON cards(tag)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='cards_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE cards_fts USING fts5(front, back, content=cards, content_rowid=rowid)`,
			`CREATE TRIGGER cards_ai AFTER INSERT ON cards BEGIN
				INSERT INTO cards_fts(rowid, front, back) VALUES (new.rowid, new.front, new.back);
			END`,
			`CREATE TRIGGER cards_ad AFTER DELETE ON cards BEGIN
				INSERT INTO cards_fts(cards_fts, rowid, front, back) VALUES('delete', old.rowid, old.front, old.back);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Record appends one added card to the history.
func (s *Store) Record(ctx context.Context, e Entry) error {
	addedAt := e.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cards (deck, front, back, tag, conversation, added_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Deck, e.Front, e.Back, e.Tag, e.Conversation,
		addedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording card: %w", err)
	}
	return nil
}

// Recent returns the most recently added cards, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT rowid, deck, front, back, tag, conversation, added_at
		 FROM cards ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Search runs an FTS5 full-text query over card fronts and backs,
// ranked by relevance.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.rowid, c.deck, c.front, c.back, c.tag, c.conversation, c.added_at
		 FROM cards_fts
		 JOIN cards c ON c.rowid = cards_fts.rowid
		 WHERE cards_fts MATCH ?
		 ORDER BY cards_fts.rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var addedAt string
		if err := rows.Scan(&e.ID, &e.Deck, &e.Front, &e.Back, &e.Tag, &e.Conversation, &addedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, addedAt); err == nil {
			e.AddedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
