// Package history keeps the bounded per-session record of successful
// generations. Storage is an in-memory sqlite database: nothing survives a
// server restart, matching the no-durable-state contract.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a history item does not exist for the session.
var ErrNotFound = errors.New("history item not found")

// MaxItems bounds each session's history; the oldest entry is evicted first.
const MaxItems = 15

// Item is one recorded generation. Items are never mutated after creation.
type Item struct {
	ID        int64     `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"-"`
	Text      string    `db:"text" json:"text"`
	Voice     string    `db:"voice" json:"voice"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
	AudioData string    `db:"audio_data" json:"audioData"`
}

type Store struct {
	db *sqlx.DB
}

// NewStore opens the in-memory database and initializes the schema. A single
// connection is enforced so every query sees the same memory store.
func NewStore() (*Store, error) {
	db, err := sqlx.Connect("sqlite3", "file:vocalize?mode=memory&cache=shared")
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		text TEXT NOT NULL,
		voice TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		audio_data TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id, id DESC);`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records a generation and evicts anything beyond MaxItems for the
// session, oldest first.
func (s *Store) Add(item *Item) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO history (session_id, text, voice, created_at, audio_data)
		VALUES (:session_id, :text, :voice, :created_at, :audio_data)
	`
	result, err := s.db.NamedExec(query, item)
	if err != nil {
		return fmt.Errorf("failed to record history item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get history item id: %w", err)
	}
	item.ID = id

	prune := `
		DELETE FROM history
		WHERE session_id = ? AND id NOT IN (
			SELECT id FROM history WHERE session_id = ? ORDER BY id DESC LIMIT ?
		)
	`
	if _, err := s.db.Exec(prune, item.SessionID, item.SessionID, MaxItems); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	return nil
}

// List returns the session's history, newest first.
func (s *Store) List(sessionID string) ([]Item, error) {
	items := []Item{}
	query := `SELECT * FROM history WHERE session_id = ? ORDER BY id DESC LIMIT ?`
	if err := s.db.Select(&items, query, sessionID, MaxItems); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return items, nil
}

// Get fetches one history item belonging to the session.
func (s *Store) Get(sessionID string, id int64) (*Item, error) {
	var item Item
	query := `SELECT * FROM history WHERE session_id = ? AND id = ?`
	if err := s.db.Get(&item, query, sessionID, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("history item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load history item: %w", err)
	}
	return &item, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
