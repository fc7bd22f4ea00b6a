// Package localstate persists the small bits of client state that survive
// between runs: stored credentials, recent search terms, and preferences.
package localstate

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
)

const maxRecentSearches = 10

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS recent_searches (
	term TEXT PRIMARY KEY,
	used_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS preferences (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

type Store struct {
	db *sql.DB
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// ---- credentials ----

func (s *Store) SaveCredentials(creds *model.Credentials) error {
	payload, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO credentials (id, payload) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`,
		string(payload),
	)
	return err
}

func (s *Store) LoadCredentials() (*model.Credentials, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM credentials WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	var creds model.Credentials
	if err := json.Unmarshal([]byte(payload), &creds); err != nil {
		return nil, fmt.Errorf("corrupt stored credentials: %w", err)
	}
	return &creds, nil
}

func (s *Store) ClearCredentials() error {
	_, err := s.db.Exec(`DELETE FROM credentials WHERE id = 1`)
	return err
}

// ---- recent searches ----

// RememberSearch records a term most-recent-first, de-duplicated, keeping
// at most maxRecentSearches entries.
func (s *Store) RememberSearch(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	now := time.Now().UnixNano()
	if _, err := s.db.Exec(
		`INSERT INTO recent_searches (term, used_at) VALUES (?, ?)
		 ON CONFLICT(term) DO UPDATE SET used_at = excluded.used_at`,
		term, now,
	); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`DELETE FROM recent_searches WHERE term NOT IN (
			SELECT term FROM recent_searches ORDER BY used_at DESC LIMIT ?
		 )`, maxRecentSearches,
	)
	return err
}

func (s *Store) RecentSearches(limit int) ([]string, error) {
	if limit <= 0 || limit > maxRecentSearches {
		limit = maxRecentSearches
	}
	rows, err := s.db.Query(
		`SELECT term FROM recent_searches ORDER BY used_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, err
		}
		out = append(out, term)
	}
	return out, rows.Err()
}

// ---- preferences ----

func (s *Store) SetPreference(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Preference returns the stored value, or fallback when unset.
func (s *Store) Preference(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
