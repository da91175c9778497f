package geocode

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store persists resolved place names in a sqlite database so they
// survive process restarts. Coordinates are a small, geographically
// bounded key space, so the table stays tiny.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the cache database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS geocode (
		key  TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Load reads every persisted entry.
func (s *Store) Load() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, name FROM geocode")
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, name string
		if err := rows.Scan(&key, &name); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries[key] = name
	}
	return entries, rows.Err()
}

// Put upserts one entry.
func (s *Store) Put(key, name string) error {
	_, err := s.db.Exec(
		"INSERT INTO geocode (key, name) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET name = excluded.name",
		key, name,
	)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
