// Package library provides a local SQLite-backed collection of BibTeX
// entries, keyed by arbitrary citation keys. It backs the local source used
// during resolution: keys found here resolve without any network call.
package library

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one stored bibliography entry. Eprint and DOI are extracted at
// insert time so duplicate detection can use them without re-parsing.
type Entry struct {
	Key    string `json:"key"`
	Text   string `json:"-"`
	Eprint string `json:"eprint,omitempty"`
	DOI    string `json:"doi,omitempty"`
}

// DB wraps a SQLite database holding the local entry collection.
type DB struct {
	db *sql.DB
}

// Open opens or creates the library database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening library: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			entry TEXT NOT NULL,
			eprint TEXT,
			doi TEXT,
			added_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_doi ON entries(doi) WHERE doi IS NOT NULL AND doi != '';
		CREATE INDEX IF NOT EXISTS idx_entries_eprint ON entries(eprint) WHERE eprint IS NOT NULL AND eprint != '';
	`
	_, err := db.Exec(schema)
	return err
}

// Put inserts or replaces an entry under its key.
func (d *DB) Put(e Entry) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO entries (key, entry, eprint, doi, added_at) VALUES (?, ?, ?, ?, ?)`,
		e.Key, e.Text, e.Eprint, e.DOI, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("storing entry %s: %w", e.Key, err)
	}
	return nil
}

// Lookup returns the entry stored under key, or nil if absent.
func (d *DB) Lookup(key string) (*Entry, error) {
	row := d.db.QueryRow(`SELECT key, entry, eprint, doi FROM entries WHERE key = ?`, key)

	var e Entry
	if err := row.Scan(&e.Key, &e.Text, &e.Eprint, &e.DOI); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up %s: %w", key, err)
	}
	return &e, nil
}

// Has reports whether an entry is stored under key.
func (d *DB) Has(key string) (bool, error) {
	e, err := d.Lookup(key)
	return e != nil, err
}

// List returns all entries ordered by key.
func (d *DB) List() ([]Entry, error) {
	rows, err := d.db.Query(`SELECT key, entry, eprint, doi FROM entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Text, &e.Eprint, &e.DOI); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}
