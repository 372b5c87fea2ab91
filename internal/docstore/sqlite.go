// ABOUTME: SQLite implementation of the primitive document store using modernc.org/sqlite
// ABOUTME: One documents table keyed by (collection, key) holding JSON-encoded dictionaries

package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a durable key-value document store over named collections.
// Every mutating call persists before returning; there is no caching layer.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	closed atomic.Bool
}

// Open opens or creates the document store at the given path.
// Parent directories are created if needed. Returns ErrUnavailable if the
// backing medium cannot be opened.
func Open(path string) (*Store, error) {
	logger := slog.Default().With("component", "docstore")

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, engineErr("creating database directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, engineErr("opening database", err)
	}

	// WAL lets readers proceed while a write is in flight
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, engineErr("enabling WAL mode", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, engineErr("setting busy timeout", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, engineErr("creating schema", err)
	}

	logger.Info("document store opened", "path", path)
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			key        TEXT NOT NULL,
			doc        TEXT NOT NULL,
			updated_at TEXT NOT NULL,

			PRIMARY KEY (collection, key)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_collection
			ON documents(collection);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close flushes and releases the database handle. All collection views
// become invalid; subsequent calls on them fail with ErrUnavailable.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.logger.Info("closing document store")
	return s.db.Close()
}

// Collection returns a lightweight view bound to one named collection.
// Views borrow the store handle and must not outlive it.
func (s *Store) Collection(name string) *Collection {
	return &Collection{store: s, name: name}
}

// Collection is a namespaced view over the shared store handle.
type Collection struct {
	store *Store
	name  string
}

// Name returns the collection name this view is bound to.
func (c *Collection) Name() string { return c.name }

// Put upserts the document under key, silently overwriting any existing one.
func (c *Collection) Put(ctx context.Context, key string, doc Dict) error {
	s := c.store
	if s.closed.Load() {
		return engineErr("put", sql.ErrConnDone)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (collection, key, doc, updated_at)
		VALUES (?, ?, ?, ?)
	`, c.name, key, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return engineErr("inserting document", err)
	}

	s.logger.Debug("put document", "collection", c.name, "key", key, "size", len(raw))
	return nil
}

// Get loads the document under key. Returns ErrNotFound if absent and
// ErrCorruption if the stored bytes do not parse as a dictionary.
func (c *Collection) Get(ctx context.Context, key string) (Dict, error) {
	s := c.store
	if s.closed.Load() {
		return nil, engineErr("get", sql.ErrConnDone)
	}

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE collection = ? AND key = ?`,
		c.name, key,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, engineErr("querying document", err)
	}

	var doc Dict
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, corruptErr(c.name, key, err)
	}
	return doc, nil
}

// Delete removes the document under key. Deleting an absent key is a no-op.
func (c *Collection) Delete(ctx context.Context, key string) error {
	s := c.store
	if s.closed.Load() {
		return engineErr("delete", sql.ErrConnDone)
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND key = ?`,
		c.name, key,
	)
	if err != nil {
		return engineErr("deleting document", err)
	}

	s.logger.Debug("deleted document", "collection", c.name, "key", key)
	return nil
}

// List returns a snapshot of the collection taken at query time, ordered by
// key. An entry whose stored bytes fail to parse carries the corruption
// error on the entry itself; the rest of the scan is unaffected.
func (c *Collection) List(ctx context.Context) ([]Entry, error) {
	s := c.store
	if s.closed.Load() {
		return nil, engineErr("list", sql.ErrConnDone)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, doc FROM documents WHERE collection = ? ORDER BY key`,
		c.name,
	)
	if err != nil {
		return nil, engineErr("querying collection", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, engineErr("scanning document row", err)
		}

		entry := Entry{Key: key}
		var doc Dict
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			entry.Err = corruptErr(c.name, key, err)
		} else {
			entry.Doc = doc
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, engineErr("iterating document rows", err)
	}
	return entries, nil
}
