// Package store persists serialized documents in a local SQLite database,
// keyed by id and fingerprinted for cheap change detection.
//
// Build modes:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/inkwell/core/errors"
	"github.com/FocuswithJustin/inkwell/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	body        BLOB NOT NULL,
	fingerprint TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(updated_at);
`

// Document is one stored document row.
type Document struct {
	ID          string
	Title       string
	Body        []byte
	Fingerprint string
	UpdatedAt   time.Time
}

// Store is a document store backed by a SQLite database file.
type Store struct {
	db *sql.DB
}

// DriverType identifies the underlying SQLite implementation, "purego" or
// "cgo".
func DriverType() string {
	return driverType
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening store %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing store schema")
	}
	logging.Debug("store opened", "path", path, "driver", driverType)
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces a document. The fingerprint is computed from the
// body.
func (s *Store) Put(ctx context.Context, id, title string, body []byte) error {
	if id == "" {
		return errors.NewArgument("id", "must not be empty")
	}
	sum := blake3.Sum256(body)
	fingerprint := hex.EncodeToString(sum[:])

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, body, fingerprint, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			fingerprint = excluded.fingerprint,
			updated_at = excluded.updated_at`,
		id, title, body, fingerprint, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.Wrapf(err, "storing document %s", id)
	}
	logging.StoreOp("put", id, len(body), "fingerprint", fingerprint)
	return nil
}

// Get fetches one document by id.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, body, fingerprint, updated_at
		FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("document", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading document %s", id)
	}
	logging.StoreOp("get", id, len(doc.Body))
	return doc, nil
}

// List returns all documents ordered by most recent update. Bodies are
// included; callers wanting metadata only should not hold the result.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, body, fingerprint, updated_at
		FROM documents ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing documents")
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, errors.Wrap(err, "scanning document row")
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "listing documents")
	}
	return out, nil
}

// Delete removes one document by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "deleting document %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "deleting document %s", id)
	}
	if n == 0 {
		return errors.NewNotFound("document", id)
	}
	logging.StoreOp("delete", id, 0)
	return nil
}

func scanDocument(scan func(...any) error) (*Document, error) {
	var doc Document
	var updated string
	if err := scan(&doc.ID, &doc.Title, &doc.Body, &doc.Fingerprint, &updated); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		return nil, errors.Wrap(err, "parsing updated_at")
	}
	doc.UpdatedAt = ts
	return &doc, nil
}
