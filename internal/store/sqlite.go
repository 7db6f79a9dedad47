package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLite stores collections and blobs in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite returns a store backed by db. The schema must already exist.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Load returns the stored collection.
func (s *SQLite) Load(ctx context.Context, collection string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM collections WHERE name = ?`, collection,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading collection %s: %w", collection, err)
	}
	return []byte(data), nil
}

// Save upserts every document in a single transaction.
func (s *SQLite) Save(ctx context.Context, docs ...Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, d := range docs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO collections (name, data) VALUES (?, ?)
			 ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
			d.Collection, string(d.Data),
		)
		if err != nil {
			return fmt.Errorf("saving collection %s: %w", d.Collection, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing collections: %w", err)
	}
	return nil
}

// PutBlob stores a blob, replacing any previous one under key.
func (s *SQLite) PutBlob(ctx context.Context, key string, data []byte, mime string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, data, mime) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET data = excluded.data, mime = excluded.mime, updated_at = CURRENT_TIMESTAMP`,
		key, data, mime,
	)
	if err != nil {
		return fmt.Errorf("storing blob %s: %w", key, err)
	}
	return nil
}

// GetBlob returns a blob and its MIME type.
func (s *SQLite) GetBlob(ctx context.Context, key string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := s.db.QueryRowContext(ctx,
		`SELECT data, mime FROM blobs WHERE key = ?`, key,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting blob %s: %w", key, err)
	}
	return data, mime, nil
}

// DeleteBlob removes a blob.
func (s *SQLite) DeleteBlob(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
