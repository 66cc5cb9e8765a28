package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql

	"github.com/pkordes/trip-planner/internal/domain"
)

// sqlDB is the subset of *sql.DB and *sql.Tx used by the SQLite store.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqliteBlobStore is the SQLite implementation of BlobStore. It suits the
// single-device, single-writer deployment the planner is designed for.
type sqliteBlobStore struct {
	db sqlDB
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
// Connections wait up to five seconds on a locked database instead of
// failing immediately. Callers are responsible for closing the returned *sql.DB.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return db, nil
}

// NewSQLiteBlobStore constructs a BlobStore backed by an already-migrated
// SQLite database. Pass *sql.DB in production or *sql.Tx in tests.
func NewSQLiteBlobStore(db sqlDB) BlobStore {
	return &sqliteBlobStore{db: db}
}

// Read fetches the blob stored under key.
func (s *sqliteBlobStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT value FROM kv_blobs WHERE key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("repo.sqliteBlobStore.Read: %w: %w", domain.ErrIO, err)
	}
	return []byte(value), true, nil
}

// Write upserts the blob under key.
func (s *sqliteBlobStore) Write(ctx context.Context, key string, blob []byte) error {
	const q = `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET value      = excluded.value,
		    updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, q, key, string(blob)); err != nil {
		return fmt.Errorf("repo.sqliteBlobStore.Write: %w: %w", domain.ErrIO, err)
	}
	return nil
}
