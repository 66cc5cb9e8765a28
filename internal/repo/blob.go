// Package repo contains all storage access for the trip planner.
// The itinerary collection is persisted as a single serialized snapshot under
// one key, so every backend only needs to implement BlobStore.
// No business logic lives here, only storage calls and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/trip-planner/internal/domain"
)

// BlobStore is a key-value store of opaque blobs.
// Keys are treated opaquely; the service uses one key for the whole
// itinerary collection.
type BlobStore interface {
	// Read returns the blob stored under key. The bool is false, with a nil
	// error, when nothing has been stored under key yet.
	Read(ctx context.Context, key string) ([]byte, bool, error)

	// Write stores blob under key, replacing any previous value atomically.
	Write(ctx context.Context, key string, blob []byte) error
}

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgBlobStore is the Postgres implementation of BlobStore, backed by the
// kv_blobs table created by the migrations package.
type pgBlobStore struct {
	db db
}

// NewPostgresBlobStore constructs a BlobStore backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresBlobStore(db db) BlobStore {
	return &pgBlobStore{db: db}
}

// Read fetches the blob stored under key.
func (s *pgBlobStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT value FROM kv_blobs WHERE key = @key`

	var value string
	err := s.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("repo.pgBlobStore.Read: %w: %w", domain.ErrIO, err)
	}
	return []byte(value), true, nil
}

// Write upserts the blob under key in a single statement.
func (s *pgBlobStore) Write(ctx context.Context, key string, blob []byte) error {
	const q = `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES (@key, @value, now())
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = now()`

	args := pgx.NamedArgs{
		"key":   key,
		"value": string(blob),
	}

	if _, err := s.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.pgBlobStore.Write: %w: %w", domain.ErrIO, err)
	}
	return nil
}
