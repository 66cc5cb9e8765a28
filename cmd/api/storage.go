package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/migrations"
)

// openStore builds the BlobStore selected by cfg.StorageDriver, applying
// migrations for the SQL backends. The returned func releases the backend.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.BlobStore, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		log.Warn("using in-memory storage; itineraries are lost on restart")
		return repo.NewMemoryBlobStore(), func() {}, nil

	case config.DriverSQLite:
		db, err := repo.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		n, err := migrations.Up(ctx, db, goose.DialectSQLite3)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("sqlite storage ready", "path", cfg.SQLitePath, "migrations_applied", n)
		return repo.NewSQLiteBlobStore(db), func() { db.Close() }, nil

	case config.DriverPostgres:
		// pgxpool manages a pool of Postgres connections.
		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		// goose speaks database/sql; borrow a handle backed by the same pool.
		n, err := migrations.Up(ctx, stdlib.OpenDBFromPool(pool), goose.DialectPostgres)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("postgres storage ready", "migrations_applied", n)
		return repo.NewPostgresBlobStore(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
