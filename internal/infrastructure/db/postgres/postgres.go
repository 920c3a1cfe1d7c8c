// Package postgres implements the repository ports against PostgreSQL using
// the pgx stdlib driver and squirrel for query building.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const defaultTimeout = 5 * time.Second

// psql is the shared squirrel builder with PostgreSQL placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DB wraps the sql connection pool handed to the repositories.
type DB struct {
	*sql.DB
	logger zerolog.Logger
}

// Config captures the settings for establishing a Postgres connection.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Connect opens a pgx-backed pool and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 4
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxIdle)
	conn.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	log.Info().Msg("connected to postgres")
	return &DB{DB: conn, logger: log}, nil
}

// Ping reports connectivity for readiness checks.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

// pgErrCode extracts the PostgreSQL error code, or "" for non-pg errors.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// inTx runs fn inside a transaction, rolling back on error.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
