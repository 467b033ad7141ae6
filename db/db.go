// ABOUTME: Database connection management and initialization
// ABOUTME: Opens SQLite with WAL mode at the XDG path, or Postgres through pgx when given a DSN
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL flavour behind a DB.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// DB wraps the connection pool with its dialect so repositories can stay
// dialect-agnostic and write `?` placeholders everywhere.
type DB struct {
	sql     *sql.DB
	dialect Dialect
}

// IsPostgresDSN reports whether target names a Postgres server rather than a file.
func IsPostgresDSN(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// OpenDatabase opens target and applies the schema. target is either a
// SQLite file path (":memory:" works) or a postgres:// DSN.
func OpenDatabase(target string) (*DB, error) {
	if IsPostgresDSN(target) {
		return openPostgres(target)
	}
	return openSQLite(target)
}

func openSQLite(path string) (*DB, error) {
	if path != ":memory:" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Configure connection pool for SQLite (avoid database locked errors)
	conn.SetMaxOpenConns(1)

	database := &DB{sql: conn, dialect: SQLite}
	if err := database.InitSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return database, nil
}

func openPostgres(dsn string) (*DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	if err := conn.PingContext(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	database := &DB{sql: conn, dialect: Postgres}
	if err := database.InitSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return database, nil
}

func (d *DB) Dialect() Dialect { return d.dialect }

// Conn returns a DBTX over the pool that rewrites placeholders for the dialect.
func (d *DB) Conn() DBTX {
	return wrap(d.sql, d.dialect)
}

func (d *DB) Close() error {
	return d.sql.Close()
}

// WithinTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, wrap(tx, d.dialect)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
