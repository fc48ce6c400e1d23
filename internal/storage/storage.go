// Package storage persists the budget ledger in SQLite. All entities live in
// five tables plus a key-value settings table; multi-table writes run inside
// a single database transaction and publish change notifications only after
// commit.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budget/internal/watch"

	_ "modernc.org/sqlite"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same query methods run directly or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries bundles every ledger query against one DBTX. Write methods record
// the tables they touch; the store publishes that set after commit.
type Queries struct {
	db      DBTX
	touched map[watch.Table]struct{}
}

func newQueries(db DBTX) *Queries {
	return &Queries{db: db, touched: make(map[watch.Table]struct{})}
}

func (q *Queries) touch(tables ...watch.Table) {
	for _, t := range tables {
		q.touched[t] = struct{}{}
	}
}

// Store is the SQLite-backed ledger store. Reads go through the embedded
// Queries; writes go through InTx so notifications follow commits.
type Store struct {
	*Queries
	db  *sql.DB
	hub *watch.Hub
}

// Open opens (creating if needed) the database at dbPath, runs pending
// migrations and returns a ready store.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		Queries: newQueries(db),
		db:      db,
		hub:     watch.NewHub(),
	}, nil
}

func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Hub returns the change notification hub fed by this store.
func (s *Store) Hub() *watch.Hub { return s.hub }

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InTx runs fn against transaction-bound queries. On success the transaction
// commits and the tables fn touched are published to the hub; on error
// everything rolls back and nothing is announced.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	q := newQueries(tx)
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	if len(q.touched) > 0 {
		tables := make([]watch.Table, 0, len(q.touched))
		for t := range q.touched {
			tables = append(tables, t)
		}
		s.hub.Publish(tables...)
	}
	return nil
}

// Notify publishes a change for callers that mutate state outside the store,
// such as the month selection.
func (s *Store) Notify(tables ...watch.Table) {
	s.hub.Publish(tables...)
}

func unixTime(v int64) time.Time { return time.Unix(v, 0).UTC() }
