// Package sqlite implements the storage interface on SQLite via
// database/sql. All aggregate updates (journey progress, member
// donation totals) run inside BEGIN IMMEDIATE transactions so
// concurrent writers serialize instead of racing on the shared row.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage backend
func New(path string) (*SQLiteStorage, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// WAL for concurrent readers during writes; foreign keys enforced
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to a
	// single connection so every query sees the same database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// immediateTx acquires a dedicated connection and starts a BEGIN
// IMMEDIATE transaction on it. IMMEDIATE takes the write lock up
// front, which serializes read-modify-write sequences on shared
// aggregates across concurrent writers. database/sql's BeginTx always
// uses DEFERRED mode with this driver, so we issue the statements
// ourselves on a pinned connection.
//
// The returned done func rolls back unless commit succeeded; call it
// with defer and use the returned commit func to finish.
func (s *SQLiteStorage) immediateTx(ctx context.Context) (conn *sql.Conn, commit func() error, done func(), err error) {
	conn, err = s.db.Conn(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		conn.Close()
		return nil, nil, nil, fmt.Errorf("failed to begin immediate transaction: %w", err)
	}

	committed := false
	commit = func() error {
		if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		committed = true
		return nil
	}
	done = func() {
		if !committed {
			// Background context so rollback runs even if ctx is canceled
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
		conn.Close()
	}
	return conn, commit, done, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
