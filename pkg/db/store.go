package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cv_types (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		symbol TEXT NOT NULL,
		description TEXT NOT NULL,
		count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cv_fields (
		type_id INTEGER NOT NULL REFERENCES cv_types(id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		column_name TEXT NOT NULL,
		val_type TEXT NOT NULL,
		count INTEGER NOT NULL,
		unique_count INTEGER NOT NULL,
		max_size INTEGER NOT NULL,
		optional INTEGER NOT NULL,
		PRIMARY KEY (type_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS cv_terms (
		id INTEGER PRIMARY KEY,
		type_id INTEGER NOT NULL REFERENCES cv_types(id),
		term TEXT NOT NULL,
		tag TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cv_values (
		term_id INTEGER NOT NULL REFERENCES cv_terms(id),
		field TEXT NOT NULL,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL,
		issue_count INTEGER NOT NULL,
		strict_count INTEGER NOT NULL,
		missing_types TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS run_issues (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		stanza TEXT NOT NULL,
		type TEXT NOT NULL,
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		message TEXT NOT NULL,
		strict INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
}

// Store is the sqlite database holding the exported vocabulary and the
// archive of validation runs.
type Store struct {
	sql  *sql.DB
	path string
}

// Open creates the database file and its parent directories when missing.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY between them.
	conn.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	logger.Debug("Opened database", zap.String("path", path))
	return &Store{sql: conn, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.sql.Close()
}

// withTx runs fn in a transaction, rolling back when fn fails.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) (retErr error) {
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
