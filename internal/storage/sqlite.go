package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps tab storage for many tabs in one database, keyed by tab id.
type SQLiteStore struct {
	db    *sql.DB
	tabID string
}

// NewSQLite opens (or creates) the database at dbPath and scopes the store to
// tabID.
func NewSQLite(dbPath, tabID string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db, tabID: tabID}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS tab_storage (
		tab_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (tab_id, key)
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM tab_storage WHERE tab_id = ? AND key = ?`,
		s.tabID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query tab storage: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tab_storage (tab_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(tab_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		s.tabID, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert tab storage: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM tab_storage WHERE tab_id = ? AND key = ?`,
		s.tabID, key,
	); err != nil {
		return fmt.Errorf("delete tab storage: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
