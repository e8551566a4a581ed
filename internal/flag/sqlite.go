package flag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS learner_flags (
	learner_id TEXT NOT NULL,
	flag_key   TEXT NOT NULL,
	flag_value TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (learner_id, flag_key)
)`

// SQLite persists flags in a single table
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and creates the flag table
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create flag table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, learnerID, key string) (string, bool, error) {
	if err := CheckKey(learnerID, key); err != nil {
		return "", false, err
	}
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT flag_value FROM learner_flags WHERE learner_id = ? AND flag_key = ?`,
		learnerID, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select flag: %w", err)
	}
	return v, true, nil
}

func (s *SQLite) Set(ctx context.Context, learnerID, key, value string) error {
	if err := CheckKey(learnerID, key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learner_flags (learner_id, flag_key, flag_value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (learner_id, flag_key) DO UPDATE SET
		   flag_value = excluded.flag_value,
		   updated_at = excluded.updated_at`,
		learnerID, key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert flag: %w", err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, learnerID, key string) error {
	if err := CheckKey(learnerID, key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM learner_flags WHERE learner_id = ? AND flag_key = ?`,
		learnerID, key,
	); err != nil {
		return fmt.Errorf("delete flag: %w", err)
	}
	return nil
}
