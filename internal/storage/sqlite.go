package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tocata/internal/shared"
)

// SQLite stores values in the kv table created by the embedded migrations.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path, applies pool settings and runs pending migrations.
func NewSQLite(path string, maxOpenConns, maxIdleConns int) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, maxOpenConns, maxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// NewSQLiteWithDB wraps an already migrated database connection.
func NewSQLiteWithDB(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in ascending order.
func (s *SQLite) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM kv ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return keys, nil
}

// SchemaVersion reports the highest applied migration.
func (s *SQLite) SchemaVersion() (int, error) {
	return shared.SchemaVersion(s.db)
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
