// Package sqlite implements the durable key-value blob store on a local
// SQLite database: one table, one row per named blob.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// BlobStore persists named binary blobs. It satisfies the persistence
// gateway's store contract.
type BlobStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes the blob store and runs the required migration.
// Use ":memory:" for an in-memory database.
func Open(dbPath string, logger *slog.Logger) (*BlobStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &BlobStore{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *BlobStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *BlobStore) migrate() error {
	stmt := `CREATE TABLE IF NOT EXISTS blobs (
        name TEXT PRIMARY KEY,
        data BLOB NOT NULL,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    );`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Load fetches a blob by name. The bool reports whether the blob exists.
func (s *BlobStore) Load(name string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM blobs WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load blob: %w", err)
	}
	return data, true, nil
}

// Save upserts a blob under its name.
func (s *BlobStore) Save(name string, data []byte) error {
	_, err := s.db.Exec(`INSERT INTO blobs(name, data, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`, name, data)
	if err != nil {
		return fmt.Errorf("save blob: %w", err)
	}
	return nil
}
