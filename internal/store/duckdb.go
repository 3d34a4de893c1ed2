package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

// DuckDBStore persists state in a single DuckDB file.
type DuckDBStore struct {
	db *sql.DB
}

var (
	openOnce sync.Once
	shared   *DuckDBStore
	openErr  error
)

// Open returns a process-wide DuckDB store backed by the given file,
// creating the schema on first use.
func Open(path string) (*DuckDBStore, error) {
	openOnce.Do(func() {
		shared, openErr = openDuckDB(path)
	})
	return shared, openErr
}

// OpenNew opens an independent store instance. Open is preferred in the
// application; OpenNew exists for tooling that needs its own handle.
func OpenNew(path string) (*DuckDBStore, error) {
	return openDuckDB(path)
}

func openDuckDB(path string) (*DuckDBStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	// DuckDB works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			key VARCHAR PRIMARY KEY,
			value VARCHAR NOT NULL,
			updated_at TIMESTAMP DEFAULT current_timestamp
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create app_state table: %w", err)
	}

	return &DuckDBStore{db: db}, nil
}

func (s *DuckDBStore) Get(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read state key %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *DuckDBStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, current_timestamp)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = current_timestamp`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("failed to write state key %q: %w", key, err)
	}
	return nil
}

func (s *DuckDBStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete state key %q: %w", key, err)
	}
	return nil
}

func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
