package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Store provides fallible get/set/remove access to the flat key-value
// state document. Values are stored as JSON, one row per top-level key.
// Merging is shallow: Set replaces whole keys, never nested fields, so
// nested documents like the entry log must be read-modify-written by the
// caller.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// New creates a store over an already-migrated database handle.
func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Get reads the given keys. Keys with no stored value are simply absent
// from the result; callers must not assume presence.
func (s *Store) Get(keys ...string) (Document, error) {
	if len(keys) == 0 {
		return Document{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := s.db.Query(
		fmt.Sprintf("SELECT key, value FROM state WHERE key IN (%s)", placeholders),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	defer rows.Close()

	return scanDocument(rows)
}

// GetAll reads the entire state document.
func (s *Store) GetAll() (Document, error) {
	rows, err := s.db.Query("SELECT key, value FROM state")
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	defer rows.Close()

	return scanDocument(rows)
}

// Set merges the given keys into the stored document in one transaction.
// Each value is JSON-encoded; nil stores a JSON null.
func (s *Store) Set(doc map[string]interface{}) error {
	if len(doc) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for key, value := range doc {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if _, err := stmt.Exec(key, string(encoded)); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state write: %w", err)
	}
	return nil
}

// Remove deletes the given keys. Missing keys are not an error.
func (s *Store) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	if _, err := s.db.Exec(
		fmt.Sprintf("DELETE FROM state WHERE key IN (%s)", placeholders),
		args...,
	); err != nil {
		return fmt.Errorf("failed to remove state keys: %w", err)
	}
	return nil
}

// SeedDefaults writes the given document for keys that have no stored
// value yet, leaving existing keys untouched. Used once at startup to
// reproduce first-install defaults.
func (s *Store) SeedDefaults(doc map[string]interface{}) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO state (key, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	seeded := 0
	for key, value := range doc {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		res, err := stmt.Exec(key, string(encoded))
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", key, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			seeded++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	if seeded > 0 {
		s.logger.Info("Seeded default state", zap.Int("keys", seeded))
	}
	return nil
}

func scanDocument(rows *sql.Rows) (Document, error) {
	doc := Document{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}
		doc[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating state rows: %w", err)
	}
	return doc, nil
}
