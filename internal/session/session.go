// Package session persists the single bearer token between runs, the way the
// original kept it in a cookie: one named value with a one-hour expiry.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// TokenTTL is the fixed lifetime of a saved token. Every successful data
// fetch re-saves the token, pushing expiry out another hour.
const TokenTTL = time.Hour

const tokenName = "token"

// ErrNoToken is returned by Load when nothing usable is stored: no token,
// or one whose expiry has passed.
var ErrNoToken = errors.New("no stored token")

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS session (
		name       TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// Save stores the token with expiry = now + TokenTTL, overwriting any prior
// value.
func (s *Store) Save(token string) error {
	expires := time.Now().UTC().Add(TokenTTL).Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO session (name, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		tokenName, token, expires,
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load returns the stored token if present and unexpired, else ErrNoToken.
// Expiry is enforced by the stored expires_at column, exactly once, here.
func (s *Store) Load() (string, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	var token string
	err := s.db.QueryRow(
		`SELECT value FROM session WHERE name = ? AND expires_at > ?`,
		tokenName, now,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

// Clear removes the token immediately.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE name = ?`, tokenName)
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// DefaultDBPath returns ~/.config/gradr/gradr.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "gradr", "gradr.db"), nil
}
