package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_items (
	session TEXT NOT NULL,
	key     TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (session, key)
)`

// SQLite keeps session items in a database file so they survive between
// separate runs in the same terminal. Each instance sees only the items of
// its own session ID.
type SQLite struct {
	db      *sql.DB
	session string
}

// DefaultPath returns the database location under the XDG state directory.
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "booknav", "session.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "booknav", "session.db")
}

// OpenSQLite opens (creating if needed) the database at path, scoped to
// session. Use ":memory:" for a throwaway database.
func OpenSQLite(path, session string) (*SQLite, error) {
	if session == "" {
		return nil, errors.New("session: empty session id")
	}
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session schema: %w", err)
	}
	return &SQLite{db: db, session: session}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO session_items (session, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (session, key) DO UPDATE SET value = excluded.value`,
		s.session, key, value)
	if err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	return nil
}

// Take deletes and returns the item in a single statement, so two readers
// can never both see it.
func (s *SQLite) Take(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`DELETE FROM session_items WHERE session = ? AND key = ? RETURNING value`,
		s.session, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("taking %q: %w", key, err)
	}
	return value, true, nil
}
