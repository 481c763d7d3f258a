// Package cache stores generated tape programs keyed by the content hash of
// their source, so unchanged programs are not regenerated.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("caress.cache")

// ErrNotFound indicates the requested key has no cached program.
var ErrNotFound = errors.New("cache: entry not found")

// Entry is one cached program.
type Entry struct {
	Key     string
	Program string
	Created time.Time
}

// Store handles SQLite storage for generated programs.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS programs (
		key TEXT PRIMARY KEY,
		program TEXT NOT NULL,
		created INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// DefaultPath returns the cache location used when none is configured:
// $CARESS_CACHE, or caress/programs.db under the user cache directory.
func DefaultPath() (string, error) {
	if p := os.Getenv("CARESS_CACHE"); p != "" {
		return p, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("getting cache dir: %w", err)
	}
	return filepath.Join(dir, "caress", "programs.db"), nil
}

// Path returns the database file the store was opened on.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores program under key, replacing any previous entry.
func (s *Store) Put(key, program string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO programs (key, program, created) VALUES (?, ?, ?)",
		key, program, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving program: %w", err)
	}
	log.Debugf("stored %s (%d bytes)", short(key), len(program))
	return nil
}

// Get returns the program cached under key, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	e, err := s.Lookup(key)
	if err != nil {
		return "", err
	}
	return e.Program, nil
}

// Lookup returns the full entry cached under key, or ErrNotFound.
func (s *Store) Lookup(key string) (*Entry, error) {
	var (
		program string
		created int64
	)
	err := s.db.QueryRow("SELECT program, created FROM programs WHERE key = ?", key).Scan(&program, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying program: %w", err)
	}
	log.Debugf("hit %s", short(key))
	return &Entry{Key: key, Program: program, Created: time.Unix(created, 0)}, nil
}

// Delete removes the entry under key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM programs WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	return nil
}

// Len returns the number of cached programs.
func (s *Store) Len() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM programs").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting programs: %w", err)
	}
	return n, nil
}

// Prune removes entries created before cutoff and reports how many went.
func (s *Store) Prune(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM programs WHERE created < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning programs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning programs: %w", err)
	}
	return int(n), nil
}

func short(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
