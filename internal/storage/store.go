package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	pragmaJournalModeWAL = `PRAGMA journal_mode=WAL`
	pragmaForeignKeysOn  = `PRAGMA foreign_keys=ON`
	pragmaBusyTimeout    = `PRAGMA busy_timeout=5000`
)

// LibraryStore holds one user's media collection. It owns exactly one
// database connection for its entire lifetime; Close releases it.
type LibraryStore struct {
	db   *sql.DB
	path string

	Media MediaRepository
}

// RegistryStore holds the shared set of registered usernames.
type RegistryStore struct {
	db   *sql.DB
	path string

	Users UserRepository
}

// OpenLibrary opens (creating and migrating if necessary) the library file
// at path. Failures here are fatal to the store instance; the handle is
// released on every error path.
func OpenLibrary(path string) (*LibraryStore, error) {
	db, err := openDatabase(path, LibraryMigrations())
	if err != nil {
		return nil, err
	}

	store := &LibraryStore{db: db, path: path}
	store.Media = &mediaRepository{db: db}
	return store, nil
}

// OpenRegistry opens (creating and migrating if necessary) the shared
// registry file at path.
func OpenRegistry(path string) (*RegistryStore, error) {
	db, err := openDatabase(path, RegistryMigrations())
	if err != nil {
		return nil, err
	}

	store := &RegistryStore{db: db, path: path}
	store.Users = &userRepository{db: db}
	return store, nil
}

func (s *LibraryStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *LibraryStore) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *LibraryStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *RegistryStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *RegistryStore) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func (s *RegistryStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func openDatabase(path string, migrations []Migration) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("open storage: empty path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("open storage: create parent dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	// Single-session design: one connection per store for its lifetime.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := configureSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(db, migrations); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureDBPermissions(path); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func configureSQLite(db *sql.DB) error {
	pragmas := []string{pragmaJournalModeWAL, pragmaForeignKeysOn, pragmaBusyTimeout}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("configure sqlite %q: %w", stmt, err)
		}
	}
	return nil
}

func ensureDBPermissions(path string) error {
	if err := os.Chmod(path, 0o600); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("set db file permissions: %w", err)
		}
	}

	walPath := path + "-wal"
	if err := os.Chmod(walPath, 0o600); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("set wal file permissions: %w", err)
		}
	}
	return nil
}
