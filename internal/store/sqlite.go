package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/resumekit/internal/model"
)

// Ensure SQLiteStore implements both store interfaces.
var (
	_ model.ResumeStore = (*SQLiteStore)(nil)
	_ model.SeenStore   = (*SQLiteStore)(nil)
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS resumes (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL,
		name        TEXT NOT NULL,
		content     TEXT NOT NULL DEFAULT '',
		data        TEXT NOT NULL,
		source_hash TEXT NOT NULL DEFAULT '',
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resumes_owner ON resumes (owner_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS seen_files (
		hash       TEXT PRIMARY KEY,
		first_seen INTEGER NOT NULL
	)`,
}

// SQLiteStore persists résumés and the inbox watcher's seen-file hashes in a
// SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// resumes and seen_files tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One writer at a time; the CLI fans out parses concurrently.
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// HasSeen returns true if a document with the given content hash was already ingested.
func (s *SQLiteStore) HasSeen(hash string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_files WHERE hash = ?", hash).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", hash, err)
	}
	return true, nil
}

// MarkSeen records a content hash. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkSeen(hash string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO seen_files (hash, first_seen) VALUES (?, ?)",
		hash, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("marking file %s as seen: %w", hash, err)
	}
	return nil
}

// Cleanup deletes seen-file entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := s.now().Add(-olderThan).UnixMilli()
	_, err := s.db.Exec("DELETE FROM seen_files WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up seen files older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
