// Package scancache persists analysis records in SQLite so repeated batch
// scans skip files that have not changed.
//
// Entries are keyed by path and validated against size plus mtime; a file
// that changed on disk is a miss and gets re-analyzed. The database is a
// cache, not an archive: Prune drops entries for files that no longer exist
// and wiping the file is always safe.
package scancache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"hkxtool/internal/hkx"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_records (
    path       TEXT PRIMARY KEY,
    size       INTEGER NOT NULL,
    mtime_ns   INTEGER NOT NULL,
    record     TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store manages the analysis record cache.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

// Open initializes or connects to the cache database. A file lock beside the
// database serializes concurrent CLI invocations; Open blocks until the lock
// is held.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("scan cache path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create scan cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire scan cache lock: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, lock: lock, path: path}, nil
}

// Close releases the database connection and the file lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.db != nil {
		firstErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Get returns the cached record for path when size and mtime still match.
func (s *Store) Get(ctx context.Context, path string, size, mtimeNS int64) (*hkx.FileRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT size, mtime_ns, record FROM scan_records WHERE path = ?`, path)

	var (
		storedSize  int64
		storedMtime int64
		payload     string
	)
	if err := row.Scan(&storedSize, &storedMtime, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	if storedSize != size || storedMtime != mtimeNS {
		return nil, false, nil
	}

	var rec hkx.FileRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		// A corrupt entry is treated as a miss; the fresh analysis will
		// overwrite it.
		return nil, false, nil
	}
	return &rec, true, nil
}

// Put stores a record under its path, replacing any previous entry.
func (s *Store) Put(ctx context.Context, rec *hkx.FileRecord, mtimeNS int64) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return s.execWithRetry(ctx,
		`INSERT INTO scan_records (path, size, mtime_ns, record, created_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             size = excluded.size,
             mtime_ns = excluded.mtime_ns,
             record = excluded.record,
             created_at = excluded.created_at`,
		rec.Path, rec.Size, mtimeNS, string(payload),
		time.Now().UTC().Format(time.RFC3339Nano))
}

// Prune drops entries whose files no longer exist and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM scan_records`)
	if err != nil {
		return 0, fmt.Errorf("list cache entries: %w", err)
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("scan cache entry: %w", err)
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			stale = append(stale, path)
		}
	}
	if err := rows.Close(); err != nil {
		return 0, err
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, path := range stale {
		if err := s.execWithRetry(ctx, `DELETE FROM scan_records WHERE path = ?`, path); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// Len reports the number of cached entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scan_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		_, lastErr = s.db.ExecContext(ctx, query, args...)
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
