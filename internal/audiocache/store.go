package audiocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// manifestStore records what the cache believes about each WAV on disk. The
// row, not the file, is the source of truth: a WAV that disagrees with its
// row is treated as torn and re-extracted.
type manifestStore struct {
	db *sql.DB
}

type manifestEntry struct {
	Key        string
	SourcePath string
	SourceSize int64
	WAVName    string
	WAVSize    int64
	SHA256     string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

const manifestSchema = `
CREATE TABLE IF NOT EXISTS entries (
    key          TEXT PRIMARY KEY,
    source_path  TEXT NOT NULL,
    source_size  INTEGER NOT NULL,
    wav_name     TEXT NOT NULL,
    wav_size     INTEGER NOT NULL,
    sha256       TEXT NOT NULL,
    created_at   TEXT NOT NULL,
    last_used_at TEXT NOT NULL
);
`

func openManifest(path string) (*manifestStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audio cache manifest: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(manifestSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init audio cache manifest: %w", err)
	}
	return &manifestStore{db: db}, nil
}

func (s *manifestStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *manifestStore) get(ctx context.Context, key string) (*manifestEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT key, source_path, source_size, wav_name, wav_size, sha256, created_at, last_used_at
		 FROM entries WHERE key = ?`, key)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query manifest entry %s: %w", key, err)
	}
	return entry, nil
}

func (s *manifestStore) put(ctx context.Context, e manifestEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO entries
		 (key, source_path, source_size, wav_name, wav_size, sha256, created_at, last_used_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Key, e.SourcePath, e.SourceSize, e.WAVName, e.WAVSize, e.SHA256,
		e.CreatedAt.UTC().Format(time.RFC3339Nano), e.LastUsedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store manifest entry %s: %w", e.Key, err)
	}
	return nil
}

func (s *manifestStore) touch(ctx context.Context, key string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE entries SET last_used_at = ? WHERE key = ?`,
		at.UTC().Format(time.RFC3339Nano), key)
	if err != nil {
		return fmt.Errorf("touch manifest entry %s: %w", key, err)
	}
	return nil
}

func (s *manifestStore) remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove manifest entry %s: %w", key, err)
	}
	return nil
}

// list returns every entry, least recently used first.
func (s *manifestStore) list(ctx context.Context) ([]manifestEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, source_path, source_size, wav_name, wav_size, sha256, created_at, last_used_at
		 FROM entries ORDER BY last_used_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list manifest entries: %w", err)
	}
	defer rows.Close()

	var entries []manifestEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manifest entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manifest entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*manifestEntry, error) {
	var (
		entry             manifestEntry
		createdAt, usedAt string
	)
	if err := row.Scan(&entry.Key, &entry.SourcePath, &entry.SourceSize, &entry.WAVName,
		&entry.WAVSize, &entry.SHA256, &createdAt, &usedAt); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		entry.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, usedAt); err == nil {
		entry.LastUsedAt = t
	}
	return &entry, nil
}
