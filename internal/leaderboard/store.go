package leaderboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hackercrush/hackercrush/internal/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	handle     TEXT NOT NULL,
	mode       TEXT NOT NULL,
	score      INTEGER NOT NULL,
	level      INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (handle, mode)
);
CREATE INDEX IF NOT EXISTS idx_scores_mode_score ON scores(mode, score DESC);
`

// Store keeps best-per-handle scores in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if missing) the scores database at path and
// applies the schema.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open scores db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SubmitScore records an entry, keeping only each handle's best score
// per mode. It reports whether the stored score improved.
func (s *Store) SubmitScore(ctx context.Context, e Entry) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (handle, mode, score, level)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(handle, mode) DO UPDATE SET
			score = excluded.score,
			level = excluded.level,
			created_at = CURRENT_TIMESTAMP
		WHERE excluded.score > scores.score`,
		e.Handle, string(e.Mode), e.Score, e.Level,
	)
	if err != nil {
		return false, fmt.Errorf("submit score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("submit score: %w", err)
	}
	return n > 0, nil
}

// Top returns the highest scores for a mode, best first, earlier
// submissions winning ties. Tied scores share a rank.
func (s *Store) Top(ctx context.Context, mode game.Mode, limit int) ([]Entry, error) {
	limit = ClampLimit(limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT handle, mode, score, level, created_at,
		       (SELECT COUNT(1) FROM scores h WHERE h.mode = s.mode AND h.score > s.score) + 1
		FROM scores s
		WHERE mode = ?
		ORDER BY score DESC, created_at ASC
		LIMIT ?`, string(mode), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Handle, &e.Mode, &e.Score, &e.Level, &e.CreatedAt, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Rank returns a handle's standing in a mode: 1 plus the number of
// strictly higher scores. ErrNotRanked when the handle has no entry.
func (s *Store) Rank(ctx context.Context, handle string, mode game.Mode) (Entry, int, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `
		SELECT handle, mode, score, level, created_at
		FROM scores
		WHERE handle = ? AND mode = ?`,
		handle, string(mode),
	).Scan(&e.Handle, &e.Mode, &e.Score, &e.Level, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, 0, ErrNotRanked
	}
	if err != nil {
		return Entry{}, 0, fmt.Errorf("query score: %w", err)
	}

	var higher int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM scores WHERE mode = ? AND score > ?`,
		string(mode), e.Score,
	).Scan(&higher)
	if err != nil {
		return Entry{}, 0, fmt.Errorf("query rank: %w", err)
	}
	e.Rank = higher + 1
	return e, e.Rank, nil
}
