package leaderboard

import (
	"errors"
	"regexp"
	"time"

	"github.com/hackercrush/hackercrush/internal/game"
)

const (
	// MaxScore is the highest score the service accepts.
	MaxScore = 10_000_000
	// MaxClientScore is the cap a well-behaved client submits; anything
	// above it is assumed to be a bug or tampering.
	MaxClientScore = 5_000_000

	// DefaultTopLimit applies when a caller asks for the top scores
	// without a limit.
	DefaultTopLimit = 10
	// MaxTopLimit bounds how many rows one query may return.
	MaxTopLimit = 100
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,12}$`)

var (
	ErrInvalidHandle = errors.New("handle must be 1-12 letters, digits or underscores")
	ErrInvalidScore  = errors.New("score out of range")
	ErrInvalidMode   = errors.New("unknown game mode")
	ErrNotRanked     = errors.New("handle has no recorded score")
)

// Entry is one leaderboard row: a player's best score in one mode.
// Rank is derived on reads (1 plus the count of strictly higher scores)
// and ignored on submission.
type Entry struct {
	Handle    string    `json:"handle"`
	Mode      game.Mode `json:"mode"`
	Score     int       `json:"score"`
	Level     int       `json:"level,omitempty"`
	Rank      int       `json:"rank,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Validate checks an entry against the service-side rules.
func (e Entry) Validate() error {
	if !handlePattern.MatchString(e.Handle) {
		return ErrInvalidHandle
	}
	if e.Score < 0 || e.Score > MaxScore {
		return ErrInvalidScore
	}
	if _, err := game.DefaultModeConfig(e.Mode); err != nil {
		return ErrInvalidMode
	}
	return nil
}

// ClampLimit normalizes a requested result count.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	if limit > MaxTopLimit {
		return MaxTopLimit
	}
	return limit
}

// ScoreList is the wire shape for top-score responses.
type ScoreList struct {
	Entries []Entry `json:"entries"`
}

// RankResult is the wire shape for a single player's standing.
type RankResult struct {
	Entry Entry `json:"entry"`
	Rank  int   `json:"rank"`
}
