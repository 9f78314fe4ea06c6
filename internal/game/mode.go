package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Default allotments for each mode.
const (
	DefaultMoves      = 30
	DefaultSeconds    = 90.0
	DefaultReshuffles = 3
)

// ModeConfig describes how a session is set up. Only the field
// matching Mode is consulted; the others are ignored.
type ModeConfig struct {
	Mode       Mode    `json:"mode"`
	Moves      int     `json:"moves,omitempty"`
	Seconds    float64 `json:"seconds,omitempty"`
	Reshuffles int     `json:"reshuffles,omitempty"`
}

// DefaultModeConfig returns the standard configuration for a mode.
func DefaultModeConfig(mode Mode) (ModeConfig, error) {
	switch mode {
	case ModeMoves:
		return ModeConfig{Mode: ModeMoves, Moves: DefaultMoves}, nil
	case ModeTimed:
		return ModeConfig{Mode: ModeTimed, Seconds: DefaultSeconds}, nil
	case ModeEndless:
		return ModeConfig{Mode: ModeEndless, Reshuffles: DefaultReshuffles}, nil
	default:
		return ModeConfig{}, fmt.Errorf("unknown game mode: %q", mode)
	}
}

// ParseModeSpec parses a mode specification string such as "endless",
// "moves:25" or "timed:120". The optional parameter after the colon
// overrides the mode's allotment: move count for moves mode, seconds
// for timed mode, reshuffle count for endless mode.
func ParseModeSpec(spec string) (ModeConfig, error) {
	name, param, hasParam := strings.Cut(strings.TrimSpace(spec), ":")
	cfg, err := DefaultModeConfig(Mode(name))
	if err != nil {
		return ModeConfig{}, err
	}
	if !hasParam {
		return cfg, nil
	}
	switch cfg.Mode {
	case ModeMoves:
		n, err := strconv.Atoi(param)
		if err != nil || n <= 0 {
			return ModeConfig{}, fmt.Errorf("invalid move count %q in mode spec", param)
		}
		cfg.Moves = n
	case ModeTimed:
		secs, err := strconv.ParseFloat(param, 64)
		if err != nil || secs <= 0 {
			return ModeConfig{}, fmt.Errorf("invalid time limit %q in mode spec", param)
		}
		cfg.Seconds = secs
	case ModeEndless:
		n, err := strconv.Atoi(param)
		if err != nil || n < 0 {
			return ModeConfig{}, fmt.Errorf("invalid reshuffle count %q in mode spec", param)
		}
		cfg.Reshuffles = n
	}
	return cfg, nil
}

// FormatTimeRemaining renders a countdown as m:ss for display.
func FormatTimeRemaining(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
