package game

import (
	"fmt"
	"math"

	"github.com/hackercrush/hackercrush/internal/board"
)

// Mode selects the rule set a session runs under.
type Mode string

const (
	// ModeEndless runs until the board locks up with no reshuffles left.
	ModeEndless Mode = "endless"
	// ModeMoves grants a fixed move allotment per level with score targets.
	ModeMoves Mode = "moves"
	// ModeTimed runs against a countdown clock.
	ModeTimed Mode = "timed"
)

// Scoring and progression constants.
const (
	MatchBaseScore    = 10
	CascadeMultiplier = 1.5

	StripedBonus   = 50
	WrappedBonus   = 100
	ColorBombBonus = 500

	TargetBaseScore  = 1000
	TargetMultiplier = 1.5
	UnusedMoveBonus  = 50

	SpecialTimeBonus = 3.0
	ComboTimeBonus   = 5.0
)

// MovesState carries the progression data specific to moves mode.
type MovesState struct {
	MovesRemaining int `json:"movesRemaining"`
	MovesPerLevel  int `json:"movesPerLevel"`
	Level          int `json:"level"`
	TargetScore    int `json:"targetScore"`
}

// TimedState carries the countdown for timed mode.
type TimedState struct {
	TimeRemaining float64 `json:"timeRemaining"`
}

// EndlessState carries the reshuffle budget for endless mode.
type EndlessState struct {
	ReshufflesLeft int `json:"reshufflesLeft"`
}

// State tracks score and mode progression for one session. Exactly one
// of Moves, Timed or Endless is non-nil, matching Mode.
type State struct {
	Mode         Mode `json:"mode"`
	Score        int  `json:"score"`
	CascadeLevel int  `json:"-"`
	GameOver     bool `json:"gameOver"`

	Moves   *MovesState   `json:"moves,omitempty"`
	Timed   *TimedState   `json:"timed,omitempty"`
	Endless *EndlessState `json:"endless,omitempty"`
}

// NewState builds the starting state for cfg. The mode must be one of
// the three known modes.
func NewState(cfg ModeConfig) (*State, error) {
	s := &State{Mode: cfg.Mode, CascadeLevel: 1}
	switch cfg.Mode {
	case ModeMoves:
		s.Moves = &MovesState{
			MovesRemaining: cfg.Moves,
			MovesPerLevel:  cfg.Moves,
			Level:          1,
			TargetScore:    TargetBaseScore,
		}
	case ModeTimed:
		s.Timed = &TimedState{TimeRemaining: cfg.Seconds}
	case ModeEndless:
		s.Endless = &EndlessState{ReshufflesLeft: cfg.Reshuffles}
	default:
		return nil, fmt.Errorf("unknown game mode: %q", cfg.Mode)
	}
	return s, nil
}

// AddMatchScore scores a cleared match of the given piece count at the
// current cascade level and returns the points awarded.
func (s *State) AddMatchScore(count int) int {
	points := int(float64(count) * MatchBaseScore * math.Pow(CascadeMultiplier, float64(s.CascadeLevel-1)))
	s.Score += points
	return points
}

// AddSpecialBonus awards the creation bonus for a special piece and
// returns the points awarded.
func (s *State) AddSpecialBonus(special board.Special) int {
	var points int
	switch special {
	case board.SpecialStripedH, board.SpecialStripedV:
		points = StripedBonus
	case board.SpecialWrapped:
		points = WrappedBonus
	case board.SpecialColorBomb:
		points = ColorBombBonus
	}
	s.Score += points
	return points
}

// UseMove consumes one move in moves mode.
func (s *State) UseMove() {
	if s.Moves == nil {
		return
	}
	if s.Moves.MovesRemaining > 0 {
		s.Moves.MovesRemaining--
	}
}

// UpdateTime advances the countdown in timed mode. The clock clamps at
// zero and ends the game.
func (s *State) UpdateTime(delta float64) {
	if s.Timed == nil || s.GameOver {
		return
	}
	s.Timed.TimeRemaining -= delta
	if s.Timed.TimeRemaining <= 0 {
		s.Timed.TimeRemaining = 0
		s.GameOver = true
	}
}

// AddTimeBonusSpecial credits the clock for creating a special piece.
func (s *State) AddTimeBonusSpecial() {
	if s.Timed != nil {
		s.Timed.TimeRemaining += SpecialTimeBonus
	}
}

// AddTimeBonusCombo credits the clock for detonating a special combo.
func (s *State) AddTimeBonusCombo() {
	if s.Timed != nil {
		s.Timed.TimeRemaining += ComboTimeBonus
	}
}

// UseReshuffle consumes one reshuffle in endless mode, reporting
// whether one was available.
func (s *State) UseReshuffle() bool {
	if s.Endless == nil || s.Endless.ReshufflesLeft <= 0 {
		return false
	}
	s.Endless.ReshufflesLeft--
	return true
}

// Stars rates the current score against the level target: one star for
// reaching it, two at 1.5x, three at 2x.
func (s *State) Stars() int {
	if s.Moves == nil {
		return 0
	}
	target := float64(s.Moves.TargetScore)
	switch {
	case float64(s.Score) >= 2*target:
		return 3
	case float64(s.Score) >= 1.5*target:
		return 2
	case float64(s.Score) >= target:
		return 1
	default:
		return 0
	}
}

// LevelProgress reports score progress toward the level target as a
// percentage, capped at 100. Modes without level targets report 0.
func (s *State) LevelProgress() float64 {
	if s.Moves == nil || s.Moves.TargetScore <= 0 {
		return 0
	}
	pct := float64(s.Score) / float64(s.Moves.TargetScore) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// CompleteLevelIfReady advances to the next level in moves mode once
// the target score is reached. Unused moves convert to bonus points,
// the move allotment resets and the target scales up.
func (s *State) CompleteLevelIfReady() (LevelCompleted, bool) {
	if s.Moves == nil || s.Score < s.Moves.TargetScore {
		return LevelCompleted{}, false
	}
	m := s.Moves
	ev := LevelCompleted{Level: m.Level, Stars: s.Stars()}
	s.Score += m.MovesRemaining * UnusedMoveBonus
	m.Level++
	m.TargetScore = int(TargetBaseScore * math.Pow(TargetMultiplier, float64(m.Level-1)))
	m.MovesRemaining = m.MovesPerLevel
	ev.NewTarget = m.TargetScore
	return ev, true
}

// CheckGameOver applies the end conditions that depend on board
// liveness. Timed expiry is handled in UpdateTime.
func (s *State) CheckGameOver(hasValidMoves bool) bool {
	switch s.Mode {
	case ModeMoves:
		if s.Moves != nil && s.Moves.MovesRemaining <= 0 && s.Score < s.Moves.TargetScore {
			s.GameOver = true
		}
	case ModeEndless:
		if !hasValidMoves && s.Endless != nil && s.Endless.ReshufflesLeft <= 0 {
			s.GameOver = true
		}
	}
	return s.GameOver
}
