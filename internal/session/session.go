package session

import (
	"sync"
	"time"

	"github.com/hackercrush/hackercrush/internal/board"
	"github.com/hackercrush/hackercrush/internal/game"
)

// Session binds one game controller to an ID. All controller access
// goes through the session so turns from concurrent requests are
// serialized.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	controller *game.Controller
	lastAccess time.Time
}

// Snapshot is a point-in-time copy of a session's visible state, safe
// to encode after the session lock is released.
type Snapshot struct {
	ID    string           `json:"id"`
	Phase game.Phase       `json:"phase"`
	State game.State       `json:"state"`
	Grid  [][]*board.Piece `json:"grid"`
}

func newSession(id string, controller *game.Controller) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		controller: controller,
		lastAccess: now,
	}
}

// Swap runs one turn against the session's board.
func (s *Session) Swap(from, to board.Position) game.TurnResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
	return s.controller.Swap(from, to)
}

// Tick advances the session clock in timed mode.
func (s *Session) Tick(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
	s.controller.Tick(delta)
}

// Restart resets the session to a fresh game.
func (s *Session) Restart(seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
	return s.controller.Restart(seed)
}

// Snapshot copies the session's state and grid.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()

	state := *s.controller.State()
	if state.Moves != nil {
		m := *state.Moves
		state.Moves = &m
	}
	if state.Timed != nil {
		tm := *state.Timed
		state.Timed = &tm
	}
	if state.Endless != nil {
		e := *state.Endless
		state.Endless = &e
	}

	grid := s.controller.Board().Grid()
	for r := range grid {
		for c, p := range grid[r] {
			if p != nil {
				cp := *p
				grid[r][c] = &cp
			}
		}
	}

	return Snapshot{
		ID:    s.ID,
		Phase: s.controller.Phase(),
		State: state,
		Grid:  grid,
	}
}

// LastAccessed reports when the session last served a request.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}
