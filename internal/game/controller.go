package game

import (
	"fmt"

	"github.com/hackercrush/hackercrush/internal/board"
)

// Phase is the controller's position in the turn state machine.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSwapping  Phase = "swapping"
	PhaseResolving Phase = "resolving"
	PhaseRejecting Phase = "rejecting"
	PhaseGameOver  Phase = "game_over"
)

// TurnResult summarizes one Swap call. A rejected or ignored swap has
// Accepted false and zero deltas.
type TurnResult struct {
	Accepted      bool `json:"accepted"`
	ScoreDelta    int  `json:"scoreDelta"`
	CascadeLevels int  `json:"cascadeLevels"`
	GameOver      bool `json:"gameOver"`
}

// Controller owns a board and a state and runs complete turns against
// them. All methods are synchronous; callers serialize access.
type Controller struct {
	board    *board.Board
	state    *State
	cfg      ModeConfig
	listener Listener
	phase    Phase
}

// NewController builds a controller with a fresh seeded board for the
// given mode configuration.
func NewController(cfg ModeConfig, seed int64, listener Listener) (*Controller, error) {
	state, err := NewState(cfg)
	if err != nil {
		return nil, err
	}
	return &Controller{
		board:    board.NewSeeded(board.DefaultRows, board.DefaultCols, seed),
		state:    state,
		cfg:      cfg,
		listener: listener,
		phase:    PhaseIdle,
	}, nil
}

// NewControllerWithBoard wires a controller onto an existing board and
// state. Restart reuses the allotments found in the state.
func NewControllerWithBoard(b *board.Board, state *State, listener Listener) *Controller {
	cfg := ModeConfig{Mode: state.Mode}
	switch {
	case state.Moves != nil:
		cfg.Moves = state.Moves.MovesPerLevel
	case state.Timed != nil:
		cfg.Seconds = state.Timed.TimeRemaining
	case state.Endless != nil:
		cfg.Reshuffles = state.Endless.ReshufflesLeft
	}
	return &Controller{board: b, state: state, cfg: cfg, listener: listener, phase: PhaseIdle}
}

func (c *Controller) Board() *board.Board { return c.board }
func (c *Controller) State() *State      { return c.state }
func (c *Controller) Phase() Phase       { return c.phase }

func (c *Controller) emit(e Event) {
	if c.listener != nil {
		c.listener.HandleEvent(e)
	}
}

// Swap attempts to swap the pieces at from and to and resolves the
// turn to completion. Swaps on empty or out of bounds cells are
// ignored; non-adjacent pairs and swaps that produce no match are
// rejected with a SwapRejected event. Swapping two special pieces onto
// each other detonates their combo instead of running match detection.
func (c *Controller) Swap(from, to board.Position) TurnResult {
	if c.phase != PhaseIdle {
		return TurnResult{}
	}
	p1 := c.board.PieceAt(from.Row, from.Col)
	p2 := c.board.PieceAt(to.Row, to.Col)
	if p1 == nil || p2 == nil {
		return TurnResult{}
	}
	if !c.board.IsAdjacent(from.Row, from.Col, to.Row, to.Col) {
		c.reject(from, to)
		return TurnResult{}
	}

	if p1.IsSpecial() && p2.IsSpecial() {
		return c.swapCombo(from, to)
	}

	if !c.board.WouldCreateMatch(from.Row, from.Col, to.Row, to.Col) {
		c.reject(from, to)
		return TurnResult{}
	}

	c.phase = PhaseSwapping
	c.emit(SwapAccepted{From: from, To: to})
	c.board.Swap(from.Row, from.Col, to.Row, to.Col)

	c.phase = PhaseResolving
	scoreStart := c.state.Score
	levels := c.resolveCascades(1)
	return c.finishTurn(scoreStart, levels)
}

func (c *Controller) reject(from, to board.Position) {
	c.phase = PhaseRejecting
	c.emit(SwapRejected{From: from, To: to})
	c.phase = PhaseIdle
}

// swapCombo commits the swap and detonates the two specials as a
// combined effect, then lets any fall-in matches cascade as usual.
func (c *Controller) swapCombo(from, to board.Position) TurnResult {
	c.phase = PhaseSwapping
	c.emit(SwapAccepted{From: from, To: to})
	c.board.Swap(from.Row, from.Col, to.Row, to.Col)

	c.phase = PhaseResolving
	scoreStart := c.state.Score
	c.state.CascadeLevel = 1

	cleared := c.board.ActivateCombo(from, to)
	c.state.AddMatchScore(len(cleared))
	c.state.AddTimeBonusCombo()
	c.emit(MatchCleared{
		Positions:    cleared.Positions(),
		PieceCount:   len(cleared),
		CascadeLevel: 1,
	})
	c.board.Clear(cleared)
	c.settle()

	levels := c.resolveCascades(2)
	if levels < 1 {
		levels = 1
	}
	return c.finishTurn(scoreStart, levels)
}

// resolveCascades runs match passes starting at the given cascade
// level until the board is quiet, returning the last level that
// cleared anything (level-1 if the first pass found nothing).
func (c *Controller) resolveCascades(level int) int {
	last := level - 1
	for {
		c.state.CascadeLevel = level
		matches := c.board.FindMatches()
		if len(matches) == 0 {
			return last
		}
		c.clearMatches(matches, level)
		c.settle()
		last = level
		level++
	}
}

// clearMatches scores and clears one pass worth of matches. Specials
// caught inside a match widen its cleared area; a match large enough
// to mint a new special leaves that piece on the board at the match
// center.
func (c *Controller) clearMatches(matches []board.PositionSet, level int) {
	type clearedMatch struct {
		positions board.PositionSet
		count     int
		created   board.Special
	}

	records := make([]clearedMatch, 0, len(matches))
	var kept []board.Position
	totalClear := board.NewPositionSet()

	for _, match := range matches {
		expanded := c.board.ExpandMatch(match)
		shape := c.board.ClassifyMatch(match)
		c.state.AddMatchScore(len(match))

		created := board.SpecialNone
		if shape.Special != board.SpecialNone && c.mintSpecial(shape) {
			created = shape.Special
			c.state.AddSpecialBonus(created)
			c.state.AddTimeBonusSpecial()
			kept = append(kept, shape.Center)
		}

		records = append(records, clearedMatch{expanded, len(match), created})
		totalClear.AddSet(expanded)
	}

	// Freshly minted specials survive the clear, even when another
	// match's expansion crosses their cell.
	for _, p := range kept {
		totalClear.Remove(p)
	}
	for _, rec := range records {
		for _, p := range kept {
			rec.positions.Remove(p)
		}
		c.emit(MatchCleared{
			Positions:      rec.positions.Positions(),
			PieceCount:     rec.count,
			SpecialCreated: rec.created,
			CascadeLevel:   level,
		})
	}
	c.board.Clear(totalClear)
}

func (c *Controller) mintSpecial(shape board.MatchShape) bool {
	piece := c.board.PieceAt(shape.Center.Row, shape.Center.Col)
	if piece == nil {
		return false
	}
	switch shape.Special {
	case board.SpecialStripedH:
		piece.MakeStripedHorizontal()
	case board.SpecialStripedV:
		piece.MakeStripedVertical()
	case board.SpecialWrapped:
		piece.MakeWrapped()
	case board.SpecialColorBomb:
		piece.MakeColorBomb()
	default:
		return false
	}
	return true
}

func (c *Controller) settle() {
	if falls := c.board.ApplyGravity(); len(falls) > 0 {
		c.emit(PiecesFell{Moves: falls})
	}
	if fresh := c.board.Refill(); len(fresh) > 0 {
		c.emit(PiecesRefilled{Pieces: fresh})
	}
}

// finishTurn applies end-of-turn bookkeeping: move consumption, level
// progression, stuck-board recovery and game over checks.
func (c *Controller) finishTurn(scoreStart, levels int) TurnResult {
	c.state.CascadeLevel = 1
	c.state.UseMove()
	if ev, ok := c.state.CompleteLevelIfReady(); ok {
		c.emit(ev)
	}

	hasMoves := c.board.HasValidMoves()
	for !hasMoves && c.state.Mode == ModeEndless && c.state.UseReshuffle() {
		c.board.Shuffle()
		c.emit(BoardReshuffled{})
		hasMoves = c.board.HasValidMoves()
	}
	if !hasMoves {
		c.state.GameOver = true
	}
	c.state.CheckGameOver(hasMoves)

	res := TurnResult{
		Accepted:      true,
		ScoreDelta:    c.state.Score - scoreStart,
		CascadeLevels: levels,
		GameOver:      c.state.GameOver,
	}
	c.emit(TurnFinished{ScoreDelta: res.ScoreDelta, CascadeLevels: levels})
	if c.state.GameOver {
		c.phase = PhaseGameOver
		c.emit(GameOver{FinalScore: c.state.Score})
	} else {
		c.phase = PhaseIdle
	}
	return res
}

// Tick advances the countdown in timed mode. Other modes ignore it.
func (c *Controller) Tick(delta float64) {
	if c.state.Timed == nil || c.phase == PhaseGameOver {
		return
	}
	c.state.UpdateTime(delta)
	if c.state.GameOver {
		c.phase = PhaseGameOver
		c.emit(GameOver{FinalScore: c.state.Score})
	}
}

// Restart resets the session to a fresh board and starting state under
// the same mode configuration.
func (c *Controller) Restart(seed int64) error {
	if c.phase != PhaseIdle && c.phase != PhaseGameOver {
		return fmt.Errorf("cannot restart while a turn is resolving")
	}
	state, err := NewState(c.cfg)
	if err != nil {
		return err
	}
	c.board = board.NewSeeded(c.board.Rows(), c.board.Cols(), seed)
	c.state = state
	c.phase = PhaseIdle
	return nil
}
