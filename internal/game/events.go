package game

import "github.com/hackercrush/hackercrush/internal/board"

// Event is a notification emitted while a turn resolves. Presentation
// layers consume these; the engine never waits on them.
type Event interface {
	EventType() string
}

// Listener receives events in emission order.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) HandleEvent(e Event) { f(e) }

type SwapRejected struct {
	From board.Position `json:"from"`
	To   board.Position `json:"to"`
}

func (SwapRejected) EventType() string { return "swap_rejected" }

type SwapAccepted struct {
	From board.Position `json:"from"`
	To   board.Position `json:"to"`
}

func (SwapAccepted) EventType() string { return "swap_accepted" }

// MatchCleared reports one match leaving the board, including any
// cells cleared by specials caught inside it. SpecialCreated names the
// piece the match left behind, or SpecialNone.
type MatchCleared struct {
	Positions      []board.Position `json:"positions"`
	PieceCount     int              `json:"pieceCount"`
	SpecialCreated board.Special    `json:"specialCreated,omitempty"`
	CascadeLevel   int              `json:"cascadeLevel"`
}

func (MatchCleared) EventType() string { return "match_cleared" }

type PiecesFell struct {
	Moves []board.FallMove `json:"moves"`
}

func (PiecesFell) EventType() string { return "pieces_fell" }

type PiecesRefilled struct {
	Pieces []*board.Piece `json:"pieces"`
}

func (PiecesRefilled) EventType() string { return "pieces_refilled" }

// BoardReshuffled fires when endless mode recovers a stuck board.
type BoardReshuffled struct{}

func (BoardReshuffled) EventType() string { return "board_reshuffled" }

type TurnFinished struct {
	ScoreDelta    int `json:"scoreDelta"`
	CascadeLevels int `json:"cascadeLevels"`
}

func (TurnFinished) EventType() string { return "turn_finished" }

type GameOver struct {
	FinalScore int `json:"finalScore"`
}

func (GameOver) EventType() string { return "game_over" }

// LevelCompleted fires in moves mode when the target score is reached.
type LevelCompleted struct {
	Level     int `json:"level"`
	NewTarget int `json:"newTarget"`
	Stars     int `json:"stars"`
}

func (LevelCompleted) EventType() string { return "level_completed" }
