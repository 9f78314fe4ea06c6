package board

import (
	"math/rand"
	"time"
)

const (
	DefaultRows = 8
	DefaultCols = 8

	shuffleRetries = 10
)

// Board owns the grid. Cells may be empty (nil) transiently between a
// clear and the refill that follows it.
type Board struct {
	rows int
	cols int
	grid [][]*Piece
	rng  *rand.Rand
}

// New creates a board filled with pieces and no matches of 3 or more.
func New(rows, cols int) *Board {
	return NewSeeded(rows, cols, time.Now().UnixNano())
}

// NewSeeded creates a board with a deterministic layout for the given
// seed.
func NewSeeded(rows, cols int, seed int64) *Board {
	b := &Board{
		rows: rows,
		cols: cols,
		rng:  rand.New(rand.NewSource(seed)),
	}
	b.grid = make([][]*Piece, rows)
	for r := range b.grid {
		b.grid[r] = make([]*Piece, cols)
	}
	b.fill()
	return b
}

func (b *Board) Rows() int { return b.rows }

func (b *Board) Cols() int { return b.cols }

// fill deals pieces top-to-bottom, left-to-right, never completing a
// 3-in-a-row against the two cells to the left or above.
func (b *Board) fill() {
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			b.placeNoMatch(row, col)
		}
	}
}

func (b *Board) placeNoMatch(row, col int) {
	available := Kinds()

	exclude := func(k Kind) {
		for i, a := range available {
			if a == k {
				available = append(available[:i], available[i+1:]...)
				return
			}
		}
	}

	if col >= 2 {
		c1 := b.PieceAt(row, col-1)
		c2 := b.PieceAt(row, col-2)
		if c1 != nil && c2 != nil && c1.Kind == c2.Kind {
			exclude(c1.Kind)
		}
	}

	if row >= 2 {
		c1 := b.PieceAt(row-1, col)
		c2 := b.PieceAt(row-2, col)
		if c1 != nil && c2 != nil && c1.Kind == c2.Kind {
			exclude(c1.Kind)
		}
	}

	kind := available[b.rng.Intn(len(available))]
	b.grid[row][col] = &Piece{Kind: kind, Row: row, Col: col}
}

// InBounds reports whether the position lies on the grid.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// PieceAt returns the piece at the position, or nil when the cell is
// empty or out of bounds.
func (b *Board) PieceAt(row, col int) *Piece {
	if !b.InBounds(row, col) {
		return nil
	}
	return b.grid[row][col]
}

// SetPiece places a piece (or nil) and stamps its position. Out of
// bounds is a no-op.
func (b *Board) SetPiece(row, col int, p *Piece) {
	if !b.InBounds(row, col) {
		return
	}
	b.grid[row][col] = p
	if p != nil {
		p.Row = row
		p.Col = col
	}
}

// IsAdjacent reports whether two cells share an edge.
func (b *Board) IsAdjacent(r1, c1, r2, c2 int) bool {
	rowDiff := abs(r1 - r2)
	colDiff := abs(c1 - c2)
	return (rowDiff == 1 && colDiff == 0) || (rowDiff == 0 && colDiff == 1)
}

// Swap exchanges two cells. Either cell may be empty. A swap touching
// an out-of-bounds cell is a no-op.
func (b *Board) Swap(r1, c1, r2, c2 int) {
	if !b.InBounds(r1, c1) || !b.InBounds(r2, c2) {
		return
	}
	p1 := b.grid[r1][c1]
	p2 := b.grid[r2][c2]
	b.SetPiece(r1, c1, p2)
	b.SetPiece(r2, c2, p1)
}

// Clear empties every listed cell and returns how many held a piece.
// Already-empty cells count for nothing, so overlapping clear sets are
// safe.
func (b *Board) Clear(positions PositionSet) int {
	cleared := 0
	for p := range positions {
		if !b.InBounds(p.Row, p.Col) {
			continue
		}
		if b.grid[p.Row][p.Col] != nil {
			b.grid[p.Row][p.Col] = nil
			cleared++
		}
	}
	return cleared
}

// ApplyGravity compacts each column downward, keeping relative order,
// and returns the resulting falls.
func (b *Board) ApplyGravity() []FallMove {
	var moves []FallMove

	for col := 0; col < b.cols; col++ {
		writeRow := b.rows - 1
		for readRow := b.rows - 1; readRow >= 0; readRow-- {
			piece := b.grid[readRow][col]
			if piece == nil {
				continue
			}
			if readRow != writeRow {
				moves = append(moves, FallMove{Piece: piece, FromRow: readRow, ToRow: writeRow, Col: col})
				b.grid[readRow][col] = nil
				b.SetPiece(writeRow, col, piece)
			}
			writeRow--
		}
	}

	return moves
}

// Refill deals a random base kind into every empty cell. No match
// avoidance here: refill matches are what drive cascades.
func (b *Board) Refill() []*Piece {
	var added []*Piece
	kinds := Kinds()

	for col := 0; col < b.cols; col++ {
		for row := 0; row < b.rows; row++ {
			if b.grid[row][col] != nil {
				continue
			}
			piece := &Piece{Kind: kinds[b.rng.Intn(len(kinds))], Row: row, Col: col}
			b.grid[row][col] = piece
			added = append(added, piece)
		}
	}

	return added
}

// WouldCreateMatch probes a swap without leaving any trace: swap,
// detect, swap back.
func (b *Board) WouldCreateMatch(r1, c1, r2, c2 int) bool {
	b.Swap(r1, c1, r2, c2)
	matched := len(b.FindMatches()) > 0
	b.Swap(r1, c1, r2, c2)
	return matched
}

// FindValidMoves probes every right and down neighbor pair.
func (b *Board) FindValidMoves() []Move {
	var moves []Move

	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			if col < b.cols-1 && b.WouldCreateMatch(row, col, row, col+1) {
				moves = append(moves, Move{
					From: Position{Row: row, Col: col},
					To:   Position{Row: row, Col: col + 1},
				})
			}
			if row < b.rows-1 && b.WouldCreateMatch(row, col, row+1, col) {
				moves = append(moves, Move{
					From: Position{Row: row, Col: col},
					To:   Position{Row: row + 1, Col: col},
				})
			}
		}
	}

	return moves
}

func (b *Board) HasValidMoves() bool {
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			if col < b.cols-1 && b.WouldCreateMatch(row, col, row, col+1) {
				return true
			}
			if row < b.rows-1 && b.WouldCreateMatch(row, col, row+1, col) {
				return true
			}
		}
	}
	return false
}

// Shuffle redeals the existing pieces. Retries while matches remain,
// up to a bounded number of attempts, then accepts the layout as is.
func (b *Board) Shuffle() {
	var pieces []*Piece
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			if p := b.grid[row][col]; p != nil {
				pieces = append(pieces, p)
				b.grid[row][col] = nil
			}
		}
	}

	deal := func() {
		i := 0
		for row := 0; row < b.rows; row++ {
			for col := 0; col < b.cols; col++ {
				if i < len(pieces) {
					b.SetPiece(row, col, pieces[i])
					i++
				}
			}
		}
	}

	b.rng.Shuffle(len(pieces), func(i, j int) {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	})
	deal()

	for attempt := 0; attempt < shuffleRetries; attempt++ {
		if len(b.FindMatches()) == 0 {
			break
		}
		b.rng.Shuffle(len(pieces), func(i, j int) {
			pieces[i], pieces[j] = pieces[j], pieces[i]
		})
		deal()
	}
}

// Grid returns the cells row-major for snapshots. The slices are fresh
// but the pieces are the live ones.
func (b *Board) Grid() [][]*Piece {
	out := make([][]*Piece, b.rows)
	for r := range out {
		out[r] = make([]*Piece, b.cols)
		copy(out[r], b.grid[r])
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
