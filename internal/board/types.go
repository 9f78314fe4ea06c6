package board

import "sort"

// Position identifies a single grid cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PositionSet is an unordered set of grid cells.
type PositionSet map[Position]struct{}

func NewPositionSet(positions ...Position) PositionSet {
	s := make(PositionSet, len(positions))
	for _, p := range positions {
		s.Add(p)
	}
	return s
}

func (s PositionSet) Add(p Position) {
	s[p] = struct{}{}
}

func (s PositionSet) Contains(p Position) bool {
	_, ok := s[p]
	return ok
}

func (s PositionSet) AddSet(other PositionSet) {
	for p := range other {
		s[p] = struct{}{}
	}
}

func (s PositionSet) Remove(p Position) {
	delete(s, p)
}

func (s PositionSet) Overlaps(other PositionSet) bool {
	for p := range other {
		if s.Contains(p) {
			return true
		}
	}
	return false
}

// Positions returns the set ordered by row then column.
func (s PositionSet) Positions() []Position {
	out := make([]Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Move is a swap of two adjacent cells.
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// FallMove records one piece falling during gravity.
type FallMove struct {
	Piece   *Piece `json:"piece"`
	FromRow int    `json:"fromRow"`
	ToRow   int    `json:"toRow"`
	Col     int    `json:"col"`
}

// MatchShape is the classification of a match: which special piece it
// creates (SpecialNone for a basic 3-match) and where.
type MatchShape struct {
	Special Special  `json:"special"`
	Center  Position `json:"center"`
	Count   int      `json:"count"`
}
