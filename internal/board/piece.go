package board

import "fmt"

type Kind string

const (
	KindBlackhat Kind = "blackhat"
	KindDefcon   Kind = "defcon"
	KindRonin    Kind = "ronin"
	KindLock     Kind = "lock"
	KindKey      Kind = "key"
	KindVirus    Kind = "virus"
)

// Kinds returns the base piece kinds in deal order.
func Kinds() []Kind {
	return []Kind{KindBlackhat, KindDefcon, KindRonin, KindLock, KindKey, KindVirus}
}

func validKind(k Kind) bool {
	switch k {
	case KindBlackhat, KindDefcon, KindRonin, KindLock, KindKey, KindVirus:
		return true
	}
	return false
}

type Special string

const (
	SpecialNone      Special = ""
	SpecialStripedH  Special = "striped_horizontal"
	SpecialStripedV  Special = "striped_vertical"
	SpecialWrapped   Special = "wrapped"
	SpecialColorBomb Special = "color_bomb"
)

// Piece is a typed grid token. Kind is fixed at creation; Special only
// ever moves from SpecialNone to one of the four powers.
type Piece struct {
	Kind    Kind    `json:"kind"`
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	Special Special `json:"special,omitempty"`
}

func NewPiece(kind Kind, row, col int) (*Piece, error) {
	if !validKind(kind) {
		return nil, fmt.Errorf("unknown piece kind %q", kind)
	}
	return &Piece{Kind: kind, Row: row, Col: col}, nil
}

func (p *Piece) IsSpecial() bool {
	return p.Special != SpecialNone
}

// Matches reports kind equality. A color bomb matches anything.
func (p *Piece) Matches(other *Piece) bool {
	if other == nil {
		return false
	}
	if p.Special == SpecialColorBomb || other.Special == SpecialColorBomb {
		return true
	}
	return p.Kind == other.Kind
}

func (p *Piece) MakeStripedHorizontal() { p.Special = SpecialStripedH }

func (p *Piece) MakeStripedVertical() { p.Special = SpecialStripedV }

func (p *Piece) MakeWrapped() { p.Special = SpecialWrapped }

func (p *Piece) MakeColorBomb() { p.Special = SpecialColorBomb }
