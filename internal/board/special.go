package board

// ActivateSpecial returns the cells a special piece clears when it
// goes off. For a color bomb, target names the kind to wipe; with no
// target the bomb clears only itself. An empty cell activates nothing.
func (b *Board) ActivateSpecial(pos Position, target Kind) PositionSet {
	cleared := NewPositionSet()

	piece := b.PieceAt(pos.Row, pos.Col)
	if piece == nil {
		return cleared
	}

	switch piece.Special {
	case SpecialStripedH:
		for c := 0; c < b.cols; c++ {
			cleared.Add(Position{Row: pos.Row, Col: c})
		}

	case SpecialStripedV:
		for r := 0; r < b.rows; r++ {
			cleared.Add(Position{Row: r, Col: pos.Col})
		}

	case SpecialWrapped:
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				r, c := pos.Row+dr, pos.Col+dc
				if b.InBounds(r, c) {
					cleared.Add(Position{Row: r, Col: c})
				}
			}
		}

	case SpecialColorBomb:
		cleared.Add(pos)
		if target != "" {
			for r := 0; r < b.rows; r++ {
				for c := 0; c < b.cols; c++ {
					if other := b.PieceAt(r, c); other != nil && other.Kind == target {
						cleared.Add(Position{Row: r, Col: c})
					}
				}
			}
		}
	}

	return cleared
}

// ActivateCombo merges the effects of two special pieces swapped
// directly onto each other. Color bomb pairings take precedence, then
// wrapped pairs, then wrapped with striped, then striped pairs. Either
// cell empty or neither piece special yields nothing.
func (b *Board) ActivateCombo(a, bPos Position) PositionSet {
	cleared := NewPositionSet()

	p1 := b.PieceAt(a.Row, a.Col)
	p2 := b.PieceAt(bPos.Row, bPos.Col)
	if p1 == nil || p2 == nil {
		return cleared
	}

	s1, s2 := p1.Special, p2.Special

	switch {
	case s1 == SpecialColorBomb && s2 == SpecialColorBomb:
		for r := 0; r < b.rows; r++ {
			for c := 0; c < b.cols; c++ {
				cleared.Add(Position{Row: r, Col: c})
			}
		}

	case s1 == SpecialColorBomb || s2 == SpecialColorBomb:
		bombPos, otherPos := a, bPos
		if s2 == SpecialColorBomb {
			bombPos, otherPos = bPos, a
		}
		other := b.PieceAt(otherPos.Row, otherPos.Col)
		if other != nil {
			for r := 0; r < b.rows; r++ {
				for c := 0; c < b.cols; c++ {
					if check := b.PieceAt(r, c); check != nil && check.Kind == other.Kind {
						cleared.Add(Position{Row: r, Col: c})
					}
				}
			}
			cleared.Add(bombPos)
		}

	case s1 == SpecialWrapped && s2 == SpecialWrapped:
		centerRow := (a.Row + bPos.Row) / 2
		centerCol := (a.Col + bPos.Col) / 2
		for dr := -2; dr <= 2; dr++ {
			for dc := -2; dc <= 2; dc++ {
				r, c := centerRow+dr, centerCol+dc
				if b.InBounds(r, c) {
					cleared.Add(Position{Row: r, Col: c})
				}
			}
		}

	case (s1 == SpecialWrapped || s2 == SpecialWrapped) && (isStriped(s1) || isStriped(s2)):
		centerRow := (a.Row + bPos.Row) / 2
		centerCol := (a.Col + bPos.Col) / 2
		for _, row := range []int{centerRow - 1, centerRow, centerRow + 1} {
			if row < 0 || row >= b.rows {
				continue
			}
			for c := 0; c < b.cols; c++ {
				cleared.Add(Position{Row: row, Col: c})
			}
		}
		for _, col := range []int{centerCol - 1, centerCol, centerCol + 1} {
			if col < 0 || col >= b.cols {
				continue
			}
			for r := 0; r < b.rows; r++ {
				cleared.Add(Position{Row: r, Col: col})
			}
		}

	case isStriped(s1) && isStriped(s2):
		for c := 0; c < b.cols; c++ {
			cleared.Add(Position{Row: a.Row, Col: c})
			cleared.Add(Position{Row: bPos.Row, Col: c})
		}
		for r := 0; r < b.rows; r++ {
			cleared.Add(Position{Row: r, Col: a.Col})
			cleared.Add(Position{Row: r, Col: bPos.Col})
		}
	}

	return cleared
}

func isStriped(s Special) bool {
	return s == SpecialStripedH || s == SpecialStripedV
}

// ExpandMatch unions one match's cells with the activation areas of
// any special pieces sitting inside it. A color bomb caught in a match
// activates without a target, so it adds only itself.
func (b *Board) ExpandMatch(match PositionSet) PositionSet {
	expanded := NewPositionSet()
	expanded.AddSet(match)
	for p := range match {
		piece := b.PieceAt(p.Row, p.Col)
		if piece != nil && piece.IsSpecial() {
			expanded.AddSet(b.ActivateSpecial(p, ""))
		}
	}
	return expanded
}

// ExpandWithSpecials applies ExpandMatch across several matches and
// unions the results.
func (b *Board) ExpandWithSpecials(matches []PositionSet) PositionSet {
	all := NewPositionSet()
	for _, match := range matches {
		all.AddSet(b.ExpandMatch(match))
	}
	return all
}
