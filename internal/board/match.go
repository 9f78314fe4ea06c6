package board

// FindMatches scans rows then columns for runs of 3 or more and merges
// overlapping runs into single matches, so L and T shapes come back as
// one position set.
func (b *Board) FindMatches() []PositionSet {
	var matches []PositionSet

	for row := 0; row < b.rows; row++ {
		col := 0
		for col < b.cols {
			run := b.horizontalRun(row, col)
			if len(run) >= 3 {
				matches = append(matches, run)
				col += len(run)
			} else {
				col++
			}
		}
	}

	for col := 0; col < b.cols; col++ {
		row := 0
		for row < b.rows {
			run := b.verticalRun(row, col)
			if len(run) >= 3 {
				matches = append(matches, run)
				row += len(run)
			} else {
				row++
			}
		}
	}

	return mergeOverlapping(matches)
}

// horizontalRun extends right from the anchor while pieces match it.
// Special pieces never extend a run; they only anchor one or match by
// the color-bomb wildcard rule.
func (b *Board) horizontalRun(row, startCol int) PositionSet {
	run := NewPositionSet()
	anchor := b.PieceAt(row, startCol)
	if anchor == nil {
		return run
	}

	run.Add(Position{Row: row, Col: startCol})
	for col := startCol + 1; col < b.cols; col++ {
		other := b.PieceAt(row, col)
		if other != nil && anchor.Matches(other) && !other.IsSpecial() {
			run.Add(Position{Row: row, Col: col})
		} else {
			break
		}
	}

	return run
}

func (b *Board) verticalRun(startRow, col int) PositionSet {
	run := NewPositionSet()
	anchor := b.PieceAt(startRow, col)
	if anchor == nil {
		return run
	}

	run.Add(Position{Row: startRow, Col: col})
	for row := startRow + 1; row < b.rows; row++ {
		other := b.PieceAt(row, col)
		if other != nil && anchor.Matches(other) && !other.IsSpecial() {
			run.Add(Position{Row: row, Col: col})
		} else {
			break
		}
	}

	return run
}

// mergeOverlapping unions runs that share a cell, repeating until no
// two remaining sets overlap.
func mergeOverlapping(matches []PositionSet) []PositionSet {
	if len(matches) == 0 {
		return nil
	}

	merged := make([]PositionSet, 0, len(matches))
	for _, m := range matches {
		copied := NewPositionSet()
		copied.AddSet(m)
		merged = append(merged, copied)
	}

	for {
		changed := false
		for i := 0; i < len(merged) && !changed; i++ {
			for j := i + 1; j < len(merged); j++ {
				if merged[i].Overlaps(merged[j]) {
					merged[i].AddSet(merged[j])
					merged = append(merged[:j], merged[j+1:]...)
					changed = true
					break
				}
			}
		}
		if !changed {
			return merged
		}
	}
}

// ClassifyMatch determines which special piece (if any) a match
// creates. Precedence: color bomb, then wrapped, then striped, then
// basic. Center is meaningful only when Special is not SpecialNone.
func (b *Board) ClassifyMatch(match PositionSet) MatchShape {
	count := len(match)
	if count < 3 {
		return MatchShape{Special: SpecialNone, Count: count}
	}

	minRow, maxRow := b.rows, -1
	minCol, maxCol := b.cols, -1
	for p := range match {
		if p.Row < minRow {
			minRow = p.Row
		}
		if p.Row > maxRow {
			maxRow = p.Row
		}
		if p.Col < minCol {
			minCol = p.Col
		}
		if p.Col > maxCol {
			maxCol = p.Col
		}
	}
	rowSpan := maxRow - minRow + 1
	colSpan := maxCol - minCol + 1

	// 5+ in a straight line
	if count >= 5 && (rowSpan == 1 || colSpan == 1) {
		return MatchShape{Special: SpecialColorBomb, Center: matchCenter(match), Count: count}
	}

	// L or T shape
	if rowSpan >= 3 && colSpan >= 3 && count >= 5 {
		return MatchShape{Special: SpecialWrapped, Center: matchIntersection(match), Count: count}
	}

	// 4 in a straight line
	if count >= 4 {
		if rowSpan == 1 {
			return MatchShape{Special: SpecialStripedH, Center: matchCenter(match), Count: count}
		}
		if colSpan == 1 {
			return MatchShape{Special: SpecialStripedV, Center: matchCenter(match), Count: count}
		}
	}

	return MatchShape{Special: SpecialNone, Count: count}
}

// matchCenter is the median of the positions in row-then-column order.
func matchCenter(match PositionSet) Position {
	positions := match.Positions()
	return positions[len(positions)/2]
}

// matchIntersection finds the cell where an L or T shape crosses: the
// row holding the most matched cells against the column holding the
// most. Falls back to the median when that cell is not in the match.
func matchIntersection(match PositionSet) Position {
	rowCounts := map[int]int{}
	colCounts := map[int]int{}
	for p := range match {
		rowCounts[p.Row]++
		colCounts[p.Col]++
	}

	bestRow, bestRowCount := -1, -1
	for row, n := range rowCounts {
		if n > bestRowCount || (n == bestRowCount && row < bestRow) {
			bestRow, bestRowCount = row, n
		}
	}
	bestCol, bestColCount := -1, -1
	for col, n := range colCounts {
		if n > bestColCount || (n == bestColCount && col < bestCol) {
			bestCol, bestColCount = col, n
		}
	}

	candidate := Position{Row: bestRow, Col: bestCol}
	if match.Contains(candidate) {
		return candidate
	}
	return matchCenter(match)
}
