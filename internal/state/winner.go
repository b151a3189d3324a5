package state

// directions used to look for aligned pieces: horizontal, vertical and both diagonals.
// The opposite directions are scanned by negating them.
var directions = [4]Pos{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// countFrom counts the contiguous pieces of owner starting at the neighbour of pos in the
// direction (dRow, dCol), not including pos itself.
func (b *Board) countFrom(pos Pos, dRow, dCol int8, owner PlayerNum) (count int) {
	for p := (Pos{pos.Row + dRow, pos.Col + dCol}); p.Valid() && b.grid[p.Row][p.Col] == owner; p = (Pos{p.Row + dRow, p.Col + dCol}) {
		count++
	}
	return
}

// winDetectionAt updates the outcome after a piece was placed at (row, col).
//
// Only the 4 lines crossing the new piece are inspected: any new winning line must include it.
func (b *Board) winDetectionAt(row, col int) {
	pos := Pos{int8(row), int8(col)}
	owner := b.grid[row][col]
	for _, dir := range directions {
		count := 1 + b.countFrom(pos, dir.Row, dir.Col, owner) + b.countFrom(pos, -dir.Row, -dir.Col, owner)
		if count >= ConnectLength {
			b.outcome = WinOf(owner)
			return
		}
	}
	if b.numPossible == 0 {
		b.outcome = OutcomeDraw
	}
}

// WinningLine returns the aligned pieces through the last move that won the match, ordered
// along the line. It returns nil if the match was not won.
func (b *Board) WinningLine() []Pos {
	if b.outcome.Winner() == PlayerNone {
		return nil
	}
	pos := b.lastMove
	owner := b.grid[pos.Row][pos.Col]
	for _, dir := range directions {
		back := b.countFrom(pos, -dir.Row, -dir.Col, owner)
		forward := b.countFrom(pos, dir.Row, dir.Col, owner)
		if 1+back+forward < ConnectLength {
			continue
		}
		line := make([]Pos, 0, 1+back+forward)
		for ii := -back; ii <= forward; ii++ {
			line = append(line, Pos{pos.Row + int8(ii)*dir.Row, pos.Col + int8(ii)*dir.Col})
		}
		return line
	}
	return nil
}
