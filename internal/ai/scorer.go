package ai

import (
	"github.com/chewxy/math32"
	. "github.com/janpfeifer/connectGo/internal/state"
)

// BoardScorer evaluates a board from the point of view of the player to move.
type BoardScorer interface {
	// Score returns a value in (-1, 1): positive is good for board.NextPlayer.
	// It is only called on boards that are not finished.
	Score(board *Board) float32
	String() string
}

// window is a line of ConnectLength cells.
type window [ConnectLength]Pos

// windows holds all lines of ConnectLength cells on the grid.
var windows = func() (ws []window) {
	for _, dir := range [4]Pos{{0, 1}, {1, 0}, {1, 1}, {1, -1}} {
		for row := range int8(NumRows) {
			for col := range int8(NumColumns) {
				var w window
				valid := true
				for ii := range int8(ConnectLength) {
					w[ii] = Pos{row + ii*dir.Row, col + ii*dir.Col}
					valid = valid && w[ii].Valid()
				}
				if valid {
					ws = append(ws, w)
				}
			}
		}
	}
	return
}()

// ThreatScorer scores a board by counting the windows of ConnectLength cells that only one
// of the players occupies: the more pieces in the window, the larger its weight.
type ThreatScorer struct {
	// Weights by the number of pieces in the window: index 0 is unused, and full windows
	// can't happen on a board that is not finished.
	Weights [ConnectLength]float32

	// Scale divides the total before it is squashed by tanh into (-1, 1).
	Scale float32
}

// DefaultThreatScorer is the ThreatScorer with the default weights.
var DefaultThreatScorer = &ThreatScorer{Weights: [ConnectLength]float32{0, 1, 4, 16}, Scale: 64}

// Assert ThreatScorer is a BoardScorer.
var _ BoardScorer = (*ThreatScorer)(nil)

// Score implements BoardScorer.
func (s *ThreatScorer) Score(board *Board) float32 {
	player := board.NextPlayer
	var total float32
	for _, w := range windows {
		var mine, theirs int
		for _, pos := range w {
			switch board.PieceAt(int(pos.Row), int(pos.Col)) {
			case player:
				mine++
			case PlayerNone:
			default:
				theirs++
			}
		}
		switch {
		case mine > 0 && theirs == 0 && mine < ConnectLength:
			total += s.Weights[mine]
		case theirs > 0 && mine == 0 && theirs < ConnectLength:
			total -= s.Weights[theirs]
		}
	}
	return math32.Tanh(total / s.Scale)
}

// String implements BoardScorer.
func (s *ThreatScorer) String() string {
	return "threats"
}
