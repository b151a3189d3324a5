// Package statetest provides helper functions to create tests using Connect Four boards.
package statetest

import (
	"math/rand/v2"

	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/connectGo/internal/state"
)

// BuildBoard plays the given columns in sequence, alternating players, starting from an empty
// board. It panics if any of the moves is illegal, since it is meant for tests only.
func BuildBoard(columns ...int) *Board {
	b := NewBoard()
	for ii, col := range columns {
		if err := b.ApplyMove(col); err != nil {
			exceptions.Panicf("statetest.BuildBoard: move #%d (column %d): %+v", ii, col, err)
		}
	}
	return b
}

// RandomMatch plays uniformly random legal moves until the match is finished, and returns
// every intermediate board, including the initial and the final ones.
func RandomMatch(rng *rand.Rand) []*Board {
	b := NewBoard()
	boards := []*Board{b}
	for !b.IsFinished() {
		moves := b.LegalMoves()
		var err error
		b, err = b.Act(moves[rng.IntN(len(moves))])
		if err != nil {
			panic(err)
		}
		boards = append(boards, b)
	}
	return boards
}

// BruteForceOutcome scans the whole grid for ConnectLength aligned pieces, in every
// direction, ignoring the incremental information kept by the Board.
//
// It assumes the board came from a legal match, so at most one player can have a line.
func BruteForceOutcome(b *Board) Outcome {
	dirs := [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for row := range NumRows {
		for col := range NumColumns {
			owner := b.PieceAt(row, col)
			if owner == PlayerNone {
				continue
			}
			for _, dir := range dirs {
				count := 0
				for r, c := row, col; r >= 0 && r < NumRows && c >= 0 && c < NumColumns && b.PieceAt(r, c) == owner; r, c = r+dir[0], c+dir[1] {
					count++
				}
				if count >= ConnectLength {
					return WinOf(owner)
				}
			}
		}
	}
	for col := range NumColumns {
		if b.PieceAt(0, col) == PlayerNone {
			return OutcomeUnset
		}
	}
	return OutcomeDraw
}
