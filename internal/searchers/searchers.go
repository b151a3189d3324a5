// Package searchers defines the interface of the search algorithms that pick a move on a board.
package searchers

import (
	. "github.com/janpfeifer/connectGo/internal/state"
)

// Searcher is the interface that any of the search algorithms must adhere to be valid.
type Searcher interface {
	// Search returns the column to play on the given board, along with the updated Board (after
	// playing it) and the expected score of playing it, in [0, 1] from the point of view of the
	// player to move.
	//
	// If the board is already finished it returns NoColumn and an error.
	Search(board *Board) (column int, nextBoard *Board, score float32, err error)

	String() string
}
