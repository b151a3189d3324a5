package searchers

import (
	"testing"

	. "github.com/janpfeifer/connectGo/internal/state"
	. "github.com/janpfeifer/connectGo/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSearcher always plays the first legal column.
type fixedSearcher struct{}

func (fixedSearcher) Search(board *Board) (int, *Board, float32, error) {
	column := board.LegalMove(0)
	nextBoard, err := board.Act(column)
	return column, nextBoard, 1, err
}

func (fixedSearcher) String() string { return "fixed" }

func TestRandomSearcher(t *testing.T) {
	s := NewRandomSearcher(17)
	assert.Equal(t, "random", s.String())
	seen := make(map[int]bool)
	board := NewBoard()
	for range 100 {
		column, nextBoard, score, err := s.Search(board)
		require.NoError(t, err)
		require.True(t, board.IsLegal(column))
		assert.Equal(t, int8(column), nextBoard.LastMove().Col)
		assert.Equal(t, float32(0.5), score)
		seen[column] = true
	}
	assert.Len(t, seen, NumColumns)

	// Plays only legal columns until the end of the match.
	for !board.IsFinished() {
		_, next, _, err := s.Search(board)
		require.NoError(t, err)
		board = next
	}
	_, _, _, err := s.Search(board)
	require.Error(t, err)
}

func TestRandomizedSearcher(t *testing.T) {
	assert.Equal(t, fixedSearcher{}, NewRandomizedSearcher(fixedSearcher{}, 0, 10, 1))

	s := NewRandomizedSearcher(fixedSearcher{}, 0.5, 4, 3)
	assert.Equal(t, "fixed+randomized", s.String())
	randomCount := 0
	for range 200 {
		column, _, score, err := s.Search(NewBoard())
		require.NoError(t, err)
		if score == 0.5 {
			randomCount++
		} else {
			assert.Equal(t, 0, column)
		}
	}
	assert.Greater(t, randomCount, 50)
	assert.Less(t, randomCount, 150)

	// After maxMoveRandomness, always the base searcher.
	board := BuildBoard(3, 3, 3, 3)
	for range 50 {
		column, _, _, err := s.Search(board)
		require.NoError(t, err)
		assert.Equal(t, 0, column)
	}

	require.Panics(t, func() { NewRandomizedSearcher(fixedSearcher{}, 1.5, 4, 3) })
	require.Panics(t, func() { NewRandomizedSearcher(nil, 0.5, 4, 3) })
}
