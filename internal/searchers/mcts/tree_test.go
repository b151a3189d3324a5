package mcts

import (
	"math"
	"math/rand/v2"
	"testing"

	. "github.com/janpfeifer/connectGo/internal/state"
	. "github.com/janpfeifer/connectGo/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addChild appends a child of parent with the given statistics, without playing anything.
func addChild(t *tree, parent nodeIdx, move int, visits int, wins float64) nodeIdx {
	childIdx := t.newNode(t.nodes[parent].board, parent, move)
	t.nodes[childIdx].visits = visits
	t.nodes[childIdx].wins = wins
	p := &t.nodes[parent]
	p.childMoves = append(p.childMoves, int8(move))
	p.children = append(p.children, childIdx)
	return childIdx
}

func TestScore(t *testing.T) {
	tr := newTree(NewBoard(), 2, 0.25)
	tr.nodes[0].visits = 10
	child := addChild(tr, 0, 3, 4, 3)
	want := 3.0/4.0 + 2*math.Sqrt(math.Log(10)/4)
	assert.InDelta(t, want, tr.score(child), 1e-9)

	// Undefined scores panic.
	require.Panics(t, func() { tr.score(0) }, "root has no UCT score")
	unvisited := addChild(tr, 0, 4, 0, 0)
	require.Panics(t, func() { tr.score(unvisited) })
	tr.nodes[0].visits = 0
	require.Panics(t, func() { tr.score(child) })
}

func TestSelectBestChild(t *testing.T) {
	tr := newTree(NewBoard(), 0, 0.25)
	assert.Equal(t, noNode, tr.selectBestChild(0))

	tr.nodes[0].visits = 30
	addChild(tr, 0, 0, 10, 5)
	best := addChild(tr, 0, 1, 10, 7)
	addChild(tr, 0, 2, 10, 7) // Same score as best, but expanded later.
	addChild(tr, 0, 3, 10, 1)
	// With c=0 it is a pure win rate comparison.
	assert.Equal(t, best, tr.selectBestChild(0))

	// With exploration, the less visited child wins.
	tr.c = 10
	rare := addChild(tr, 0, 4, 1, 0)
	assert.Equal(t, rare, tr.selectBestChild(0))
}

func TestIsWideningEligible(t *testing.T) {
	tr := newTree(NewBoard(), 1, 0.5)
	rng := rand.New(rand.NewPCG(42, 0))
	assert.False(t, tr.isWideningEligible(0), "no visits, no children allowed")

	tr.nodes[0].visits = 1
	assert.True(t, tr.isWideningEligible(0))
	tr.expand(0, PlayerOne, false, rng)
	assert.False(t, tr.isWideningEligible(0), "ceil(1^0.5)=1 child at most")

	tr.nodes[0].visits = 2
	assert.True(t, tr.isWideningEligible(0), "ceil(2^0.5)=2")
	tr.expand(0, PlayerOne, false, rng)
	tr.nodes[0].visits = 4
	assert.False(t, tr.isWideningEligible(0), "ceil(4^0.5)=2")

	// Once all moves were tried, no more widening.
	tr.nodes[0].visits = 1000
	for len(tr.nodes[0].untried) > 0 {
		require.True(t, tr.isWideningEligible(0))
		tr.expand(0, PlayerOne, false, rng)
	}
	assert.False(t, tr.isWideningEligible(0))
	assert.Len(t, tr.nodes[0].children, NumColumns)
}

func TestExpand(t *testing.T) {
	t.Run("structure", func(t *testing.T) {
		board := BuildBoard(3)
		tr := newTree(board, 1, 0.25)
		rng := rand.New(rand.NewPCG(1, 0))
		childIdx := tr.expand(0, PlayerTwo, false, rng)
		root, child := &tr.nodes[0], &tr.nodes[childIdx]
		assert.Len(t, root.untried, NumColumns-1)
		assert.NotContains(t, root.untried, child.move)
		assert.Equal(t, []int8{child.move}, root.childMoves)
		assert.Equal(t, []nodeIdx{childIdx}, root.children)
		assert.Equal(t, nodeIdx(0), child.parent)
		assert.Equal(t, 0, child.visits)
		assert.Equal(t, 2, child.board.MoveNumber)
		assert.Equal(t, PlayerOne, child.board.NextPlayer)
		assert.Equal(t, 1, board.MoveNumber, "root board must not change")
		assert.Len(t, child.untried, child.board.NumLegalMoves())
	})

	t.Run("immediate win first", func(t *testing.T) {
		// X on the bottom row at columns 0, 1 and 2: X to move wins on column 3.
		board := BuildBoard(0, 6, 1, 6, 2, 5)
		require.Equal(t, PlayerOne, board.NextPlayer)
		for seed := range uint64(20) {
			tr := newTree(board, 1, 0.25)
			childIdx := tr.expand(0, PlayerOne, true, rand.New(rand.NewPCG(seed, 0)))
			assert.Equal(t, int8(3), tr.nodes[childIdx].move)
			assert.Equal(t, OutcomeOne, tr.nodes[childIdx].board.Outcome())
		}
	})

	t.Run("opponent win second", func(t *testing.T) {
		// O has 3 pieces on column 6 and is to move, the searching player is X.
		board := BuildBoard(0, 6, 1, 6, 2, 6, 4)
		require.Equal(t, PlayerTwo, board.NextPlayer)
		for seed := range uint64(20) {
			tr := newTree(board, 1, 0.25)
			childIdx := tr.expand(0, PlayerOne, true, rand.New(rand.NewPCG(seed, 0)))
			assert.Equal(t, int8(6), tr.nodes[childIdx].move)
			assert.Equal(t, OutcomeTwo, tr.nodes[childIdx].board.Outcome())
		}
	})

	t.Run("random without heuristic", func(t *testing.T) {
		board := BuildBoard(0, 6, 1, 6, 2, 5)
		moves := make(map[int8]bool)
		for seed := range uint64(50) {
			tr := newTree(board, 1, 0.25)
			childIdx := tr.expand(0, PlayerOne, false, rand.New(rand.NewPCG(seed, 0)))
			moves[tr.nodes[childIdx].move] = true
		}
		assert.Greater(t, len(moves), 3)
	})

	t.Run("no untried moves", func(t *testing.T) {
		tr := newTree(BuildBoard(0, 1, 0, 1, 0, 1, 0), 1, 0.25)
		require.Empty(t, tr.nodes[0].untried)
		require.Panics(t, func() { tr.expand(0, PlayerOne, true, rand.New(rand.NewPCG(1, 0))) })
	})
}

func TestBackpropagate(t *testing.T) {
	tr := newTree(NewBoard(), 1, 0.25)
	rng := rand.New(rand.NewPCG(3, 0))
	tr.nodes[0].visits = 1
	a := tr.expand(0, PlayerOne, false, rng)
	tr.nodes[a].visits = 1
	b := tr.expand(a, PlayerOne, false, rng)
	tr.nodes[0].visits, tr.nodes[a].visits = 0, 0

	tr.backpropagate(b, 1)
	tr.backpropagate(a, 0.5)
	tr.backpropagate(0, 0)
	assert.Equal(t, 3, tr.nodes[0].visits)
	assert.Equal(t, 1.5, tr.nodes[0].wins)
	assert.Equal(t, 2, tr.nodes[a].visits)
	assert.Equal(t, 1.5, tr.nodes[a].wins)
	assert.Equal(t, 1, tr.nodes[b].visits)
	assert.Equal(t, 1.0, tr.nodes[b].wins)
}

func TestMostVisitedChild(t *testing.T) {
	tr := newTree(NewBoard(), 1, 0.25)
	assert.Equal(t, noNode, tr.mostVisitedChild(0))
	addChild(tr, 0, 0, 3, 3)
	best := addChild(tr, 0, 1, 7, 1)
	addChild(tr, 0, 2, 7, 7)
	assert.Equal(t, best, tr.mostVisitedChild(0))
}
