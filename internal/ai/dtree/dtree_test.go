package dtree

import (
	"testing"

	"github.com/janpfeifer/connectGo/internal/features"
	. "github.com/janpfeifer/connectGo/internal/state"
	. "github.com/janpfeifer/connectGo/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(NewSplit("not_a_feature", NewLeaf(0), NewLeaf(1)))
	require.Error(t, err)

	_, err = New(NewSplit("player", NewLeaf(0), nil))
	require.Error(t, err)

	_, err = New(NewLeaf(0, 0.5, 0.5))
	require.Error(t, err, "leaf with 2 probabilities")

	p, err := New(NewLeaf(2))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Depth())
	assert.Equal(t, 2, p.PredictMove(features.FromBoard(NewBoard())))
}

func TestPredict(t *testing.T) {
	// Play the center if free, otherwise play on top of the last move if PlayerTwo is to move,
	// else column 0.
	p, err := New(NewSplit("p0_r0c3",
		NewSplit("p1_r0c3", NewLeaf(3), NewLeaf(6)),
		NewSplit("player",
			NewLeaf(0),
			NewSplit("last_c3", NewLeaf(1), NewLeaf(3, 0, 0, 0, 0.75, 0, 0.25, 0)))))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, "dtree(depth=3)", p.String())

	assert.Equal(t, 3, p.PredictMove(features.FromBoard(NewBoard())))
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0}, p.PredictProbabilities(features.FromBoard(NewBoard())))

	b := BuildBoard(3)
	assert.Equal(t, 3, p.PredictMove(features.FromBoard(b)))
	assert.Equal(t, []float32{0, 0, 0, 0.75, 0, 0.25, 0}, p.PredictProbabilities(features.FromBoard(b)))

	// Changing the returned probabilities must not change the model.
	probs := p.PredictProbabilities(features.FromBoard(b))
	probs[3] = 0
	assert.Equal(t, []float32{0, 0, 0, 0.75, 0, 0.25, 0}, p.PredictProbabilities(features.FromBoard(b)))

	b = BuildBoard(3, 2)
	assert.Equal(t, 0, p.PredictMove(features.FromBoard(b)))

	b = BuildBoard(3, 2, 5)
	assert.Equal(t, 1, p.PredictMove(features.FromBoard(b)))

	b = BuildBoard(1, 3)
	assert.Equal(t, 6, p.PredictMove(features.FromBoard(b)))

	drawing := p.Print()
	assert.Contains(t, drawing, "└── p0_r0c3 = 0\n")
	assert.Contains(t, drawing, "Leaf: column => 6")
}

func TestCenterFirst(t *testing.T) {
	assert.Equal(t, 3, CenterFirst.PredictMove(features.FromBoard(NewBoard())))

	// Answers the last move on a central column.
	assert.Equal(t, 2, CenterFirst.PredictMove(features.FromBoard(BuildBoard(2))))
	assert.Equal(t, 4, CenterFirst.PredictMove(features.FromBoard(BuildBoard(3, 4))))

	// Last move on the border: first open central column.
	assert.Equal(t, 3, CenterFirst.PredictMove(features.FromBoard(BuildBoard(0))))

	// Column 3 full, last move on 6: goes to column 2.
	b := BuildBoard(3, 3, 3, 3, 3, 3, 6)
	assert.False(t, b.IsLegal(3))
	assert.Equal(t, 2, CenterFirst.PredictMove(features.FromBoard(b)))
}
