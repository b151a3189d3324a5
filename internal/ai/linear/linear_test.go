package linear

import (
	"testing"

	"github.com/janpfeifer/connectGo/internal/features"
	. "github.com/janpfeifer/connectGo/internal/state"
	. "github.com/janpfeifer/connectGo/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWeights(t *testing.T) {
	_, err := NewWithWeights(make([]float32, features.Dim+1))
	require.Error(t, err, "only one column of weights")

	weights := make([][]float32, NumColumns)
	for col := range weights {
		weights[col] = make([]float32, features.Dim+1)
	}
	weights[3] = weights[3][:features.Dim]
	_, err = NewWithWeights(weights...)
	require.Error(t, err, "missing bias for column 3")

	_, err = NewFromFeatureWeights([NumColumns]float32{}, func(int) map[string]float32 {
		return map[string]float32{"no_such_feature": 1}
	})
	require.Error(t, err)
}

func TestPredict(t *testing.T) {
	// Column 5 has the largest bias, but column 1 is boosted when PlayerTwo is to move.
	p, err := NewFromFeatureWeights(
		[NumColumns]float32{0, 0, 0, 0, 0, 1, 0},
		func(col int) map[string]float32 {
			if col == 1 {
				return map[string]float32{"player": 2}
			}
			return nil
		})
	require.NoError(t, err)

	vec := features.FromBoard(NewBoard())
	assert.Equal(t, 5, p.PredictMove(vec))
	vec = features.FromBoard(BuildBoard(0))
	assert.Equal(t, 1, p.PredictMove(vec))

	probs := p.PredictProbabilities(vec)
	require.Len(t, probs, NumColumns)
	var sum float32
	for _, prob := range probs {
		sum += prob
	}
	assert.InDelta(t, float32(1), sum, 1e-5)
	assert.Greater(t, probs[1], probs[5])

	assert.Panics(t, func() { p.PredictMove(make(features.Vector, 10)) })
	assert.Contains(t, p.AsGoCode(), `"player": 2.0000`)
}

func TestCenterBiased(t *testing.T) {
	assert.Equal(t, "center", CenterBiased.String())
	assert.Equal(t, 3, CenterBiased.PredictMove(features.FromBoard(NewBoard())))

	// With the central column full, it moves to its neighbours.
	b := BuildBoard(3, 3, 3, 3, 3, 3)
	col := CenterBiased.PredictMove(features.FromBoard(b))
	assert.Contains(t, []int{2, 4}, col)
	assert.True(t, b.IsLegal(col))
}
