package linear

import (
	"fmt"

	"github.com/janpfeifer/connectGo/internal/features"
	"github.com/janpfeifer/connectGo/internal/generics"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
)

// Built-in models.

var (
	// CenterBiased prefers the central columns, strongly avoids full columns and slightly
	// prefers answering on the column of the last move.
	CenterBiased = must.M1(NewFromFeatureWeights(
		[NumColumns]float32{0, 0.5, 1, 1.5, 1, 0.5, 0},
		func(col int) map[string]float32 {
			return map[string]float32{
				fmt.Sprintf("legal_c%d", col): 10,
				fmt.Sprintf("last_c%d", col):  0.25,
			}
		})).WithName("center")
)

// NewFromFeatureWeights builds a Predictor from a bias per column and a function that returns
// the non-zero weights of each column indexed by feature name.
func NewFromFeatureWeights(biases [NumColumns]float32, weightsFn func(col int) map[string]float32) (*Predictor, error) {
	weights := make([][]float32, NumColumns)
	for col := range NumColumns {
		w := make([]float32, features.Dim+1)
		w[features.Dim] = biases[col]
		for name, value := range generics.SortedKeysAndValues(weightsFn(col)) {
			idx, found := features.Index(name)
			if !found {
				return nil, errors.Errorf("column %d: unknown feature %q", col, name)
			}
			w[idx] = value
		}
		weights[col] = w
	}
	return NewWithWeights(weights...)
}
