// Package ai (Artificial Intelligence) defines the interfaces that move predictors, used to guide
// the search rollouts, have to implement.
//
// How a predictor is trained or stored is not a concern of this package: predictors are
// injected already built.
package ai

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/connectGo/internal/features"
)

// MovePredictor proposes a column to play given the features of a board.
//
// The proposed column may be illegal (out of range or full): callers must validate it.
// Implementations must be safe for concurrent use, since the same predictor may be shared
// by searches running in parallel.
type MovePredictor interface {
	PredictMove(vec features.Vector) (column int)
	String() string
}

// ProbabilityPredictor is a MovePredictor that can also return a probability for each column.
type ProbabilityPredictor interface {
	MovePredictor

	// PredictProbabilities returns one probability per column, summing to 1.
	PredictProbabilities(vec features.Vector) []float32
}

// PredictorFunc adapts a function to a MovePredictor.
type PredictorFunc func(vec features.Vector) int

// Assert PredictorFunc is a MovePredictor.
var _ MovePredictor = PredictorFunc(nil)

// PredictMove implements MovePredictor.
func (fn PredictorFunc) PredictMove(vec features.Vector) int {
	return fn(vec)
}

// String implements MovePredictor.
func (fn PredictorFunc) String() string {
	return "PredictorFunc"
}

// Softmax returns the Softmax of the given logits in a numerically stable way.
func Softmax(logits []float32) (probs []float32) {
	probs = make([]float32, len(logits))
	var sum float32

	// Subtracting the max logit keeps the probabilities the same, with smaller exponentials.
	maxValue := slices.Max(logits)
	for ii, value := range logits {
		probs[ii] = math32.Exp(value - maxValue)
		sum += probs[ii]
	}
	for ii := range probs {
		probs[ii] /= sum
	}
	return
}

// Argmax returns the index of the largest value, the first one in case of ties.
// It returns -1 for an empty slice.
func Argmax(values []float32) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for ii, value := range values[1:] {
		if value > values[best] {
			best = ii + 1
		}
	}
	return best
}
