// Package linear implements a pure Go linear move predictor: one linear model (one weight per
// feature + bias) per column, whose logits are passed through a softmax.
//
// Training is not done here: weights are given at construction.
package linear

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connectGo/internal/ai"
	"github.com/janpfeifer/connectGo/internal/features"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/pkg/errors"
)

// Predictor is a linear model per column on the feature set.
// It implements ai.ProbabilityPredictor, and it is safe for concurrent use, since it is
// never modified after creation.
type Predictor struct {
	// weights[col] has features.Dim weights followed by the bias.
	weights [NumColumns][]float32
	name    string
}

var (
	// Assert Predictor is an ai.ProbabilityPredictor.
	_ ai.ProbabilityPredictor = (*Predictor)(nil)
)

// NewWithWeights creates a new Predictor with the given weights, one slice per column, each with
// features.Dim weights followed by the bias term.
// Ownership of the weights is transferred.
func NewWithWeights(weights ...[]float32) (*Predictor, error) {
	if len(weights) != NumColumns {
		return nil, errors.Errorf("linear predictor requires weights for %d columns, got %d", NumColumns, len(weights))
	}
	p := &Predictor{name: "linear"}
	for col, w := range weights {
		if len(w) != features.Dim+1 {
			return nil, errors.Errorf("weights for column %d have dimension %d, wanted %d (%d features + bias)",
				col, len(w), features.Dim+1, features.Dim)
		}
		p.weights[col] = w
	}
	return p, nil
}

// WithName sets the name of the model, returned by String.
func (p *Predictor) WithName(name string) *Predictor {
	p.name = name
	return p
}

// String implements ai.MovePredictor.
func (p *Predictor) String() string {
	return p.name
}

// Logits returns the un-normalized score of each column.
func (p *Predictor) Logits(vec features.Vector) []float32 {
	if len(vec) != features.Dim {
		exceptions.Panicf("linear.Predictor: features dimension is %d, but weights dimension is %d (+1 bias)",
			len(vec), features.Dim)
	}
	logits := make([]float32, NumColumns)
	for col, w := range p.weights {
		// Sum start with bias.
		sum := w[len(w)-1]
		for ii, feature := range vec {
			if feature != 0 {
				sum += feature * w[ii]
			}
		}
		logits[col] = sum
	}
	return logits
}

// PredictProbabilities implements ai.ProbabilityPredictor.
func (p *Predictor) PredictProbabilities(vec features.Vector) []float32 {
	return ai.Softmax(p.Logits(vec))
}

// PredictMove implements ai.MovePredictor: it returns the column with the highest logit.
func (p *Predictor) PredictMove(vec features.Vector) int {
	return ai.Argmax(p.Logits(vec))
}

// AsGoCode outputs the model as Go code describing the non-zero weights of each column.
func (p *Predictor) AsGoCode() string {
	var sb strings.Builder
	for col, w := range p.weights {
		fmt.Fprintf(&sb, "\t// Column %d\n", col)
		for ii, name := range features.Names {
			if w[ii] != 0 {
				fmt.Fprintf(&sb, "\t%q: %.4f,\n", name, w[ii])
			}
		}
		fmt.Fprintf(&sb, "\t// Bias\n\t%.4f,\n", w[len(w)-1])
	}
	return sb.String()
}
