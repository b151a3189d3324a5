// Package rollout implements the policies used by the search to play a match until the end
// from a given board (the "simulation" step of MCTS).
package rollout

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/janpfeifer/connectGo/internal/ai"
	"github.com/janpfeifer/connectGo/internal/features"
	. "github.com/janpfeifer/connectGo/internal/state"
	"k8s.io/klog/v2"
)

// Policy plays a match to the end.
type Policy interface {
	// Rollout plays from board until the match is finished, and returns the final board.
	// The given board is not modified. Any randomness is drawn from rng.
	Rollout(board *Board, rng *rand.Rand) *Board

	String() string
}

// playRandom applies a uniformly random legal move to b.
func playRandom(b *Board, rng *rand.Rand) {
	col := b.LegalMove(rng.IntN(b.NumLegalMoves()))
	if err := b.ApplyMove(col); err != nil {
		// Legal moves always apply.
		klog.Fatalf("rollout: failed to apply legal move %d: %+v\nBoard:\n%s", col, err, b)
	}
}

// Random plays uniformly random legal moves.
type Random struct{}

// Assert Random is a Policy.
var _ Policy = Random{}

// Rollout implements Policy.
func (Random) Rollout(board *Board, rng *rand.Rand) *Board {
	b := board.Clone()
	for !b.IsFinished() {
		playRandom(b, rng)
	}
	return b
}

// String implements Policy.
func (Random) String() string {
	return "random"
}

// PredictorGuided plays the column proposed by a move predictor, falling back to a uniformly
// random legal move whenever the proposed column is not legal.
//
// It is safe for concurrent use if the predictor is.
type PredictorGuided struct {
	predictor ai.MovePredictor
	fallbacks atomic.Int64
}

// Assert PredictorGuided is a Policy.
var _ Policy = (*PredictorGuided)(nil)

// NewPredictorGuided creates a PredictorGuided rollout policy.
func NewPredictorGuided(predictor ai.MovePredictor) *PredictorGuided {
	return &PredictorGuided{predictor: predictor}
}

// Rollout implements Policy.
func (p *PredictorGuided) Rollout(board *Board, rng *rand.Rand) *Board {
	b := board.Clone()
	vec := make(features.Vector, features.Dim)
	for !b.IsFinished() {
		features.Fill(b, vec)
		col := p.predictor.PredictMove(vec)
		if !b.IsLegal(col) {
			p.fallbacks.Add(1)
			if klog.V(3).Enabled() {
				klog.Infof("rollout: %s suggested illegal column %d at move #%d, playing random", p.predictor, col, b.MoveNumber)
			}
			playRandom(b, rng)
			continue
		}
		if err := b.ApplyMove(col); err != nil {
			klog.Fatalf("rollout: failed to apply legal move %d: %+v\nBoard:\n%s", col, err, b)
		}
	}
	return b
}

// Fallbacks returns how many times the predictor suggested an illegal column so far.
func (p *PredictorGuided) Fallbacks() int64 {
	return p.fallbacks.Load()
}

// String implements Policy.
func (p *PredictorGuided) String() string {
	return "predictor(" + p.predictor.String() + ")"
}
