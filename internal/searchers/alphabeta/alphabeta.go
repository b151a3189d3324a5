// Package alphabeta implements a depth limited alpha-beta pruning searcher (negamax form), used
// as a deterministic baseline opponent for the MCTS players.
//
// See: wikipedia.org/wiki/Alpha-beta_pruning
package alphabeta

import (
	"fmt"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connectGo/internal/ai"
	"github.com/janpfeifer/connectGo/internal/parameters"
	"github.com/janpfeifer/connectGo/internal/searchers"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// WinScore is the score of a won match. Faster wins score slightly higher, so they are
// preferred, see winScore.
const WinScore = float32(1)

// DefaultMaxDepth for search, in plies.
const DefaultMaxDepth = 4

// moveOrder lists the columns from the center outwards: central moves are usually better, so
// they are searched first, which leads to more pruning.
var moveOrder = [NumColumns]int{3, 2, 4, 1, 5, 0, 6}

// Searcher implements the searchers.Searcher interface.
type Searcher struct {
	maxDepth int
	scorer   ai.BoardScorer
	stats    Stats
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// Stats stores running stats collected during the last search: for benchmarking, monitoring and
// debugging purposes.
type Stats struct {
	// Nodes visited during search.
	Nodes int

	// Evals is the number of boards passed to the scorer.
	Evals int

	Prunes int
}

// New returns an Alpha-Beta Pruning based searchers.Searcher implementation, using scorer to
// evaluate the boards at the max depth.
func New(scorer ai.BoardScorer) *Searcher {
	return &Searcher{
		scorer:   scorer,
		maxDepth: DefaultMaxDepth,
	}
}

// WithMaxDepth sets the max depth of search: the unit here are plies (ply singular). Each player
// playing counts as one ply. See https://en.wikipedia.org/wiki/Ply_(game_theory).
//
// The default is DefaultMaxDepth.
func (ab *Searcher) WithMaxDepth(maxDepth int) *Searcher {
	ab.maxDepth = maxDepth
	return ab
}

// NewFromParams creates a Searcher from the parameters, popping the ones it uses:
//
//   - max_depth (int): max depth of search in plies, default is DefaultMaxDepth.
func NewFromParams(params parameters.Params) (*Searcher, error) {
	maxDepth, err := parameters.PopParamOr(params, "max_depth", DefaultMaxDepth)
	if err != nil {
		return nil, err
	}
	if maxDepth < 1 {
		return nil, errors.Errorf("max_depth=%d must be >= 1", maxDepth)
	}
	return New(ai.DefaultThreatScorer).WithMaxDepth(maxDepth), nil
}

// LastStats returns the statistics of the last search.
func (ab *Searcher) LastStats() Stats {
	return ab.stats
}

// String implements searchers.Searcher.
func (ab *Searcher) String() string {
	return fmt.Sprintf("ab(max_depth=%d,%s)", ab.maxDepth, ab.scorer)
}

// Search implements the searchers.Searcher interface.
//
// The score returned is the alpha-beta score mapped from [-1, 1] to [0, 1].
func (ab *Searcher) Search(board *Board) (column int, nextBoard *Board, score float32, err error) {
	if board.IsFinished() {
		return NoColumn, nil, 0, errors.Errorf("alpha-beta search at move #%d: match is finished (%s)", board.MoveNumber, board.Outcome())
	}
	start := time.Now()
	ab.stats = Stats{}
	bestScore := -2 * WinScore
	alpha, beta := -2*WinScore, 2*WinScore
	column = NoColumn
	for _, col := range moveOrder {
		if !board.IsLegal(col) {
			continue
		}
		child := play(board, col)
		value := -ab.negamax(child, ab.maxDepth-1, -beta, -alpha)
		if value > bestScore {
			column, nextBoard, bestScore = col, child, value
		}
		alpha = max(alpha, value)
	}
	score = (min(max(bestScore, -1), 1) + 1) / 2
	if klog.V(2).Enabled() {
		elapsed := time.Since(start)
		klog.Infof("alpha-beta at move #%d: column %d, score %.3f, %+v, nodes/s=%.1f",
			board.MoveNumber, column, bestScore, ab.stats, float64(ab.stats.Nodes)/elapsed.Seconds())
	}
	return column, nextBoard, score, nil
}

// negamax returns the score of board for its player to move, searching depthLeft more plies.
func (ab *Searcher) negamax(board *Board, depthLeft int, alpha, beta float32) float32 {
	ab.stats.Nodes++
	if board.IsFinished() {
		if board.Draw() {
			return 0
		}
		// The player who just moved won.
		return -winScore(depthLeft)
	}
	if depthLeft <= 0 {
		ab.stats.Evals++
		return ab.scorer.Score(board)
	}
	best := -2 * WinScore
	for _, col := range moveOrder {
		if !board.IsLegal(col) {
			continue
		}
		child := play(board, col)
		value := -ab.negamax(child, depthLeft-1, -beta, -alpha)
		best = max(best, value)
		alpha = max(alpha, value)
		if alpha >= beta {
			ab.stats.Prunes++
			break
		}
	}
	return best
}

// play returns the board after col, which must be legal.
func play(board *Board, col int) *Board {
	child, err := board.Act(col)
	if err != nil {
		exceptions.Panicf("alpha-beta: failed to play legal column %d at move #%d: %+v", col, board.MoveNumber, err)
	}
	return child
}

// winScore is WinScore plus a small bonus for the plies left, so faster wins are preferred.
func winScore(depthLeft int) float32 {
	return WinScore + 0.01*float32(depthLeft)
}
