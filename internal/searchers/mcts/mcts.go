// Package mcts is a Monte Carlo Tree Search implementation of searchers.Searcher, using UCT to
// select the nodes to explore and progressive widening to limit how fast the tree grows in breadth.
//
// Each iteration of the search does:
//
//  1. Selection: starting at the root, descend to the child with the best UCT score while the
//     current node has no untried moves left and has children.
//  2. Expansion: if the node reached is allowed to widen (see Config.WideningAlpha), one of its
//     untried moves becomes a new child, from where the iteration continues.
//  3. Simulation: the configured rollout.Policy plays the match until the end.
//  4. Backpropagation: the result (1 for a win of the searching player, 0.5 for a draw, 0
//     otherwise) is added to every node up to the root.
//
// Once the Budget is exhausted, the move of the most visited child of the root is played.
//
// References:
//
//   - https://en.wikipedia.org/wiki/Monte_Carlo_tree_search
//   - Progressive strategies for Monte-Carlo tree search, Chaslot et al., 2008.
package mcts

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/janpfeifer/connectGo/internal/rollout"
	"github.com/janpfeifer/connectGo/internal/searchers"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrNoLegalMove is returned (wrapped) when searching a board whose match is already finished.
var ErrNoLegalMove = errors.New("no legal move available")

// Budget defines when the search stops: either after some time or after a number of rollouts.
// Create it with TimeBudget or RolloutBudget.
//
// The zero value is not a valid budget.
type Budget struct {
	maxTime     time.Duration
	maxRollouts int
}

// TimeBudget stops the search once maxTime has elapsed. The clock is checked once per iteration.
func TimeBudget(maxTime time.Duration) Budget {
	return Budget{maxTime: maxTime}
}

// RolloutBudget stops the search after maxRollouts rollouts.
func RolloutBudget(maxRollouts int) Budget {
	return Budget{maxRollouts: maxRollouts}
}

// MaxTime returns the time limit, or 0 if the budget is not time based.
func (b Budget) MaxTime() time.Duration {
	return b.maxTime
}

// MaxRollouts returns the rollout limit, or 0 if the budget is not rollout based.
func (b Budget) MaxRollouts() int {
	return b.maxRollouts
}

// String implements fmt.Stringer.
func (b Budget) String() string {
	switch {
	case b.maxTime > 0:
		return fmt.Sprintf("max_time=%s", b.maxTime)
	case b.maxRollouts > 0:
		return fmt.Sprintf("max_rollouts=%d", b.maxRollouts)
	}
	return "no budget"
}

func (b Budget) validate() error {
	if b.maxTime < 0 || b.maxRollouts < 0 {
		return errors.Errorf("negative search budget (%s, %d rollouts)", b.maxTime, b.maxRollouts)
	}
	if b.maxTime > 0 && b.maxRollouts > 0 {
		return errors.New("search budget can't be limited both by time and by number of rollouts")
	}
	if b.maxTime == 0 && b.maxRollouts == 0 {
		return errors.New("search budget not set, use TimeBudget or RolloutBudget")
	}
	return nil
}

// exhausted returns whether the search should stop, after rollouts were done since start.
func (b Budget) exhausted(rollouts int, start time.Time) bool {
	if b.maxRollouts > 0 {
		return rollouts >= b.maxRollouts
	}
	return time.Since(start) >= b.maxTime
}

// Config of a Searcher.
type Config struct {
	// ExplorationConstant is the C in the UCT formula: the larger, the more the search explores
	// the less visited moves. It must be >= 0.
	ExplorationConstant float64

	// Budget of each search.
	Budget Budget

	// WideningAlpha is the exponent of the progressive widening: a node can only have up to
	// ceil(visits^WideningAlpha) children. It must be in (0, 1].
	WideningAlpha float64

	// HeuristicExpansion makes the expansion try first the moves that win immediately, then the
	// ones that block an immediate win of the opponent. Otherwise, moves are expanded in random order.
	HeuristicExpansion bool

	// Rollout policy used in the simulation step.
	Rollout rollout.Policy

	// Seed for the random number generator. If 0, a random seed is used.
	Seed uint64
}

// DefaultConfig returns the default configuration: C=√2, 1 second per move, alpha=0.25, heuristic
// expansion and random rollouts.
func DefaultConfig() Config {
	return Config{
		ExplorationConstant: math.Sqrt2,
		Budget:              TimeBudget(time.Second),
		WideningAlpha:       0.25,
		HeuristicExpansion:  true,
		Rollout:             rollout.Random{},
	}
}

// String implements fmt.Stringer.
func (cfg Config) String() string {
	return fmt.Sprintf("c=%g,%s,alpha=%g,heuristic=%v,rollout=%s",
		cfg.ExplorationConstant, cfg.Budget, cfg.WideningAlpha, cfg.HeuristicExpansion, cfg.Rollout)
}

// Validate returns an error if the configuration is not usable.
func (cfg Config) Validate() error {
	if cfg.ExplorationConstant < 0 || math.IsNaN(cfg.ExplorationConstant) || math.IsInf(cfg.ExplorationConstant, 0) {
		return errors.Errorf("invalid exploration constant c=%g, it must be a finite value >= 0", cfg.ExplorationConstant)
	}
	if !(cfg.WideningAlpha > 0 && cfg.WideningAlpha <= 1) {
		return errors.Errorf("invalid widening alpha=%g, it must be in (0, 1]", cfg.WideningAlpha)
	}
	if err := cfg.Budget.validate(); err != nil {
		return err
	}
	if cfg.Rollout == nil {
		return errors.New("no rollout policy configured")
	}
	return nil
}

// Stats of one search.
type Stats struct {
	// Rollouts is the number of iterations, one rollout each.
	Rollouts int

	// TerminalRollouts is the number of iterations that reached a finished board, and hence
	// didn't need to play anything.
	TerminalRollouts int

	// Nodes created in the tree, including the root.
	Nodes int

	// RootVisits is the number of visits of the root once the search is over: it always equals Rollouts.
	RootVisits int

	// Elapsed time of the search.
	Elapsed time.Duration
}

// RolloutsPerSecond is the rate of rollouts in the search.
func (s Stats) RolloutsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Rollouts) / s.Elapsed.Seconds()
}

// Searcher implements searchers.Searcher with MCTS.
//
// It owns a random number generator, so it must not be used by concurrent searches.
type Searcher struct {
	cfg Config
	rng *rand.Rand
}

// Assert Searcher is a searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// New creates a Searcher with the given configuration.
func New(cfg Config) (*Searcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "mcts")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Searcher{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, 0)),
	}, nil
}

// Config returns the configuration of the searcher.
func (s *Searcher) Config() Config {
	return s.cfg
}

// String implements searchers.Searcher.
func (s *Searcher) String() string {
	return "mcts(" + s.cfg.String() + ")"
}

// Search implements searchers.Searcher.
//
// It returns the column of the most visited child of the root, the board after playing it,
// and the fraction of the rollouts through it that the player to move won (draws count half).
func (s *Searcher) Search(board *Board) (column int, nextBoard *Board, score float32, err error) {
	column, nextBoard, score, _, err = s.SearchWithStats(board)
	return
}

// SearchWithStats is like Search, but also returns the statistics of the search.
func (s *Searcher) SearchWithStats(board *Board) (column int, nextBoard *Board, score float32, stats Stats, err error) {
	if board.IsFinished() {
		err = errors.Wrapf(ErrNoLegalMove, "search at move #%d: match is finished (%s)", board.MoveNumber, board.Outcome())
		return NoColumn, nil, 0, stats, err
	}

	var t *tree
	t, stats = s.buildTree(board)
	best := t.mostVisitedChild(0)
	if best == noNode {
		// buildTree only returns once the root has children.
		return NoColumn, nil, 0, stats, errors.Errorf("search at move #%d ended with no children on the root", board.MoveNumber)
	}
	bestNode := &t.nodes[best]
	column = int(bestNode.move)
	nextBoard = bestNode.board
	score = float32(bestNode.wins / float64(bestNode.visits))

	if klog.V(1).Enabled() {
		klog.Infof("Search at move #%d: %d rollouts (%d terminal), %d nodes, %.0f rollouts/s, column %d with score %.3f",
			board.MoveNumber, stats.Rollouts, stats.TerminalRollouts, stats.Nodes, stats.RolloutsPerSecond(), column, score)
	}
	if klog.V(2).Enabled() {
		root := t.root()
		for ii, childIdx := range root.children {
			child := &t.nodes[childIdx]
			klog.Infof("  column %d: visits=%d, win rate=%.3f", root.childMoves[ii], child.visits, child.wins/float64(child.visits))
		}
	}
	return
}

// buildTree runs the search iterations on board, until the budget is exhausted.
//
// The root only widens after its first visit, so the loop also runs until the root has at
// least one child, which takes two iterations on a fresh tree.
func (s *Searcher) buildTree(board *Board) (*tree, Stats) {
	var stats Stats
	t := newTree(board.Clone(), s.cfg.ExplorationConstant, s.cfg.WideningAlpha)
	searchingPlayer := board.NextPlayer
	start := time.Now()
	for {
		idx := s.selectNode(t)
		if t.isWideningEligible(idx) {
			idx = t.expand(idx, searchingPlayer, s.cfg.HeuristicExpansion, s.rng)
		}

		final := t.nodes[idx].board
		if final.IsFinished() {
			stats.TerminalRollouts++
		} else {
			final = s.cfg.Rollout.Rollout(final, s.rng)
		}
		t.backpropagate(idx, resultFor(final.Outcome(), searchingPlayer))
		stats.Rollouts++

		if s.cfg.Budget.exhausted(stats.Rollouts, start) && len(t.root().children) > 0 {
			break
		}
	}
	stats.Elapsed = time.Since(start)
	stats.Nodes = len(t.nodes)
	stats.RootVisits = t.root().visits
	return t, stats
}

// selectNode descends from the root following the best UCT scores, while the node has no
// untried moves and has children.
func (s *Searcher) selectNode(t *tree) nodeIdx {
	idx := nodeIdx(0)
	for {
		n := &t.nodes[idx]
		if len(n.untried) > 0 || len(n.children) == 0 {
			return idx
		}
		idx = t.selectBestChild(idx)
	}
}

// resultFor converts the outcome of a rollout to the result from the point of view of player.
func resultFor(outcome Outcome, player PlayerNum) float64 {
	switch outcome {
	case WinOf(player):
		return 1
	case OutcomeDraw:
		return 0.5
	}
	return 0
}
