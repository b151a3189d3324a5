package searchers

import (
	"math/rand/v2"

	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// NewRandomizedSearcher adds randomness to the moves chosen by an existing Searcher, so that
// matches between the same players don't all look alike.
//
// Args:
//
//   - searcher: Baseline Searcher.
//   - randomness: probability, in [0, 1], of playing a uniformly random legal column instead of
//     the one of the baseline searcher. With 0 the baseline searcher is returned as is.
//   - maxMoveRandomness: starting at this move no more randomness is used. This allows
//     randomness to be used only for the opening of the match.
//   - seed: for the random number generator, 0 for a random one.
func NewRandomizedSearcher(searcher Searcher, randomness float64, maxMoveRandomness int, seed uint64) Searcher {
	if randomness <= 0 {
		// Without randomness, simply return the original Searcher.
		return searcher
	}
	if randomness > 1 || (searcher == nil && randomness < 1) {
		exceptions.Panicf("NewRandomizedSearcher: invalid randomness=%g (searcher=%v)", randomness, searcher)
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &randomizedSearcher{
		searcher:          searcher,
		randomness:        randomness,
		maxMoveRandomness: maxMoveRandomness,
		rng:               rand.New(rand.NewPCG(seed, 1)),
	}
}

// NewRandomSearcher returns a Searcher that always plays a uniformly random legal column.
// It is the baseline opponent for the other searchers.
func NewRandomSearcher(seed uint64) Searcher {
	return NewRandomizedSearcher(nil, 1, NumCells, seed)
}

// randomizedSearcher is a meta Searcher, that introduces randomness to its base searcher.
type randomizedSearcher struct {
	searcher          Searcher
	randomness        float64
	maxMoveRandomness int
	rng               *rand.Rand
}

// Assert randomizedSearcher is a Searcher.
var _ Searcher = &randomizedSearcher{}

// Search implements the Searcher interface.
//
// A random column is scored 0.5, since there is no estimate for it.
func (rs *randomizedSearcher) Search(board *Board) (column int, nextBoard *Board, score float32, err error) {
	if rs.searcher != nil && (board.MoveNumber >= rs.maxMoveRandomness || rs.rng.Float64() >= rs.randomness) {
		return rs.searcher.Search(board)
	}
	if board.IsFinished() {
		return NoColumn, nil, 0, errors.Errorf("random search at move #%d: match is finished (%s)", board.MoveNumber, board.Outcome())
	}
	column = board.LegalMove(rs.rng.IntN(board.NumLegalMoves()))
	nextBoard, err = board.Act(column)
	if err != nil {
		return NoColumn, nil, 0, errors.WithMessagef(err, "random search at move #%d", board.MoveNumber)
	}
	if klog.V(2).Enabled() {
		klog.Infof("randomizedSearcher: random column %d at move #%d", column, board.MoveNumber)
	}
	return column, nextBoard, 0.5, nil
}

// String implements the Searcher interface.
func (rs *randomizedSearcher) String() string {
	if rs.searcher == nil {
		return "random"
	}
	return rs.searcher.String() + "+randomized"
}
