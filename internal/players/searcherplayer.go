package players

import (
	"github.com/janpfeifer/connectGo/internal/parameters"
	"github.com/janpfeifer/connectGo/internal/searchers"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// SearcherPlayer is the standard set up for an AI: a searcher that picks the moves.
// It implements the Player interface.
type SearcherPlayer struct {
	Searcher searchers.Searcher

	// MatchName and PlayerNum are used for logging.
	MatchName string
	PlayerNum PlayerNum
}

// NewSearcherPlayer creates a SearcherPlayer, optionally adding randomness to the searcher.
//
// Parameters popped from params:
//
//   - randomness (float): probability, in [0, 1], of playing a random column instead of the one chosen
//     by the searcher. Default is 0.
//   - max_move_randomness (int): randomness is only used before this move number. Default is 8.
//
// The seed is used for the randomness, 0 for a random one.
func NewSearcherPlayer(searcher searchers.Searcher, matchName string, playerNum PlayerNum, params parameters.Params, seed uint64) (*SearcherPlayer, error) {
	randomness, err := parameters.PopParamOr(params, "randomness", 0.0)
	if err != nil {
		return nil, err
	}
	if randomness < 0 || randomness > 1 {
		return nil, errors.Errorf("randomness=%g must be in [0, 1]", randomness)
	}
	maxMoveRandomness, err := parameters.PopParamOr(params, "max_move_randomness", 8)
	if err != nil {
		return nil, err
	}
	return &SearcherPlayer{
		Searcher:  searchers.NewRandomizedSearcher(searcher, randomness, maxMoveRandomness, seed),
		MatchName: matchName,
		PlayerNum: playerNum,
	}, nil
}

// Assert SearcherPlayer is a Player.
var _ Player = &SearcherPlayer{}

// Play implements the Player interface: it chooses a column given a Board.
func (s *SearcherPlayer) Play(b *Board) (column int, nextBoard *Board, score float32, err error) {
	column, nextBoard, score, err = s.Searcher.Search(b)
	if err != nil {
		return NoColumn, nil, 0, errors.WithMessagef(err, "%s: player %s (%s) at move #%d", s.MatchName, s.PlayerNum, s.Searcher, b.MoveNumber)
	}
	if klog.V(2).Enabled() {
		klog.Infof("%s: move #%d, player %s (%s) playing column %d, score=%.3f",
			s.MatchName, b.MoveNumber, s.PlayerNum, s.Searcher, column, score)
	}
	return
}

// Finalize is called at the end of a match.
func (s *SearcherPlayer) Finalize() {
	if klog.V(2).Enabled() {
		klog.Infof("%s: player %s (%s) finalized", s.MatchName, s.PlayerNum, s.Searcher)
	}
	s.Searcher = nil
}

// String implements Player.
func (s *SearcherPlayer) String() string {
	if s.Searcher == nil {
		return "finalized player"
	}
	return s.Searcher.String()
}
