// Package _default registers the default players that can be included in any
// front-end for connectGo.
//
// Currently, it includes "mcts" (see mcts.NewFromParams for its parameters), "ab", a depth
// limited alpha-beta baseline (see alphabeta.NewFromParams) and "random", a player that plays
// uniformly random columns.
package _default

import (
	"github.com/janpfeifer/connectGo/internal/parameters"
	"github.com/janpfeifer/connectGo/internal/players"
	"github.com/janpfeifer/connectGo/internal/searchers"
	"github.com/janpfeifer/connectGo/internal/searchers/alphabeta"
	"github.com/janpfeifer/connectGo/internal/searchers/mcts"
	"github.com/janpfeifer/connectGo/internal/state"
	"github.com/pkg/errors"
)

func init() {
	players.RegisterModule("mcts", &MCTS{})
	players.RegisterModule("ab", &AlphaBeta{})
	players.RegisterModule("random", &Random{})
}

// MCTS implements players.Module with a Monte Carlo Tree Search player.
type MCTS struct{}

// Assert MCTS implements Module.
var _ players.Module = (*MCTS)(nil)

// NewPlayer implements players.Module.
func (m *MCTS) NewPlayer(matchId uint64, matchName string, playerNum state.PlayerNum, params parameters.Params) (players.Player, error) {
	searcher, err := mcts.NewFromParams(params)
	if err != nil {
		return nil, err
	}
	var seed uint64
	if searcher.Config().Seed != 0 {
		seed = searcher.Config().Seed + 1
	}
	player, err := players.NewSearcherPlayer(searcher, matchName, playerNum, params, seed)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// AlphaBeta implements players.Module with the alpha-beta baseline player.
type AlphaBeta struct{}

// Assert AlphaBeta implements Module.
var _ players.Module = (*AlphaBeta)(nil)

// NewPlayer implements players.Module.
func (ab *AlphaBeta) NewPlayer(matchId uint64, matchName string, playerNum state.PlayerNum, params parameters.Params) (players.Player, error) {
	searcher, err := alphabeta.NewFromParams(params)
	if err != nil {
		return nil, err
	}
	player, err := players.NewSearcherPlayer(searcher, matchName, playerNum, params, matchId+1)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// Random implements players.Module with a player that plays uniformly random legal columns.
type Random struct{}

// Assert Random implements Module.
var _ players.Module = (*Random)(nil)

// NewPlayer implements players.Module.
func (r *Random) NewPlayer(matchId uint64, matchName string, playerNum state.PlayerNum, params parameters.Params) (players.Player, error) {
	seed, err := parameters.PopParamOr(params, "seed", 0)
	if err != nil {
		return nil, err
	}
	if seed < 0 {
		return nil, errors.Errorf("seed=%d must be >= 0", seed)
	}
	return &players.SearcherPlayer{
		Searcher:  searchers.NewRandomSearcher(uint64(seed)),
		MatchName: matchName,
		PlayerNum: playerNum,
	}, nil
}
