package match

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/janpfeifer/connectGo/internal/parameters"
	"github.com/janpfeifer/connectGo/internal/players"
	_ "github.com/janpfeifer/connectGo/internal/players/default"
	. "github.com/janpfeifer/connectGo/internal/state"
	. "github.com/janpfeifer/connectGo/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayers(t *testing.T, config1, config2 string) [2]players.Player {
	var aiPlayers [2]players.Player
	for ii, config := range [2]string{config1, config2} {
		var err error
		aiPlayers[ii], err = players.New(0, "test", PlayerNum(ii+1), config)
		require.NoError(t, err)
	}
	return aiPlayers
}

func TestPlay(t *testing.T) {
	aiPlayers := newTestPlayers(t, "random:seed=1", "random:seed=2")
	var numMoves int
	board, columns, err := Play(context.Background(), "test", aiPlayers, func(_ string, b *Board, column int, next *Board) {
		numMoves++
		assert.True(t, b.IsLegal(column))
		assert.Equal(t, b.MoveNumber+1, next.MoveNumber)
	})
	require.NoError(t, err)
	require.True(t, board.IsFinished())
	assert.Len(t, columns, board.MoveNumber)
	assert.Equal(t, numMoves, len(columns))

	// Replaying the columns gives the same final board.
	replay := BuildBoard(columns...)
	assert.Equal(t, board.Outcome(), replay.Outcome())
	assert.Equal(t, board.String(), replay.String())
	assert.Equal(t, BruteForceOutcome(board), board.Outcome())
}

func TestPlay_Cancelled(t *testing.T) {
	aiPlayers := newTestPlayers(t, "random", "random")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	board, columns, err := Play(ctx, "test", aiPlayers, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, columns)
	assert.False(t, board.IsFinished())
}

func TestPlay_MCTSBeatsRandom(t *testing.T) {
	aiPlayers := newTestPlayers(t, "mcts:max_rollouts=1000,seed=5", "random:seed=6")
	board, _, err := Play(context.Background(), "test", aiPlayers, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOne, board.Outcome())
}

func TestArena(t *testing.T) {
	var numResults, numMoves atomic.Int32
	arena := Arena{
		Configs:     [2]string{"mcts:max_rollouts=300", "random"},
		NumMatches:  8,
		Parallelism: 4,
		OnResult: func(r Result, tally Tally) {
			numResults.Add(1)
			assert.Equal(t, r.MatchIdx%2 == 1, r.Swapped)
			assert.Len(t, r.Columns, r.Final.MoveNumber)
			assert.LessOrEqual(t, tally.Played, tally.Total)
		},
		OnMove: func(string, *Board, int, *Board) { numMoves.Add(1) },
	}
	tally, err := arena.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, tally.Played)
	assert.Equal(t, 8, tally.Total)
	assert.Equal(t, tally.Played, tally.Wins(0)+tally.Wins(1)+tally.NumDraws())
	assert.Equal(t, int32(8), numResults.Load())
	assert.Greater(t, numMoves.Load(), int32(8*ConnectLength))
	assert.Greater(t, tally.Wins(0), tally.Wins(1), "MCTS should beat random: %s", tally)
	assert.Contains(t, tally.String(), "Played 8 of 8")
}

func TestArena_Errors(t *testing.T) {
	_, err := (&Arena{Configs: [2]string{"random", "random"}}).Run(context.Background())
	require.Error(t, err, "no matches")

	_, err = (&Arena{Configs: [2]string{"random", "nonexistent"}, NumMatches: 2}).Run(context.Background())
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tally, err := (&Arena{Configs: [2]string{"random", "random"}, NumMatches: 4}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, tally.Played)
}

// failingModule creates players that fail on their first move.
type failingModule struct {
	created atomic.Int32
}

func (m *failingModule) NewPlayer(uint64, string, PlayerNum, parameters.Params) (players.Player, error) {
	m.created.Add(1)
	return failingPlayer{}, nil
}

type failingPlayer struct{}

func (failingPlayer) Play(board *Board) (int, *Board, float32, error) {
	return NoColumn, nil, 0, errors.Errorf("failing player at move #%d", board.MoveNumber)
}
func (failingPlayer) Finalize()      {}
func (failingPlayer) String() string { return "failing" }

func TestArena_StopsOnFirstError(t *testing.T) {
	module := &failingModule{}
	players.RegisterModule("failing", module)
	arena := Arena{Configs: [2]string{"random", "failing"}, NumMatches: 20, Parallelism: 1}
	tally, err := arena.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing player at move #1")
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, tally.Played)
	assert.Equal(t, int32(1), module.created.Load(), "matches after the failing one must not start")
}

func TestTally(t *testing.T) {
	var tally Tally
	tally.add(Result{Swapped: false, Winner: 0})
	tally.add(Result{Swapped: true, Winner: 0})
	tally.add(Result{Swapped: true, Winner: 1})
	tally.add(Result{Swapped: false, Winner: -1})
	tally.add(Result{Swapped: true, Winner: -1})
	assert.Equal(t, [2]int{1, 1}, tally.WinsAs1st)
	assert.Equal(t, [2]int{1, 0}, tally.WinsAs2nd)
	assert.Equal(t, [2]int{1, 1}, tally.Draws)
	assert.Equal(t, 2, tally.Wins(0))
	assert.Equal(t, 1, tally.Wins(1))
	assert.Equal(t, 5, tally.Played)
}

func TestWithParam(t *testing.T) {
	assert.Equal(t, "mcts:c=1", WithParam("mcts", "c", "1"))
	assert.Equal(t, "mcts:c=1", WithParam("mcts:", "c", "1"))
	assert.Equal(t, "mcts:max_rollouts=5,c=1", WithParam("mcts:max_rollouts=5", "c", "1"))
	assert.Equal(t, "c=1", WithParam("", "c", "1"))
}

func TestParseConstants(t *testing.T) {
	constants, err := ParseConstants("0.5, 1.41,2,")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.41, 2}, constants)

	_, err = ParseConstants("1,x")
	require.Error(t, err)
	_, err = ParseConstants("-1")
	require.Error(t, err)
}

func TestSweep(t *testing.T) {
	var numMatches atomic.Int32
	results, err := Sweep(context.Background(), "mcts:max_rollouts=50", []float64{0, 1, 2}, Arena{
		NumMatches:  2,
		Parallelism: 2,
		OnResult:    func(Result, Tally) { numMatches.Add(1) },
	})
	require.NoError(t, err)
	require.Len(t, results, 6)
	assert.Equal(t, int32(12), numMatches.Load())
	seen := make(map[[2]float64]bool)
	for _, r := range results {
		assert.NotEqual(t, r.C1, r.C2)
		assert.Equal(t, 2, r.Tally.Played)
		seen[[2]float64{r.C1, r.C2}] = true
	}
	assert.Len(t, seen, 6)

	_, err = Sweep(context.Background(), "mcts", []float64{1}, Arena{NumMatches: 1})
	require.Error(t, err)
}
