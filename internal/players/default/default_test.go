package _default

import (
	"testing"

	"github.com/janpfeifer/connectGo/internal/players"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayers(t *testing.T) {
	assert.Equal(t, []string{"ab", "mcts", "random"}, players.ModuleNames())

	player, err := players.New(1, "test", PlayerOne, "mcts:c=0.7,max_rollouts=50,seed=3")
	require.NoError(t, err)
	assert.Contains(t, player.String(), "c=0.7")
	assert.Contains(t, player.String(), "max_rollouts=50")

	player, err = players.New(1, "test", PlayerTwo, "mcts:max_rollouts=50,predictor=dtree,randomness=0.2,max_move_randomness=4")
	require.NoError(t, err)
	assert.Contains(t, player.String(), "+randomized")

	player, err = players.New(1, "test", PlayerOne, "ab:max_depth=2")
	require.NoError(t, err)
	assert.Equal(t, "ab(max_depth=2,threats)", player.String())

	player, err = players.New(1, "test", PlayerOne, "random:seed=5")
	require.NoError(t, err)
	assert.Equal(t, "random", player.String())

	// Default configuration.
	player, err = players.New(1, "test", PlayerOne, "")
	require.NoError(t, err)
	assert.Contains(t, player.String(), "max_time=1s")

	for _, config := range []string{
		"alphabeta",
		"mcts:max_rollouts=50,unknown_param=1",
		"ab:max_depth=0",
		"ab:c=1",
		"mcts:c=-2",
		"mcts:randomness=2",
		"random:seed=-1",
		"random:c=1",
	} {
		_, err = players.New(1, "test", PlayerOne, config)
		require.Error(t, err, config)
	}
}

func TestPlay(t *testing.T) {
	for _, config := range []string{"mcts:max_rollouts=100,seed=9", "ab:max_depth=3", "random:seed=9"} {
		player, err := players.New(2, "play", PlayerOne, config)
		require.NoError(t, err)
		board := NewBoard()
		column, nextBoard, score, err := player.Play(board)
		require.NoError(t, err, config)
		assert.True(t, board.IsLegal(column))
		assert.Equal(t, 1, nextBoard.MoveNumber)
		assert.GreaterOrEqual(t, score, float32(0))
		assert.LessOrEqual(t, score, float32(1))
		player.Finalize()
		assert.Equal(t, "finalized player", player.String())
	}

	// A finished board can't be played.
	player, err := players.New(3, "play", PlayerTwo, "mcts:max_rollouts=10")
	require.NoError(t, err)
	board := NewBoard()
	for _, col := range []int{0, 1, 0, 1, 0, 1, 0} {
		require.NoError(t, board.ApplyMove(col))
	}
	_, _, _, err = player.Play(board)
	require.Error(t, err)
}
