// Package match plays matches between AI players, and runs arenas of many independent matches
// in parallel, tallying the results.
package match

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/janpfeifer/connectGo/internal/players"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// MoveFn is called after each move of a match, with the board before and after the move.
type MoveFn func(matchName string, board *Board, column int, nextBoard *Board)

// Play runs a match from an empty board between aiPlayers: aiPlayers[0] plays as PlayerOne.
//
// It returns the final board and the columns played. The context is checked between moves: if
// it is cancelled the match is abandoned and the context error is returned.
// onMove, if not nil, is called after every move.
func Play(ctx context.Context, matchName string, aiPlayers [2]players.Player, onMove MoveFn) (board *Board, columns []int, err error) {
	board = NewBoard()
	columns = make([]int, 0, NumCells)
	for !board.IsFinished() {
		if err = ctx.Err(); err != nil {
			klog.V(1).Infof("%s interrupted at move #%d: %s", matchName, board.MoveNumber, err)
			return
		}
		player := aiPlayers[board.NextPlayer-PlayerOne]
		var (
			column    int
			nextBoard *Board
		)
		column, nextBoard, _, err = player.Play(board)
		if err != nil {
			return
		}
		if nextBoard == nil || nextBoard.MoveNumber != board.MoveNumber+1 || int(nextBoard.LastMove().Col) != column {
			err = errors.Errorf("%s: player %s (%s) returned an inconsistent board for column %d at move #%d",
				matchName, board.NextPlayer, player, column, board.MoveNumber)
			return
		}
		columns = append(columns, column)
		if onMove != nil {
			onMove(matchName, board, column, nextBoard)
		}
		board = nextBoard
	}
	if klog.V(1).Enabled() {
		klog.Infof("%s finished after %d moves: %s", matchName, board.MoveNumber, board.Outcome())
	}
	return
}

// Result of one match of an arena.
type Result struct {
	MatchIdx int

	// Swapped is true if the second configuration played first (as PlayerOne).
	Swapped bool

	// Winner is the index (0 or 1) of the configuration that won, or -1 for a draw.
	Winner int

	Final   *Board
	Columns []int
}

// Tally of the results of an arena, indexed by configuration.
type Tally struct {
	WinsAs1st, WinsAs2nd [2]int

	// Draws indexed by the configuration that played first.
	Draws [2]int

	Played, Total int
	Elapsed       time.Duration
}

// Wins of the configuration idx, as first or second player.
func (t Tally) Wins(idx int) int {
	return t.WinsAs1st[idx] + t.WinsAs2nd[idx]
}

// NumDraws returns the total number of draws.
func (t Tally) NumDraws() int {
	return t.Draws[0] + t.Draws[1]
}

// add the result of one match.
func (t *Tally) add(r Result) {
	first := 0
	if r.Swapped {
		first = 1
	}
	switch {
	case r.Winner < 0:
		t.Draws[first]++
	case r.Winner == first:
		t.WinsAs1st[r.Winner]++
	default:
		t.WinsAs2nd[r.Winner]++
	}
	t.Played++
}

// String implements fmt.Stringer.
func (t Tally) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Played %d of %d: ", t.Played, t.Total))
	for idx := range 2 {
		parts = append(parts,
			fmt.Sprintf("AI-%d: %d Wins (1st: %d, 2nd: %d) / ",
				idx+1, t.Wins(idx), t.WinsAs1st[idx], t.WinsAs2nd[idx]))
	}
	parts = append(parts, fmt.Sprintf("%d draws (%d AI-1 as 1st, %d AI-2 as 1st) - %s",
		t.NumDraws(), t.Draws[0], t.Draws[1], t.Elapsed.Round(time.Millisecond)))
	return strings.Join(parts, "")
}

// Arena plays NumMatches independent matches between two AI configurations, alternating which
// one plays first.
type Arena struct {
	// Configs of the two AIs, as accepted by players.New.
	Configs [2]string

	NumMatches int

	// Parallelism is the max number of matches played at the same time. If <= 0, GOMAXPROCS is used.
	Parallelism int

	// OnResult, if not nil, is called after each match with its result and the tally so far.
	// Calls are serialized.
	OnResult func(r Result, tally Tally)

	// OnMove, if not nil, is called after each move of every match. It may be called concurrently
	// by different matches.
	OnMove MoveFn
}

// parallelism returns the number of matches to run at the same time.
func (a *Arena) parallelism() int {
	if a.Parallelism > 0 {
		return a.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// Run plays all the matches of the arena. Each match creates its own players, so no state is
// shared among matches.
//
// If the context is cancelled, the matches being played are abandoned and Run returns the tally
// of the finished ones along with the context error. The first match that fails stops the
// arena in the same way, and its error is returned.
func (a *Arena) Run(ctx context.Context) (Tally, error) {
	if a.NumMatches <= 0 {
		return Tally{}, errors.Errorf("arena needs a positive number of matches, got %d", a.NumMatches)
	}
	var (
		mu    sync.Mutex
		tally = Tally{Total: a.NumMatches}
	)
	start := time.Now()
	// The first failing match cancels matchesCtx, so the matches not yet started are skipped.
	wg, matchesCtx := errgroup.WithContext(ctx)
	wg.SetLimit(a.parallelism())
	for matchIdx := range a.NumMatches {
		wg.Go(func() error {
			if matchesCtx.Err() != nil {
				return nil
			}
			result, err := a.runMatch(matchesCtx, matchIdx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			tally.add(result)
			tally.Elapsed = time.Since(start)
			if a.OnResult != nil {
				a.OnResult(result, tally)
			}
			return nil
		})
	}
	err := wg.Wait()
	tally.Elapsed = time.Since(start)
	if err == nil && ctx.Err() != nil {
		err = errors.Wrapf(ctx.Err(), "arena interrupted after %d of %d matches", tally.Played, tally.Total)
	}
	return tally, err
}

// runMatch creates the players of match matchIdx and plays it.
func (a *Arena) runMatch(ctx context.Context, matchIdx int) (result Result, err error) {
	result = Result{MatchIdx: matchIdx, Swapped: matchIdx%2 == 1, Winner: -1}
	matchName := fmt.Sprintf("Match-%05d", matchIdx)
	configIdx := [2]int{0, 1}
	if result.Swapped {
		configIdx = [2]int{1, 0}
	}

	var aiPlayers [2]players.Player
	for ii, playerNum := range [2]PlayerNum{PlayerOne, PlayerTwo} {
		aiPlayers[ii], err = players.New(uint64(matchIdx), matchName, playerNum, a.Configs[configIdx[ii]])
		if err != nil {
			return result, errors.WithMessagef(err, "%s: creating AI-%d", matchName, configIdx[ii]+1)
		}
	}
	defer func() {
		for _, p := range aiPlayers {
			p.Finalize()
		}
	}()

	result.Final, result.Columns, err = Play(ctx, matchName, aiPlayers, a.OnMove)
	if err != nil {
		return
	}
	if winner := result.Final.Outcome().Winner(); winner != PlayerNone {
		result.Winner = configIdx[winner-PlayerOne]
	}
	return
}
