// connect4 lets AI players play Connect Four against each other.
//
// Modes:
//
//   - Watch (default): one match between --config (playing first) and --config2, printing every move.
//   - Arena (--matches=N): N matches between --config and --config2, alternating who plays
//     first, run in parallel (--parallelism). Prints the tally as matches finish.
//   - Sweep (--sweep=c1,c2,...): for every ordered pair of different exploration constants,
//     an arena of --matches matches, with --config as the base configuration of both AIs.
//
// Examples:
//
//	connect4 --config=mcts:max_rollouts=5000 --config2=mcts:max_time=500ms,predictor=dtree
//	connect4 --matches=100 --config=mcts:max_rollouts=2000 --config2=random
//	connect4 --sweep=0.5,1.41,2 --matches=20 --config=mcts:max_rollouts=1000
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/janpfeifer/connectGo/internal/match"
	"github.com/janpfeifer/connectGo/internal/players"
	_ "github.com/janpfeifer/connectGo/internal/players/default"
	"github.com/janpfeifer/connectGo/internal/profilers"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/janpfeifer/connectGo/internal/ui/cli"
	"github.com/janpfeifer/connectGo/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"golang.org/x/term"
	"k8s.io/klog/v2"
)

var (
	flagWatch       = flag.Bool("watch", false, "Watch mode: one AI vs AI match, printing every move. It is the default if no other mode is selected.")
	flagAIConfig    = flag.String("config", "mcts", "AI configuration of the first player, e.g. \"mcts:c=1.41,max_rollouts=5000,predictor=linear\"")
	flagAIConfig2   = flag.String("config2", "mcts", "AI configuration of the second player")
	flagNumMatches  = flag.Int("matches", 0, "Arena mode: number of matches to play.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
	flagSweep = flag.String("sweep", "", "Comma-separated exploration constants: every ordered pair plays --matches matches, "+
		"with --config as the base configuration of both AIs.")
	flagQuiet = flag.Bool("quiet", false, "Quiet mode: only the moves and the final board (watch mode) or the final tally (arena) are printed.")

	// globalCtx used everywhere. It is cancelled when the program is about to exit either by
	// an interrupt (ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	prof := must.M1(profilers.Setup(globalCtx))
	defer prof.OnQuit()

	switch {
	case *flagSweep != "":
		if *flagWatch {
			klog.Exitf("--watch and --sweep cannot be used together")
		}
		runSweep()
	case *flagNumMatches > 0:
		if *flagWatch {
			klog.Exitf("--watch and --matches cannot be used together")
		}
		runArena()
	default:
		runWatch()
	}
}

// isTerminal returns whether the standard output is a terminal, in which case colors are used.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runWatch plays one match between --config and --config2, printing the moves.
func runWatch() {
	const matchName = "The Match"
	var aiPlayers [2]players.Player
	for ii, config := range [2]string{*flagAIConfig, *flagAIConfig2} {
		playerNum := PlayerNum(ii + 1)
		aiPlayers[ii] = must.M1(players.New(0, matchName, playerNum, config))
		fmt.Printf("Player %s: %s\n", playerNum, aiPlayers[ii])
	}
	defer func() {
		for _, p := range aiPlayers {
			p.Finalize()
		}
	}()
	fmt.Println()

	ui := cli.New(isTerminal(), false)
	board := NewBoard()
	for !board.IsFinished() {
		if globalCtx.Err() != nil {
			fmt.Printf("Interrupted: %s\n", globalCtx.Err())
			return
		}
		player := aiPlayers[board.NextPlayer-PlayerOne]
		var s *spinning.Spinning
		if !*flagQuiet {
			ui.PrintPlayer(board)
			s = spinning.New(globalCtx)
		}
		column, nextBoard, score, err := player.Play(board)
		if s != nil {
			s.Done()
			fmt.Println()
		}
		if err != nil {
			klog.Exitf("Failed to play match: %+v", err)
		}
		if *flagQuiet {
			fmt.Printf("Move #%d: %s plays column %d (score %.3f)\n",
				board.MoveNumber+1, ui.PlayerName(board.NextPlayer), column+1, score)
		} else {
			ui.PrintMove(matchName, board, column, score, nextBoard)
		}
		board = nextBoard
	}
	if *flagQuiet {
		ui.PrintBoard(board)
	}
	ui.PrintWinner(board)
}

// newArena returns the arena configured by the flags.
func newArena() match.Arena {
	arena := match.Arena{
		Configs:     [2]string{*flagAIConfig, *flagAIConfig2},
		NumMatches:  *flagNumMatches,
		Parallelism: *flagParallelism,
	}
	if !*flagQuiet {
		arena.OnResult = func(_ match.Result, tally match.Tally) {
			fmt.Printf("\r%s\033[0K", tally)
		}
	}
	return arena
}

// runArena plays --matches matches between --config and --config2.
func runArena() {
	arena := newArena()
	fmt.Printf("AI-1: %s\nAI-2: %s\n", arena.Configs[0], arena.Configs[1])
	tally, err := arena.Run(globalCtx)
	fmt.Printf("\r%s\033[0K\n", tally)
	if err != nil {
		if globalCtx.Err() != nil {
			fmt.Printf("Interrupted: %s\n", globalCtx.Err())
			return
		}
		klog.Exitf("Arena failed: %+v", err)
	}
}

// runSweep plays an arena for every ordered pair of the --sweep exploration constants.
func runSweep() {
	if *flagNumMatches <= 0 {
		klog.Exitf("--sweep requires --matches > 0")
	}
	constants := must.M1(match.ParseConstants(*flagSweep))
	arena := newArena()
	results, err := match.Sweep(globalCtx, *flagAIConfig, constants, arena)
	fmt.Println()
	fmt.Printf("%8s %8s %8s %8s %8s\n", "c1", "c2", "wins1", "wins2", "draws")
	for _, r := range results {
		fmt.Printf("%8g %8g %8d %8d %8d\n", r.C1, r.C2, r.Tally.Wins(0), r.Tally.Wins(1), r.Tally.NumDraws())
	}
	if err != nil {
		if globalCtx.Err() != nil {
			fmt.Printf("Interrupted: %s\n", globalCtx.Err())
			return
		}
		klog.Exitf("Sweep failed: %+v", err)
	}
}
