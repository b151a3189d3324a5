// Package cli implements a command-line UI to follow matches between AI players.
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	. "github.com/janpfeifer/connectGo/internal/state"
	"golang.org/x/term"
)

// CharsPerColumn is the width of each column of the board drawing.
const CharsPerColumn = 3

func centerString(s string, fit int) string {
	if len(s) >= fit {
		return s
	}
	marginLeft := (fit - len(s)) / 2
	marginRight := fit - len(s) - marginLeft
	return strings.Repeat(" ", marginLeft) + s + strings.Repeat(" ", marginRight)
}

var (
	pieceStyles = [3]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	}
	lastMoveStyle = lipgloss.NewStyle().Underline(true)
	winningStyle  = lipgloss.NewStyle().Reverse(true)
	drawStyle     = lipgloss.NewStyle().
			Background(lipgloss.Color("13")).
			Foreground(lipgloss.Color("0")).
			Padding(1, 2)
)

// UI prints boards and match progress to a writer, usually the terminal.
type UI struct {
	out                io.Writer
	color, clearScreen bool

	// width of the terminal, 0 if not known.
	width int
}

// New creates a UI that prints to the standard output.
func New(color bool, clearScreen bool) *UI {
	return NewWithWriter(os.Stdout, color, clearScreen)
}

// NewWithWriter creates a UI that prints to w. Blocks are only centered if w is a terminal.
func NewWithWriter(w io.Writer, color bool, clearScreen bool) *UI {
	ui := &UI{out: w, color: color, clearScreen: clearScreen}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		ui.width, _, _ = term.GetSize(int(f.Fd()))
	}
	return ui
}

// printCentered prints the block of lines centered in the terminal.
func (ui *UI) printCentered(block string) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, lipgloss.Width(line))
	}
	indent := max((ui.width-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			_, _ = fmt.Fprintln(ui.out)
			continue
		}
		_, _ = fmt.Fprintf(ui.out, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// ClearScreen clears the terminal, if the UI was configured to do so.
func (ui *UI) ClearScreen() {
	if ui.clearScreen {
		_, _ = fmt.Fprint(ui.out, "\033[H\033[2J")
	}
}

// PlayerName returns the player name with its piece symbol, colored if the UI uses colors.
func (ui *UI) PlayerName(player PlayerNum) string {
	return ui.styledPlayerName(player, false)
}

func (ui *UI) styledPlayerName(player PlayerNum, upper bool) string {
	name := fmt.Sprintf("Player %s (%s)", player, PieceSymbol(player))
	if upper {
		name = strings.ToUpper(name)
	}
	if !ui.color {
		return name
	}
	return pieceStyles[player].Render(name)
}

// RenderBoard returns the drawing of the board, top row first, with the column numbers at the
// bottom.
//
// The last move is underlined and the winning line, if any, is shown in reverse video. Without
// colors, the last move is shown as "(X)" and the winning pieces as "[X]".
func (ui *UI) RenderBoard(board *Board) string {
	var winning [NumRows][NumColumns]bool
	for _, pos := range board.WinningLine() {
		winning[pos.Row][pos.Col] = true
	}
	lastMove := board.LastMove()

	var sb strings.Builder
	for row := range NumRows {
		sb.WriteString("|")
		for col := range NumColumns {
			isLast := lastMove == Pos{int8(row), int8(col)}
			sb.WriteString(ui.renderCell(board.PieceAt(row, col), isLast, winning[row][col]))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", CharsPerColumn*NumColumns) + "+\n")
	sb.WriteString(" ")
	for col := range NumColumns {
		sb.WriteString(centerString(strconv.Itoa(col+1), CharsPerColumn))
	}
	sb.WriteString(" \n")
	return sb.String()
}

func (ui *UI) renderCell(player PlayerNum, isLast, isWinning bool) string {
	symbol := PieceSymbol(player)
	if player == PlayerNone {
		symbol = "."
	}
	if !ui.color {
		switch {
		case isWinning:
			return "[" + symbol + "]"
		case isLast:
			return "(" + symbol + ")"
		}
		return " " + symbol + " "
	}
	style := pieceStyles[player]
	switch {
	case isWinning:
		style = style.Inherit(winningStyle)
	case isLast:
		style = style.Inherit(lastMoveStyle)
	}
	return " " + style.Render(symbol) + " "
}

// PrintBoard prints the board centered in the terminal.
func (ui *UI) PrintBoard(board *Board) {
	ui.printCentered(ui.RenderBoard(board))
}

// PrintPlayer prints the player to move.
func (ui *UI) PrintPlayer(board *Board) {
	_, _ = fmt.Fprintf(ui.out, "Move #%d: %s to play", board.MoveNumber+1, ui.PlayerName(board.NextPlayer))
}

// PrintMove prints the move played on board and the resulting board.
func (ui *UI) PrintMove(matchName string, board *Board, column int, score float32, nextBoard *Board) {
	ui.ClearScreen()
	_, _ = fmt.Fprintf(ui.out, "%s, move #%d: %s plays column %d (score %.3f)\n\n",
		matchName, board.MoveNumber+1, ui.PlayerName(board.NextPlayer), column+1, score)
	ui.PrintBoard(nextBoard)
	_, _ = fmt.Fprintln(ui.out)
}

// PrintWinner prints the result of a finished match.
func (ui *UI) PrintWinner(board *Board) {
	_, _ = fmt.Fprintln(ui.out)
	winner := board.Outcome().Winner()
	switch {
	case !board.IsFinished():
		ui.printCentered(fmt.Sprintf("*** Match not finished after %d moves ***", board.MoveNumber))
	case winner == PlayerNone:
		msg := fmt.Sprintf("*** DRAW after %d moves! ***", board.MoveNumber)
		if ui.color {
			msg = drawStyle.Render(msg)
		}
		ui.printCentered(msg)
	default:
		ui.printCentered(fmt.Sprintf("*** %s WINS in %d moves!! ***",
			ui.styledPlayerName(winner, true), board.MoveNumber))
	}
	_, _ = fmt.Fprintln(ui.out)
}
