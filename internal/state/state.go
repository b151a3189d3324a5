// Package state holds the Connect Four board: the grid, the per-column heights, who plays next
// and whether the match is over.
package state

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

const (
	// NumRows of the grid. Row 0 is the top row, pieces fall towards row NumRows-1.
	NumRows = 6

	// NumColumns of the grid.
	NumColumns = 7

	// NumCells is the capacity of the grid, and the max number of moves in a match.
	NumCells = NumRows * NumColumns

	// ConnectLength is the number of aligned pieces needed to win.
	ConnectLength = 4

	// NoColumn is returned where a column is expected, but none is available.
	NoColumn = -1
)

// PlayerNum identifies the owner of a piece, or the player to move.
// The zero value PlayerNone is used for empty cells.
type PlayerNum uint8

const (
	PlayerNone PlayerNum = iota
	PlayerOne
	PlayerTwo
)

//go:generate go tool enumer -type=PlayerNum -trimprefix=Player -values -text -json -yaml state.go

// Opponent returns the other player. PlayerNone has no opponent and is returned as is.
func (p PlayerNum) Opponent() PlayerNum {
	switch p {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return PlayerNone
}

// Outcome of a match. The values match the ones of the owner of the winning line.
type Outcome int8

const (
	// OutcomeUnset means the match is still going on.
	OutcomeUnset Outcome = -1
	OutcomeDraw  Outcome = 0
	OutcomeOne   Outcome = Outcome(PlayerOne)
	OutcomeTwo   Outcome = Outcome(PlayerTwo)
)

//go:generate go tool enumer -type=Outcome -trimprefix=Outcome -values -text -json -yaml state.go

// WinOf returns the Outcome of player winning.
func WinOf(player PlayerNum) Outcome {
	return Outcome(player)
}

// Winner returns the winning player, or PlayerNone for a draw or unfinished match.
func (o Outcome) Winner() PlayerNum {
	if o == OutcomeOne || o == OutcomeTwo {
		return PlayerNum(o)
	}
	return PlayerNone
}

// ErrIllegalMove is returned (wrapped) when trying to play a column that doesn't accept a piece.
var ErrIllegalMove = errors.New("illegal move")

// Pos is a (row, column) position in the grid.
type Pos struct {
	Row, Col int8
}

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos.Row, pos.Col)
}

// Valid returns whether the position is within the grid.
func (pos Pos) Valid() bool {
	return pos.Row >= 0 && pos.Row < NumRows && pos.Col >= 0 && pos.Col < NumColumns
}

// Board is the full state of a match. It is a fixed-size value with no pointers inside, so
// copying it (see Clone) is cheap and copies never share anything.
type Board struct {
	grid [NumRows][NumColumns]PlayerNum

	// heights holds the row where the next piece of each column lands, -1 when the column is full.
	heights [NumColumns]int8

	// possibleMoves[:numPossible] are the columns not yet full, in ascending order.
	possibleMoves [NumColumns]int8
	numPossible   int8

	outcome  Outcome
	lastMove Pos

	// NextPlayer is the player to move.
	NextPlayer PlayerNum

	// MoveNumber is the number of moves played so far.
	MoveNumber int
}

// NewBoard creates an empty board, with PlayerOne to move.
func NewBoard() *Board {
	b := &Board{
		numPossible: NumColumns,
		outcome:     OutcomeUnset,
		lastMove:    Pos{-1, -1},
		NextPlayer:  PlayerOne,
	}
	for col := range NumColumns {
		b.heights[col] = NumRows - 1
		b.possibleMoves[col] = int8(col)
	}
	return b
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	newB := &Board{}
	*newB = *b
	return newB
}

// OpponentPlayer returns the player that is not the next one to play.
func (b *Board) OpponentPlayer() PlayerNum {
	return b.NextPlayer.Opponent()
}

// PieceAt returns the owner of the piece at the given position, PlayerNone if empty.
func (b *Board) PieceAt(row, col int) PlayerNum {
	return b.grid[row][col]
}

// Height returns the row where the next piece on col would land, or -1 if the column is full.
func (b *Board) Height(col int) int {
	return int(b.heights[col])
}

// LastMove returns the position of the last piece played, or (-1, -1) if no piece was played yet.
func (b *Board) LastMove() Pos {
	return b.lastMove
}

// Outcome of the match so far: OutcomeUnset while it is not finished.
func (b *Board) Outcome() Outcome {
	return b.outcome
}

// IsFinished returns whether the match is over, with a winner or a draw.
func (b *Board) IsFinished() bool {
	return b.outcome != OutcomeUnset
}

// Draw returns whether the match finished without a winner.
func (b *Board) Draw() bool {
	return b.outcome == OutcomeDraw
}

// NumLegalMoves returns the number of columns that can be played.
func (b *Board) NumLegalMoves() int {
	if b.IsFinished() {
		return 0
	}
	return int(b.numPossible)
}

// LegalMoves returns a newly allocated slice with the columns that can be played, in ascending order.
// It is empty once the match is finished.
func (b *Board) LegalMoves() []int {
	moves := make([]int, b.NumLegalMoves())
	for ii := range moves {
		moves[ii] = int(b.possibleMoves[ii])
	}
	return moves
}

// LegalMove returns the i-th legal move, with 0 <= i < NumLegalMoves().
func (b *Board) LegalMove(i int) int {
	return int(b.possibleMoves[i])
}

// IsLegal returns whether a piece can be dropped in col.
func (b *Board) IsLegal(col int) bool {
	if col < 0 || col >= NumColumns || b.IsFinished() {
		return false
	}
	return b.heights[col] >= 0
}

// ApplyMove drops a piece of NextPlayer on col, updates the outcome and passes the turn.
//
// It returns an error wrapping ErrIllegalMove if col is out of range, full, or if the match
// is already finished. In that case the board is left untouched.
func (b *Board) ApplyMove(col int) error {
	if b.IsFinished() {
		return errors.Wrapf(ErrIllegalMove, "column %d: match is finished (%s)", col, b.outcome)
	}
	if col < 0 || col >= NumColumns {
		return errors.Wrapf(ErrIllegalMove, "column %d out of range [0, %d)", col, NumColumns)
	}
	row := b.heights[col]
	if row < 0 {
		return errors.Wrapf(ErrIllegalMove, "column %d is full", col)
	}
	b.grid[row][col] = b.NextPlayer
	b.heights[col] = row - 1
	if row == 0 {
		b.removePossibleMove(int8(col))
	}
	b.lastMove = Pos{row, int8(col)}
	b.MoveNumber++
	b.winDetectionAt(int(row), col)
	b.NextPlayer = b.NextPlayer.Opponent()
	return nil
}

// Act returns a new board with the move col applied. The current board is not changed.
func (b *Board) Act(col int) (*Board, error) {
	newB := b.Clone()
	if err := newB.ApplyMove(col); err != nil {
		return nil, err
	}
	return newB, nil
}

func (b *Board) removePossibleMove(col int8) {
	moves := b.possibleMoves[:b.numPossible]
	idx := slices.Index(moves, col)
	if idx < 0 {
		return
	}
	copy(moves[idx:], moves[idx+1:])
	b.numPossible--
}

// String renders the board as text, top row first: "X" for PlayerOne, "O" for PlayerTwo.
func (b *Board) String() string {
	var sb strings.Builder
	for row := range NumRows {
		for col := range NumColumns {
			sb.WriteString("| ")
			sb.WriteString(PieceSymbol(b.grid[row][col]))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+---+---+---+---+---+---+---+\n")
	sb.WriteString("  1   2   3   4   5   6   7\n")
	return sb.String()
}

// PieceSymbol returns the one-letter symbol used for the player's pieces.
func PieceSymbol(p PlayerNum) string {
	switch p {
	case PlayerOne:
		return "X"
	case PlayerTwo:
		return "O"
	}
	return "-"
}
