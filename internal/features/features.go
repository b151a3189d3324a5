// Package features extracts the fixed-layout feature vector of a board, consumed by move predictors.
//
// The layout is part of the contract with externally trained models and must not change:
//
//   - p0_r{r}c{c}: 1 if PlayerOne has a piece at display row r (0 is the bottom row) and column c.
//   - p1_r{r}c{c}: same for PlayerTwo.
//   - last_c{c}: one-hot encoding of the column of the last move (all 0 on an empty board).
//   - legal_c{c}: 1 if column c accepts a piece.
//   - player: 0 if PlayerOne is to move, 1 otherwise.
package features

import (
	"fmt"

	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/connectGo/internal/state"
)

// GroupId enumerates the groups of features, in the order they appear in the vector.
type GroupId uint8

const (
	IdPlayerOnePieces GroupId = iota
	IdPlayerTwoPieces
	IdLastMove
	IdLegal
	IdPlayer

	// IdNumGroups must always be the last enum.
	IdNumGroups
)

// GroupSetter writes the values of a group into f, which is already sliced to the group
// dimension and zeroed.
type GroupSetter func(b *Board, f []float32)

// GroupSpec describes one group of features: its name, dimension and where it starts in the vector.
type GroupSpec struct {
	Id   GroupId
	Name string
	Dim  int

	// VecIndex refers to the index in the concatenated feature vector.
	VecIndex int
	Setter   GroupSetter

	// keyFn returns the name of the ii-th feature of the group.
	keyFn func(ii int) string
}

var (
	// GroupSpecs enumerates in order the groups of features. VecIndex is set during the
	// package initialization.
	GroupSpecs = [IdNumGroups]GroupSpec{
		{Id: IdPlayerOnePieces, Name: "p0", Dim: NumCells, Setter: piecesSetter(PlayerOne), keyFn: cellKey("p0")},
		{Id: IdPlayerTwoPieces, Name: "p1", Dim: NumCells, Setter: piecesSetter(PlayerTwo), keyFn: cellKey("p1")},
		{Id: IdLastMove, Name: "last", Dim: NumColumns, Setter: fLastMove, keyFn: columnKey("last")},
		{Id: IdLegal, Name: "legal", Dim: NumColumns, Setter: fLegal, keyFn: columnKey("legal")},
		{Id: IdPlayer, Name: "player", Dim: 1, Setter: fPlayer, keyFn: func(int) string { return "player" }},
	}

	// Dim is the total dimension of the feature vector.
	Dim int

	// Names of each feature, in vector order.
	Names []string

	nameToIndex map[string]int
)

func init() {
	Dim = 0
	for ii := range GroupSpecs {
		GroupSpecs[ii].VecIndex = Dim
		Dim += GroupSpecs[ii].Dim
	}
	Names = make([]string, 0, Dim)
	nameToIndex = make(map[string]int, Dim)
	for _, spec := range GroupSpecs {
		for ii := range spec.Dim {
			name := spec.keyFn(ii)
			nameToIndex[name] = len(Names)
			Names = append(Names, name)
		}
	}
}

// cellKey for the feature index ii = displayRow*NumColumns + col.
func cellKey(prefix string) func(ii int) string {
	return func(ii int) string {
		return fmt.Sprintf("%s_r%dc%d", prefix, ii/NumColumns, ii%NumColumns)
	}
}

func columnKey(prefix string) func(ii int) string {
	return func(ii int) string {
		return fmt.Sprintf("%s_c%d", prefix, ii)
	}
}

// Index returns the position of the named feature in the vector.
func Index(name string) (idx int, found bool) {
	idx, found = nameToIndex[name]
	return
}

// Vector of features of a board, in the order given by Names.
type Vector []float32

// FromBoard returns a newly allocated feature vector for the board.
func FromBoard(b *Board) Vector {
	vec := make(Vector, Dim)
	Fill(b, vec)
	return vec
}

// Fill writes the features of the board into vec, reusing its storage.
// It panics if len(vec) != Dim.
func Fill(b *Board, vec Vector) {
	if len(vec) != Dim {
		exceptions.Panicf("features.Fill: vector has dimension %d, wanted %d", len(vec), Dim)
	}
	clear(vec)
	for _, spec := range GroupSpecs {
		spec.Setter(b, vec[spec.VecIndex:spec.VecIndex+spec.Dim])
	}
}

// Get returns the value of the named feature. It panics on unknown names.
func (v Vector) Get(name string) float32 {
	idx, found := nameToIndex[name]
	if !found {
		exceptions.Panicf("unknown feature %q", name)
	}
	return v[idx]
}

// AsMap returns the features as a map from their name to their 0/1 value.
func (v Vector) AsMap() map[string]int {
	m := make(map[string]int, len(v))
	for ii, value := range v {
		m[Names[ii]] = int(value)
	}
	return m
}

func piecesSetter(player PlayerNum) GroupSetter {
	return func(b *Board, f []float32) {
		for displayRow := range NumRows {
			row := NumRows - 1 - displayRow
			for col := range NumColumns {
				if b.PieceAt(row, col) == player {
					f[displayRow*NumColumns+col] = 1
				}
			}
		}
	}
}

func fLastMove(b *Board, f []float32) {
	if last := b.LastMove(); last.Col >= 0 {
		f[last.Col] = 1
	}
}

// fLegal only considers whether the column is full: on a finished board the columns with free
// cells are still marked as legal.
func fLegal(b *Board, f []float32) {
	for col := range NumColumns {
		if b.Height(col) >= 0 {
			f[col] = 1
		}
	}
}

func fPlayer(b *Board, f []float32) {
	if b.NextPlayer == PlayerTwo {
		f[0] = 1
	}
}
