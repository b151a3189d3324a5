package dtree

import (
	"fmt"

	"github.com/janpfeifer/must"
)

// CenterFirst is a small built-in tree: it plays the column of the last move when it is one of
// the three central ones and still open, otherwise the first open central column, from the
// middle outwards. Once the central columns are full it predicts column 0, which may be
// illegal and is then left to the caller's fallback.
var CenterFirst = must.M1(New(
	answerLast(3, answerLast(2, answerLast(4,
		firstLegal(3, 2, 4)))),
))

// answerLast returns a split that plays col when it was the last move and it is still legal,
// and follows otherwise in any other case.
func answerLast(col int, otherwise *Node) *Node {
	return NewSplit(columnFeature("last_c", col), otherwise,
		NewSplit(columnFeature("legal_c", col), otherwise, NewLeaf(col)))
}

// firstLegal returns a chain of splits that plays the first legal column in cols.
func firstLegal(cols ...int) *Node {
	if len(cols) == 0 {
		return NewLeaf(0)
	}
	return NewSplit(columnFeature("legal_c", cols[0]), firstLegal(cols[1:]...), NewLeaf(cols[0]))
}

func columnFeature(prefix string, col int) string {
	return fmt.Sprintf("%s%d", prefix, col)
}
