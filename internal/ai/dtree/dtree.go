// Package dtree implements a move predictor based on a binary decision tree over the 0/1 board
// features, as produced by ID3-like induction on recorded matches.
//
// Only prediction is implemented: trees are assembled with NewLeaf and NewSplit by whoever
// trained them.
package dtree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/janpfeifer/connectGo/internal/ai"
	"github.com/janpfeifer/connectGo/internal/features"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/pkg/errors"
)

// Node of the decision tree: either a leaf, with the column to predict, or a split on a feature.
type Node struct {
	// Leaf fields.
	leaf          bool
	column        int
	probabilities []float32

	// Split fields: zero is followed when the feature is 0, one otherwise.
	feature    string
	featureIdx int
	zero, one  *Node
}

// NewLeaf returns a leaf predicting column. Optionally, the probability of each column observed
// at the leaf can be given, which otherwise defaults to a one-hot on column.
func NewLeaf(column int, probabilities ...float32) *Node {
	if len(probabilities) == 0 {
		probabilities = make([]float32, NumColumns)
		if column >= 0 && column < NumColumns {
			probabilities[column] = 1
		}
	}
	return &Node{leaf: true, column: column, probabilities: probabilities}
}

// NewSplit returns a node that follows zero if the named feature is 0, and one otherwise.
func NewSplit(feature string, zero, one *Node) *Node {
	return &Node{feature: feature, zero: zero, one: one, featureIdx: -1}
}

// Predictor implements ai.ProbabilityPredictor with a decision tree.
type Predictor struct {
	root  *Node
	depth int
}

// Assert Predictor is an ai.ProbabilityPredictor.
var _ ai.ProbabilityPredictor = (*Predictor)(nil)

// New validates the tree rooted at root and returns a Predictor using it.
// It fails if any split uses an unknown feature or is missing a branch, or if a leaf has the
// wrong number of probabilities.
func New(root *Node) (*Predictor, error) {
	if root == nil {
		return nil, errors.New("decision tree has no root")
	}
	depth, err := root.resolve(0)
	if err != nil {
		return nil, err
	}
	return &Predictor{root: root, depth: depth}, nil
}

// resolve checks the sub-tree and caches the index of the split features. It returns the depth.
func (n *Node) resolve(depth int) (int, error) {
	if n.leaf {
		if len(n.probabilities) != NumColumns {
			return 0, errors.Errorf("leaf at depth %d has %d probabilities, wanted %d", depth, len(n.probabilities), NumColumns)
		}
		return depth, nil
	}
	idx, found := features.Index(n.feature)
	if !found {
		return 0, errors.Errorf("split at depth %d uses unknown feature %q", depth, n.feature)
	}
	if n.zero == nil || n.one == nil {
		return 0, errors.Errorf("split on %q at depth %d is missing a branch", n.feature, depth)
	}
	n.featureIdx = idx
	zeroDepth, err := n.zero.resolve(depth + 1)
	if err != nil {
		return 0, err
	}
	oneDepth, err := n.one.resolve(depth + 1)
	if err != nil {
		return 0, err
	}
	return max(zeroDepth, oneDepth), nil
}

// Depth of the tree: 0 for a tree with only a leaf.
func (p *Predictor) Depth() int {
	return p.depth
}

func (p *Predictor) findLeaf(vec features.Vector) *Node {
	node := p.root
	for !node.leaf {
		if vec[node.featureIdx] == 0 {
			node = node.zero
		} else {
			node = node.one
		}
	}
	return node
}

// PredictMove implements ai.MovePredictor.
func (p *Predictor) PredictMove(vec features.Vector) int {
	return p.findLeaf(vec).column
}

// PredictProbabilities implements ai.ProbabilityPredictor. The returned slice is owned by the caller.
func (p *Predictor) PredictProbabilities(vec features.Vector) []float32 {
	return slices.Clone(p.findLeaf(vec).probabilities)
}

// String implements ai.MovePredictor.
func (p *Predictor) String() string {
	return fmt.Sprintf("dtree(depth=%d)", p.depth)
}

// Print returns a multi-line drawing of the tree.
func (p *Predictor) Print() string {
	var sb strings.Builder
	p.root.print(&sb, "", true)
	return sb.String()
}

func (n *Node) print(sb *strings.Builder, prefix string, isLast bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	if n.leaf {
		fmt.Fprintf(sb, "%s%sLeaf: column => %d\n", prefix, connector, n.column)
		return
	}
	fmt.Fprintf(sb, "%s%s%s = 0\n", prefix, connector, n.feature)
	n.zero.print(sb, childPrefix, false)
	n.one.print(sb, childPrefix, true)
}
