package mcts

import (
	"math"
	"math/rand/v2"

	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/connectGo/internal/state"
	"k8s.io/klog/v2"
)

// nodeIdx is the index of a node in tree.nodes.
type nodeIdx int32

// noNode is used for the parent of the root, and when there is no node to return.
const noNode nodeIdx = -1

// node of the search tree.
type node struct {
	// board owned by the node: it is never changed after the node is created.
	board *Board

	parent nodeIdx

	// move is the column played on the parent's board to reach this node.
	move int8

	// childMoves[i] is the column leading to children[i], in the order they were expanded.
	childMoves []int8
	children   []nodeIdx

	// untried are the legal moves of board not yet expanded.
	untried []int8

	visits int

	// wins accumulates the results of the rollouts that went through the node, from the point of
	// view of the searching player.
	wins float64
}

// tree holds all nodes of one search. Nodes are only appended, never removed.
type tree struct {
	nodes []node

	// c is the exploration constant of UCT.
	c float64

	// alpha is the exponent of the progressive widening.
	alpha float64
}

func newTree(board *Board, c, alpha float64) *tree {
	t := &tree{
		nodes: make([]node, 0, 1024),
		c:     c,
		alpha: alpha,
	}
	t.newNode(board, noNode, NoColumn)
	return t
}

// newNode appends a node owning board, and returns its index.
func (t *tree) newNode(board *Board, parent nodeIdx, move int) nodeIdx {
	untried := make([]int8, board.NumLegalMoves())
	for ii := range untried {
		untried[ii] = int8(board.LegalMove(ii))
	}
	t.nodes = append(t.nodes, node{
		board:   board,
		parent:  parent,
		move:    int8(move),
		untried: untried,
	})
	return nodeIdx(len(t.nodes) - 1)
}

// root of the tree.
func (t *tree) root() *node {
	return &t.nodes[0]
}

// score returns the UCT score of the node idx, which must not be the root and must have been visited.
func (t *tree) score(idx nodeIdx) float64 {
	n := &t.nodes[idx]
	if n.parent == noNode {
		exceptions.Panicf("mcts: UCT score requested for the root node")
	}
	parentVisits := t.nodes[n.parent].visits
	if n.visits == 0 || parentVisits == 0 {
		exceptions.Panicf("mcts: UCT score of node %d undefined with visits=%d, parent visits=%d", idx, n.visits, parentVisits)
	}
	visits := float64(n.visits)
	return n.wins/visits + t.c*math.Sqrt(math.Log(float64(parentVisits))/visits)
}

// selectBestChild returns the child of idx with the highest UCT score, the first one expanded
// in case of ties. It returns noNode if idx has no children.
func (t *tree) selectBestChild(idx nodeIdx) nodeIdx {
	best := noNode
	bestScore := math.Inf(-1)
	for _, childIdx := range t.nodes[idx].children {
		score := t.score(childIdx)
		if best == noNode || score > bestScore {
			best, bestScore = childIdx, score
		}
	}
	return best
}

// isWideningEligible returns whether idx can grow one more child: it must have untried moves
// and fewer children than ceil(visits^alpha).
func (t *tree) isWideningEligible(idx nodeIdx) bool {
	n := &t.nodes[idx]
	if len(n.untried) == 0 {
		return false
	}
	maxChildren := math.Ceil(math.Pow(float64(n.visits), t.alpha))
	return float64(len(n.children)) < maxChildren
}

// expand turns one untried move of idx into a new child, and returns the child index.
//
// With heuristic set, it first takes a move that makes searchingPlayer win, then a move that
// makes its opponent win, and only then falls back to a uniformly random untried move.
// Without it, the move is always uniformly random.
//
// It panics if idx has no untried moves.
func (t *tree) expand(idx nodeIdx, searchingPlayer PlayerNum, heuristic bool, rng *rand.Rand) nodeIdx {
	n := &t.nodes[idx]
	if len(n.untried) == 0 {
		exceptions.Panicf("mcts: expand called on node %d without untried moves", idx)
	}

	moveIdx := -1
	var childBoard *Board
	if heuristic {
		moveIdx, childBoard = t.findUntriedWinFor(idx, searchingPlayer)
		if moveIdx < 0 {
			moveIdx, childBoard = t.findUntriedWinFor(idx, searchingPlayer.Opponent())
		}
	}
	if moveIdx < 0 {
		moveIdx = rng.IntN(len(n.untried))
	}
	move := int(n.untried[moveIdx])
	if childBoard == nil {
		var err error
		childBoard, err = n.board.Act(move)
		if err != nil {
			klog.Fatalf("mcts: untried move %d of node %d is not legal: %+v\nBoard:\n%s", move, idx, err, n.board)
		}
	}
	n.untried = append(n.untried[:moveIdx], n.untried[moveIdx+1:]...)

	// newNode may grow t.nodes, so n can't be used after it.
	childIdx := t.newNode(childBoard, idx, move)
	n = &t.nodes[idx]
	n.childMoves = append(n.childMoves, int8(move))
	n.children = append(n.children, childIdx)
	return childIdx
}

// findUntriedWinFor returns the index in untried of the first move of idx whose resulting board
// is won by player, along with that board. It returns -1 if there is none.
func (t *tree) findUntriedWinFor(idx nodeIdx, player PlayerNum) (int, *Board) {
	n := &t.nodes[idx]
	want := WinOf(player)
	for ii, move := range n.untried {
		b, err := n.board.Act(int(move))
		if err != nil {
			continue
		}
		if b.Outcome() == want {
			return ii, b
		}
	}
	return -1, nil
}

// backpropagate adds result and one visit to idx and all its ancestors.
func (t *tree) backpropagate(idx nodeIdx, result float64) {
	for idx != noNode {
		n := &t.nodes[idx]
		n.wins += result
		n.visits++
		idx = n.parent
	}
}

// mostVisitedChild of idx: the one with the most visits, the first expanded in case of ties.
// It returns noNode if idx has no children.
func (t *tree) mostVisitedChild(idx nodeIdx) nodeIdx {
	best, bestVisits := noNode, -1
	for _, childIdx := range t.nodes[idx].children {
		if visits := t.nodes[childIdx].visits; visits > bestVisits {
			best, bestVisits = childIdx, visits
		}
	}
	return best
}
