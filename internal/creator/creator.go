// Package creator implements the three stochastic tree synthesis
// algorithms: depth-first Grow, the balanced tree creator (BTC) and the
// probabilistic tree creator (PTC2).
//
// All creators share the same contract: Create draws symbols from a
// grammar.PrimitiveSet snapshot and a deterministic random stream and
// returns a valid post-order tree. targetLength is a desired node count
// and minDepth/maxDepth bound the resulting depth; how strictly each is
// honored differs per algorithm (Grow guarantees depth only, BTC and PTC2
// converge on the length target when grammar granularity allows).
//
// A Create call is a pure function of its inputs: no creator retains state
// across calls, so populations can be generated concurrently from
// independent random streams against one shared primitive set.
package creator

import (
	"errors"
	"math/rand"

	"github.com/evoreth/symreg/internal/dataset"
	"github.com/evoreth/symreg/internal/grammar"
	"github.com/evoreth/symreg/internal/tree"
)

// Creator synthesizes a tree for a size/depth target.
type Creator interface {
	Create(r *rand.Rand, targetLength, minDepth, maxDepth int) (tree.Tree, error)
}

var (
	// ErrTargetLength is returned for a non-positive target length, a
	// caller contract violation.
	ErrTargetLength = errors.New("creator: target length must be positive")

	// ErrNoVariables is returned when the grammar enables variable leaves
	// but no dataset variables were supplied.
	ErrNoVariables = errors.New("creator: variable symbol enabled but no variables supplied")
)

// base carries the collaborators every creator shares.
type base struct {
	pset      *grammar.PrimitiveSet
	variables []dataset.Variable
}

func (b *base) validate(targetLength int) error {
	if targetLength <= 0 {
		return ErrTargetLength
	}
	if b.pset.IsEnabled(tree.Variable) && len(b.variables) == 0 {
		return ErrNoVariables
	}
	return nil
}

// initLeaf assigns the leaf payload: variable leaves get a uniformly drawn
// dataset column (identified by its hash), and every leaf receives a fresh
// N(0,1) coefficient. Identical across all creators.
func (b *base) initLeaf(r *rand.Rand, n *tree.Node) {
	if !n.IsLeaf() {
		return
	}
	if n.IsVariable() {
		v := b.variables[r.Intn(len(b.variables))]
		n.HashValue = v.Hash
		n.CalculatedHashValue = v.Hash
	}
	n.Value = r.NormFloat64()
}

// adjustLength raises a target that cannot be met: any length above one
// but below minFunctionArity+1 is unreachable, because the smallest
// non-trivial tree is a single function with its mandatory leaves.
func adjustLength(targetLength, minFunctionArity int) int {
	if targetLength > 1 && targetLength < minFunctionArity+1 {
		return minFunctionArity + 1
	}
	return targetLength
}

// singleton wraps one leaf node as a complete tree.
func singleton(root tree.Node) tree.Tree {
	t := tree.New([]tree.Node{root})
	t.UpdateNodes()
	return t
}

// entry is one committed node in a creator worklist, with the depth it
// was generated at and the worklist index of its first child.
type entry struct {
	node       tree.Node
	depth      int
	childIndex int
}

// emitPostfix writes the worklist out as a post-order node sequence. The
// sequence is filled from the back: each node lands directly after (in
// emission order: before) its descendants, with the first child's subtree
// nearest the parent. The traversal uses an explicit stack, so emission
// cost is O(n) regardless of tree depth.
func emitPostfix(entries []entry) []tree.Node {
	postfix := make([]tree.Node, len(entries))
	idx := len(entries)
	stack := make([]int, 0, len(entries))
	stack = append(stack, 0)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		e := &entries[i]
		idx--
		postfix[idx] = e.node
		for j := int(e.node.Arity) - 1; j >= 0; j-- {
			stack = append(stack, e.childIndex+j)
		}
	}
	return postfix
}
