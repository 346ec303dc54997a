package creator

import (
	"math/rand"

	"github.com/evoreth/symreg/internal/dataset"
	"github.com/evoreth/symreg/internal/grammar"
	"github.com/evoreth/symreg/internal/tree"
)

// Grow is the depth-first expansion creator. Every slot is sampled with
// arity bounds derived from its depth alone: functions are forced below
// minDepth, leaves are forced at maxDepth, and in between the weighted
// grammar draw decides, which biases shapes toward leaves as the remaining
// depth shrinks. Grow promises a depth inside [minDepth, maxDepth] but no
// particular length; the resulting shapes are irregular.
type Grow struct {
	base
}

// NewGrow creates a Grow creator over the given grammar snapshot and
// dataset variables.
func NewGrow(pset *grammar.PrimitiveSet, variables []dataset.Variable) *Grow {
	return &Grow{base{pset: pset, variables: variables}}
}

// Create synthesizes a tree. targetLength is validated but otherwise
// unused: Grow makes no length promise.
func (c *Grow) Create(r *rand.Rand, targetLength, minDepth, maxDepth int) (tree.Tree, error) {
	if err := c.validate(targetLength); err != nil {
		return tree.Tree{}, err
	}
	if minDepth < 1 {
		minDepth = 1
	}
	if maxDepth < minDepth {
		maxDepth = minDepth
	}
	minFA, maxFA := c.pset.FunctionArityLimits()

	minArity, maxArity := growBounds(1, minDepth, maxDepth, minFA, maxFA)
	root, err := c.pset.SampleSymbol(r, minArity, maxArity)
	if err != nil {
		return tree.Tree{}, err
	}
	c.initLeaf(r, &root)
	if root.IsLeaf() {
		return singleton(root), nil
	}

	entries := make([]entry, 0, 16)
	entries = append(entries, entry{node: root, depth: 1})

	// Depth-first on paper; since each slot's bounds depend on its depth
	// only, worklist order does not change the sampling distribution and a
	// simple forward scan suffices.
	for i := 0; i < len(entries); i++ {
		node := entries[i].node
		childDepth := entries[i].depth + 1
		entries[i].childIndex = len(entries)
		for j := uint16(0); j < node.Arity; j++ {
			minArity, maxArity = growBounds(childDepth, minDepth, maxDepth, minFA, maxFA)
			child, err := c.pset.SampleSymbol(r, minArity, maxArity)
			if err != nil {
				return tree.Tree{}, err
			}
			c.initLeaf(r, &child)
			entries = append(entries, entry{node: child, depth: childDepth})
		}
	}

	t := tree.New(emitPostfix(entries))
	t.UpdateNodes()
	return t, nil
}

// growBounds narrows the sampling arity range for a slot at the given
// depth. The upper bound shrinks with the remaining depth budget (never
// below the grammar's minimum function arity while functions are still
// allowed), and reaches zero exactly at maxDepth.
func growBounds(depth, minDepth, maxDepth, minFA, maxFA int) (int, int) {
	if depth >= maxDepth {
		return 0, 0
	}
	budget := maxDepth - depth
	maxArity := min(maxFA, max(minFA, budget))
	minArity := 0
	if depth < minDepth {
		minArity = minFA
	}
	return min(minArity, maxArity), maxArity
}
