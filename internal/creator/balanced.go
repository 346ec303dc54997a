package creator

import (
	"math/rand"

	"github.com/evoreth/symreg/internal/dataset"
	"github.com/evoreth/symreg/internal/grammar"
	"github.com/evoreth/symreg/internal/random"
	"github.com/evoreth/symreg/internal/tree"
)

// Balanced is the balanced tree creator (BTC): a single breadth-first pass
// over a worklist of open slots. Each slot's feasible maximum arity is
// derived from the remaining node budget, so the total node count
// converges exactly on targetLength whenever the grammar's arity
// granularity allows it. A per-slot Bernoulli draw (the irregularity bias)
// can force a leaf even when the budget would allow a function, breaking
// up perfectly uniform shapes; the draw only triggers while more than one
// open slot remains, so a legal completion always exists.
type Balanced struct {
	base
	irregularityBias float64
}

// NewBalanced creates a BTC creator. bias is the per-slot probability of
// forcing a leaf; 0 yields maximally filled trees.
func NewBalanced(pset *grammar.PrimitiveSet, variables []dataset.Variable, bias float64) *Balanced {
	return &Balanced{base{pset: pset, variables: variables}, bias}
}

// Create synthesizes a tree of (close to) targetLength nodes.
func (c *Balanced) Create(r *rand.Rand, targetLength, minDepth, maxDepth int) (tree.Tree, error) {
	if err := c.validate(targetLength); err != nil {
		return tree.Tree{}, err
	}
	if maxDepth < 1 {
		maxDepth = 1
	}
	minFA, maxFA := c.pset.FunctionArityLimits()
	targetLength = adjustLength(targetLength, minFA)

	maxArity := min(maxFA, targetLength-1)
	if maxDepth == 1 {
		maxArity = 0
	}
	minArity := min(minFA, maxArity)

	root, err := c.pset.SampleSymbol(r, minArity, maxArity)
	if err != nil {
		return tree.Tree{}, err
	}
	c.initLeaf(r, &root)
	if root.IsLeaf() {
		return singleton(root), nil
	}

	entries := make([]entry, 0, targetLength)
	entries = append(entries, entry{node: root, depth: 1})
	openSlots := int(root.Arity)

	for i := 0; i < len(entries); i++ {
		node := entries[i].node
		childDepth := entries[i].depth + 1
		entries[i].childIndex = len(entries)
		for j := uint16(0); j < node.Arity; j++ {
			if openSlots-len(entries) > 1 && random.Bernoulli(r, c.irregularityBias) {
				maxArity = 0
			} else {
				maxArity = min(maxFA, targetLength-openSlots-1)
			}
			if childDepth >= maxDepth {
				maxArity = 0
			}
			// Fall back to a leaf when the feasible arity cannot be met
			// with the current primitive set.
			if maxArity < minFA {
				minArity, maxArity = 0, 0
			} else {
				minArity = min(minFA, maxArity)
			}

			child, err := c.pset.SampleSymbol(r, minArity, maxArity)
			if err != nil {
				return tree.Tree{}, err
			}
			c.initLeaf(r, &child)
			entries = append(entries, entry{node: child, depth: childDepth})
			openSlots += int(child.Arity)
		}
	}

	t := tree.New(emitPostfix(entries))
	t.UpdateNodes()
	return t, nil
}
