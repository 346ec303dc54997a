package creator

import (
	"math/rand"
	"sort"

	"github.com/evoreth/symreg/internal/dataset"
	"github.com/evoreth/symreg/internal/grammar"
	"github.com/evoreth/symreg/internal/random"
	"github.com/evoreth/symreg/internal/tree"
)

// Probabilistic is the probabilistic tree creator (PTC2). It expands a
// queue of open slots like BTC, but the next slot to expand is chosen
// uniformly at random from the pending queue instead of in FIFO order,
// which avoids BTC's left-heavy shape bias. When the remaining budget
// cannot accommodate any function symbol (an infeasible gap between the
// feasible bound and the grammar's minimum function arity), the target
// length itself is shrunk by the gap and the bound recomputed; the budget
// decreases monotonically, so termination is structurally guaranteed.
type Probabilistic struct {
	base
	irregularityBias float64
}

// NewProbabilistic creates a PTC2 creator. bias is the per-slot
// probability of forcing a leaf.
func NewProbabilistic(pset *grammar.PrimitiveSet, variables []dataset.Variable, bias float64) *Probabilistic {
	return &Probabilistic{base{pset: pset, variables: variables}, bias}
}

// Create synthesizes a tree of at most (close to) targetLength nodes.
func (c *Probabilistic) Create(r *rand.Rand, targetLength, minDepth, maxDepth int) (tree.Tree, error) {
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

	// Node depths double as queue entries: the queue holds the depth at
	// which each pending slot will be filled.
	root.Depth = 1
	nodes := make([]tree.Node, 0, targetLength)
	nodes = append(nodes, root)

	q := make([]int, 0, targetLength)
	for i := uint16(0); i < root.Arity; i++ {
		q = append(q, 2)
	}

	// Random dequeue: swap a uniformly chosen entry to the front, pop it.
	dequeue := func() int {
		j := r.Intn(len(q))
		q[j], q[0] = q[0], q[j]
		d := q[0]
		q = q[1:]
		return d
	}

	for len(q) > 0 {
		childDepth := dequeue()

		if len(q) > 1 && random.Bernoulli(r, c.irregularityBias) {
			maxArity = 0
		} else {
			maxArity = min(maxFA, targetLength-len(q)-len(nodes)-1)
		}
		if childDepth >= maxDepth {
			maxArity = 0
		}
		// Certain lengths cannot be produced with the available symbols;
		// push the target toward an achievable value. Each round shrinks
		// targetLength by at least one, so the loop terminates.
		for maxArity > 0 && maxArity < minFA {
			targetLength -= minFA - maxArity
			maxArity = min(maxFA, targetLength-len(q)-len(nodes)-1)
		}
		if maxArity < 0 {
			maxArity = 0
		}
		minArity = min(minFA, maxArity)

		node, err := c.pset.SampleSymbol(r, minArity, maxArity)
		if err != nil {
			return tree.Tree{}, err
		}
		c.initLeaf(r, &node)
		node.Depth = uint16(childDepth)

		for i := uint16(0); i < node.Arity; i++ {
			q = append(q, childDepth+1)
		}
		nodes = append(nodes, node)
	}

	// Rebuild the topology from the recorded depths: parents at depth d
	// are assigned contiguous child blocks among the nodes at depth d+1.
	sort.SliceStable(nodes, func(a, b int) bool { return nodes[a].Depth < nodes[b].Depth })

	childIndices := make([]int, len(nodes))
	next := 1
	for i := range nodes {
		if nodes[i].IsLeaf() {
			continue
		}
		childIndices[i] = next
		next += int(nodes[i].Arity)
	}

	postfix := make([]tree.Node, len(nodes))
	idx := len(nodes)
	stack := make([]int, 0, len(nodes))
	stack = append(stack, 0)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		idx--
		postfix[idx] = nodes[i]
		if nodes[i].IsLeaf() {
			continue
		}
		for j := int(nodes[i].Arity) - 1; j >= 0; j-- {
			stack = append(stack, childIndices[i]+j)
		}
	}

	t := tree.New(postfix)
	t.UpdateNodes()
	return t, nil
}
