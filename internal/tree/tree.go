package tree

// Tree is an ordered sequence of nodes stored in strict post-order. The last
// node is always the root. The zero value is an empty tree.
type Tree struct {
	Nodes []Node
}

// New creates a tree that takes ownership of the given node slice. The slice
// must already be in post-order; call UpdateNodes to derive the structural
// metadata.
func New(nodes []Node) Tree {
	return Tree{Nodes: nodes}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.Nodes) }

// Root returns the root node. The tree must be non-empty.
func (t *Tree) Root() *Node { return &t.Nodes[len(t.Nodes)-1] }

// Depth returns the height of the tree (a single leaf has depth 1).
func (t *Tree) Depth() int { return int(t.Root().Depth) }

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() Tree {
	nodes := make([]Node, len(t.Nodes))
	copy(nodes, t.Nodes)
	return Tree{Nodes: nodes}
}

// VisitationLength returns the total size of all subtrees, a complexity
// measure that penalizes deep nesting.
func (t *Tree) VisitationLength() int {
	total := 0
	for i := range t.Nodes {
		total += int(t.Nodes[i].Length) + 1
	}
	return total
}

// Coefficients collects the numeric payload of every leaf, in node order.
// Together with SetCoefficients it forms the parameter vector view used by
// constant optimizers.
func (t *Tree) Coefficients() []float64 {
	var coeff []float64
	for i := range t.Nodes {
		if t.Nodes[i].IsLeaf() {
			coeff = append(coeff, t.Nodes[i].Value)
		}
	}
	return coeff
}

// SetCoefficients writes the given values back into the leaves, in node
// order. The slice must hold exactly one value per leaf.
func (t *Tree) SetCoefficients(coeff []float64) {
	idx := 0
	for i := range t.Nodes {
		if t.Nodes[i].IsLeaf() {
			t.Nodes[i].Value = coeff[idx]
			idx++
		}
	}
}

// UpdateNodes recomputes the derived metadata of every node in two linear
// passes. After the call the following invariants hold:
//
//  1. the children of a node at index i form a contiguous partition of the
//     Length slots preceding i;
//  2. Length[i] = Arity[i] + sum(Length[child]+1) over the children of i;
//  3. Depth[i] = 1 for leaves, 1 + max(Depth[child]) otherwise;
//  4. the last node is the root, with Level 1 and Length == Len()-1;
//  5. Level[child] = Level[parent] + 1 for every non-root node.
//
// The first pass walks forward; for each internal node it walks backward
// over the preceding slots, consuming one child subtree at a time, to
// accumulate length and depth and to record parent links. The second pass
// walks backward and assigns levels top-down from the parent links. No
// recursion is involved, so the call is safe for arbitrarily deep trees.
func (t *Tree) UpdateNodes() *Tree {
	nodes := t.Nodes
	for i := range nodes {
		s := &nodes[i]
		s.Depth = 1
		s.Length = s.Arity
		if s.IsLeaf() {
			continue
		}
		j := i - 1
		for k := uint16(0); k < s.Arity; k++ {
			c := &nodes[j]
			s.Length += c.Length
			if s.Depth < c.Depth {
				s.Depth = c.Depth
			}
			c.Parent = uint16(i)
			j -= int(c.Length) + 1
		}
		s.Depth++
	}
	nodes[len(nodes)-1].Level = 1
	for i := len(nodes) - 2; i >= 0; i-- {
		nodes[i].Level = nodes[nodes[i].Parent].Level + 1
	}
	return t
}

// ChildIndices returns the slice indices of the immediate children of the
// node at index i, in child order (first child first). Leaves yield nil.
func (t *Tree) ChildIndices(i int) []int {
	if t.Nodes[i].IsLeaf() {
		return nil
	}
	indices := make([]int, 0, t.Nodes[i].Arity)
	for it := t.Children(i); it.HasNext(); {
		indices = append(indices, it.Next())
	}
	return indices
}
