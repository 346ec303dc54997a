package tree

// ConstantLeaf returns a single-node tree holding a numeric constant.
func ConstantLeaf(v float64) Tree {
	n := NewNode(Constant)
	n.Value = v
	t := New([]Node{n})
	t.UpdateNodes()
	return t
}

// VariableLeaf returns a single-node tree referencing a dataset column by
// its identity hash, scaled by weight.
func VariableLeaf(hash uint64, weight float64) Tree {
	n := NewNode(Variable)
	n.HashValue = hash
	n.CalculatedHashValue = hash
	n.Value = weight
	t := New([]Node{n})
	t.UpdateNodes()
	return t
}

// Function composes child trees under a function node. Children are given
// in argument order and laid out with the first argument's subtree nearest
// the parent, matching the creators' emission layout. The node's arity is
// the number of children, which permits n-ary commutative nodes.
func Function(s Symbol, children ...Tree) Tree {
	size := 1
	for i := range children {
		size += children[i].Len()
	}
	nodes := make([]Node, 0, size)
	for i := len(children) - 1; i >= 0; i-- {
		nodes = append(nodes, children[i].Nodes...)
	}
	n := NewNode(s)
	n.Arity = uint16(len(children))
	nodes = append(nodes, n)

	t := New(nodes)
	t.UpdateNodes()
	return t
}
