package tree

import "sort"

// Sort reorders the children of every commutative node into canonical order
// (primary key: symbol, secondary key: structural hash). ComputeHash should
// run first so that the secondary key is meaningful.
//
// When every child of a node is a leaf the child block can be permuted in
// place. Otherwise child subtrees have different sizes and cannot be swapped
// without clobbering live data, so the child indices are sorted and whole
// subtrees are copied through a scratch buffer in the new order.
//
// Sort is idempotent: a second application leaves the node sequence
// unchanged.
func (t *Tree) Sort() *Tree {
	nodes := t.Nodes
	var scratch []Node
	var children []int

	for i := range nodes {
		s := &nodes[i]
		if s.IsLeaf() || !s.IsCommutative() {
			continue
		}
		arity, size := int(s.Arity), int(s.Length)
		block := nodes[i-size : i]

		if arity == size {
			// All children are leaves of size one.
			sort.Slice(block, func(a, b int) bool { return block[a].Less(&block[b]) })
			continue
		}

		children = children[:0]
		for it := t.Children(i); it.HasNext(); {
			children = append(children, it.Next())
		}
		sort.Slice(children, func(a, b int) bool {
			return nodes[children[a]].Less(&nodes[children[b]])
		})

		scratch = scratch[:0]
		for _, j := range children {
			sub := int(nodes[j].Length)
			scratch = append(scratch, nodes[j-sub:j+1]...)
		}
		copy(block, scratch)
	}
	return t.UpdateNodes()
}
