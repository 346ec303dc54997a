package tree

// ChildIterator walks the immediate children of a node lazily, without any
// stored child pointers. It is finite and non-restartable: create a fresh
// iterator for every traversal.
//
// Children are located by the backward-walk rule: the first child subtree
// ends directly before the parent's slot, and each further child subtree
// ends directly before the previous one. Children are therefore yielded in
// argument order (first child first).
type ChildIterator struct {
	nodes []Node
	index int
	count uint16
	arity uint16
}

// Children returns an iterator over the immediate children of the node at
// index i. The node's metadata must be consistent (UpdateNodes has run, or
// the sequence satisfies the contiguity invariant). The iterator snapshots
// the node's arity, so it is safe to adjust the parent's arity while
// iterating, as Reduce does.
func (t *Tree) Children(i int) ChildIterator {
	return ChildIterator{
		nodes: t.Nodes,
		index: i - 1,
		arity: t.Nodes[i].Arity,
	}
}

// HasNext reports whether another child remains.
func (it *ChildIterator) HasNext() bool {
	return it.count < it.arity
}

// Next returns the slice index of the next child and advances the iterator.
// Calling Next after HasNext returned false is a caller bug.
func (it *ChildIterator) Next() int {
	i := it.index
	it.index -= int(it.nodes[i].Length) + 1
	it.count++
	return i
}
