package tree

// Reduce merges nested occurrences of the same commutative, associative
// symbol: an addition whose child is itself an addition absorbs that child's
// operands as direct children. Matching children are tombstoned via the
// Enabled flag and the parent's arity grows by child.Arity-1; after the
// scan, disabled nodes are compacted out in order and the metadata is
// rederived.
//
// The scan runs in ascending node order, so inner occurrences merge before
// the parents that absorb them and one pass flattens arbitrarily deep
// nests. Reduce is idempotent.
func (t *Tree) Reduce() *Tree {
	reduced := false
	for i := range t.Nodes {
		s := &t.Nodes[i]
		if s.IsLeaf() || !s.IsCommutative() {
			continue
		}
		for it := t.Children(i); it.HasNext(); {
			c := &t.Nodes[it.Next()]
			if s.HashValue == c.HashValue {
				c.Enabled = false
				s.Arity += c.Arity - 1
				reduced = true
			}
		}
	}

	if reduced {
		keep := t.Nodes[:0]
		for _, n := range t.Nodes {
			if n.Enabled {
				keep = append(keep, n)
			}
		}
		t.Nodes = keep
	}
	return t.UpdateNodes()
}
