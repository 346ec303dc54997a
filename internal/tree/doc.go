// Package tree implements the array-encoded expression tree that the rest of
// the engine is built on.
//
// A Tree stores its nodes as a flat slice in strict post-order: every node
// appears immediately after all of its descendants, and the children of a
// node with arity a occupy a contiguous block of a subtrees ending directly
// before the node's own slot. There are no pointers between nodes - parent
// and child relationships are derived integer offsets (the arena+index
// pattern).
//
// Each node carries derived structural metadata:
//   - Length: number of descendant nodes, excluding the node itself
//   - Depth:  height of the subtree rooted at the node (leaves have depth 1)
//   - Level:  distance from the tree root (the root has level 1)
//   - Parent: slice index of the owning node (undefined for the root)
//
// The metadata is recomputed by UpdateNodes after every structural edit.
// Structural operations (Sort, Reduce, ComputeHash) preserve the post-order
// layout invariants; see the invariants listed on UpdateNodes.
//
// Trees are not safe for concurrent mutation. A Tree exclusively owns its
// node slice; callers must not retain references into it across structural
// operations.
package tree
