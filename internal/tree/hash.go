package tree

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// HashFunction selects the hash family used for structural hashing. The
// choice is a per-call strategy; only consistency within one comparison
// context matters, not the particular bit pattern.
type HashFunction int

const (
	// HashXXHash uses 64-bit xxHash (the default).
	HashXXHash HashFunction = iota
	// HashFNV1a uses 64-bit FNV-1a from the standard library.
	HashFNV1a
)

// HashMode controls whether leaf numeric values participate in the hash.
type HashMode int

const (
	// HashStrict includes leaf coefficients, so two trees hash equal only
	// when their constants match bit for bit.
	HashStrict HashMode = iota
	// HashRelaxed ignores leaf coefficients: only the operator skeleton and
	// variable column identities matter. Used when deduplication should key
	// on symbol-and-shape rather than exact constants.
	HashRelaxed
)

// ComputeHash fills in CalculatedHashValue for every node, bottom-up. A
// node's hash combines its symbol identity with its children's hashes. For
// commutative symbols the child hashes are sorted before combining, so that
// structurally equivalent trees (the same multiset of operands) hash
// identically regardless of child order; non-commutative symbols combine
// order-sensitively.
func (t *Tree) ComputeHash(f HashFunction, m HashMode) *Tree {
	var buf []byte
	var childHashes []uint64
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			n.CalculatedHashValue = leafHash(f, m, n)
			continue
		}
		childHashes = childHashes[:0]
		for it := t.Children(i); it.HasNext(); {
			childHashes = append(childHashes, t.Nodes[it.Next()].CalculatedHashValue)
		}
		if n.IsCommutative() {
			sort.Slice(childHashes, func(a, b int) bool { return childHashes[a] < childHashes[b] })
		}
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, n.HashValue)
		for _, h := range childHashes {
			buf = binary.LittleEndian.AppendUint64(buf, h)
		}
		n.CalculatedHashValue = digest(f, buf)
	}
	return t
}

// HashValue returns the structural hash of the whole tree. ComputeHash must
// have run first.
func (t *Tree) HashValue() uint64 {
	return t.Root().CalculatedHashValue
}

// leafHash hashes a leaf node. HashValue already encodes the leaf's
// identity (the symbol hash, or the column hash for variables); strict mode
// additionally mixes in the numeric payload.
func leafHash(f HashFunction, m HashMode, n *Node) uint64 {
	if m == HashRelaxed {
		return n.HashValue
	}
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], n.HashValue)
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(n.Value))
	return digest(f, buf[:])
}

func digest(f HashFunction, b []byte) uint64 {
	switch f {
	case HashFNV1a:
		h := fnv.New64a()
		h.Write(b)
		return h.Sum64()
	default:
		return xxhash.Sum64(b)
	}
}
