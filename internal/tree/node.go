package tree

// Node is a single grammar symbol occurrence inside a Tree.
//
// HashValue identifies the node's symbol: for function and constant nodes it
// is a fixed hash of the Symbol, while for variable leaves it is the hash of
// the dataset column the leaf refers to. CalculatedHashValue is the
// structural hash of the subtree rooted at the node, filled in by
// Tree.ComputeHash; until then it equals HashValue.
//
// Length, Depth, Level and Parent are derived metadata maintained by
// Tree.UpdateNodes. Enabled is a transient tombstone used only while
// Tree.Reduce compacts merged nodes.
type Node struct {
	Value               float64
	HashValue           uint64
	CalculatedHashValue uint64
	Symbol              Symbol
	Arity               uint16
	Length              uint16
	Depth               uint16
	Level               uint16
	Parent              uint16
	Enabled             bool
}

// NewNode creates a node for the given symbol with its grammar arity and
// identity hash filled in.
func NewNode(s Symbol) Node {
	h := symbolHash(s)
	return Node{
		Symbol:              s,
		Arity:               uint16(SymbolArity(s)),
		HashValue:           h,
		CalculatedHashValue: h,
		Enabled:             true,
	}
}

// IsLeaf reports whether the node consumes no operands.
func (n *Node) IsLeaf() bool { return n.Arity == 0 }

// IsConstant reports whether the node is a numeric constant leaf.
func (n *Node) IsConstant() bool { return n.Symbol == Constant }

// IsVariable reports whether the node is a dataset column reference.
func (n *Node) IsVariable() bool { return n.Symbol == Variable }

// IsCommutative reports whether the node's symbol is commutative.
func (n *Node) IsCommutative() bool { return n.Symbol.IsCommutative() }

// Less orders nodes for canonicalization: primary key is the symbol,
// secondary key is the computed structural hash. Sort relies on this
// ordering being deterministic for a fixed set of hashes.
func (n *Node) Less(other *Node) bool {
	if n.Symbol != other.Symbol {
		return n.Symbol < other.Symbol
	}
	return n.CalculatedHashValue < other.CalculatedHashValue
}
