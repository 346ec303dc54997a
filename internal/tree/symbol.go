package tree

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Symbol identifies a grammar symbol kind. Symbols are bit flags so that
// sets of symbols (enabled masks, frequency tables) can be represented
// compactly.
type Symbol uint32

const (
	// Binary functions.
	Add Symbol = 1 << iota
	Sub
	Mul
	Div
	Pow

	// Unary functions.
	Exp
	Log
	Sin
	Cos
	Sqrt
	Square

	// Leaves.
	Constant
	Variable
)

// AllSymbols is the mask of every symbol the engine knows about.
const AllSymbols = Add | Sub | Mul | Div | Pow | Exp | Log | Sin | Cos | Sqrt | Square | Constant | Variable

// symbolNames maps each symbol to its canonical lowercase name, used for
// configuration files and diagnostics.
var symbolNames = map[Symbol]string{
	Add:      "add",
	Sub:      "sub",
	Mul:      "mul",
	Div:      "div",
	Pow:      "pow",
	Exp:      "exp",
	Log:      "log",
	Sin:      "sin",
	Cos:      "cos",
	Sqrt:     "sqrt",
	Square:   "square",
	Constant: "constant",
	Variable: "variable",
}

// String returns the canonical name of the symbol.
func (s Symbol) String() string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return fmt.Sprintf("symbol(%#x)", uint32(s))
}

// ParseSymbol resolves a canonical symbol name to its Symbol value.
func ParseSymbol(name string) (Symbol, error) {
	for s, n := range symbolNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown symbol %q", name)
}

// SymbolArity returns the number of operands the symbol consumes.
func SymbolArity(s Symbol) int {
	switch {
	case s&(Add|Sub|Mul|Div|Pow) != 0:
		return 2
	case s&(Exp|Log|Sin|Cos|Sqrt|Square) != 0:
		return 1
	default:
		return 0
	}
}

// IsCommutative reports whether operand order is semantically irrelevant
// for the symbol. Addition and multiplication are also associative, which
// Reduce relies on when flattening nested occurrences.
func (s Symbol) IsCommutative() bool {
	return s&(Add|Mul) != 0
}

// symbolHash returns the identity hash of a symbol. It is computed with a
// fixed hash function, independent of the family selected at ComputeHash
// time, so that symbol identity comparisons (e.g. in Reduce) remain stable.
func symbolHash(s Symbol) uint64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(s))
	return xxhash.Sum64(buf[:])
}
