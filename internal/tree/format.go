package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// VariableNamer resolves a variable leaf's column hash to a display name.
type VariableNamer func(hash uint64) string

// defaultNamer is used when no resolver is supplied, e.g. for trees that
// were generated without a dataset attached.
func defaultNamer(hash uint64) string {
	return fmt.Sprintf("v_%04x", hash&0xffff)
}

var infixTokens = map[Symbol]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Pow: "^",
}

// Format renders the tree as a fully parenthesized infix expression.
// Children appear in argument order; n-ary commutative nodes produced by
// Reduce are joined with a single operator token. Coefficients are printed
// with %g at full precision, so the output is deterministic and suitable
// for golden comparisons.
func (t *Tree) Format(namer VariableNamer) string {
	if namer == nil {
		namer = defaultNamer
	}
	var sb strings.Builder
	t.formatNode(&sb, len(t.Nodes)-1, namer)
	return sb.String()
}

func (t *Tree) formatNode(sb *strings.Builder, i int, namer VariableNamer) {
	n := &t.Nodes[i]
	switch {
	case n.IsConstant():
		sb.WriteString(formatValue(n.Value))
	case n.IsVariable():
		if n.Value != 1 {
			sb.WriteString(formatValue(n.Value))
			sb.WriteString(" * ")
		}
		sb.WriteString(namer(n.HashValue))
	case n.Arity == 1:
		sb.WriteString(n.Symbol.String())
		sb.WriteByte('(')
		t.formatNode(sb, i-1, namer)
		sb.WriteByte(')')
	default:
		token := infixTokens[n.Symbol]
		sb.WriteByte('(')
		for k, j := range t.ChildIndices(i) {
			if k > 0 {
				sb.WriteByte(' ')
				sb.WriteString(token)
				sb.WriteByte(' ')
			}
			t.formatNode(sb, j, namer)
		}
		sb.WriteByte(')')
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
