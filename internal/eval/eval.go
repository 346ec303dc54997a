// Package eval evaluates expression trees over dataset row windows.
//
// The post-order node layout makes evaluation a stack machine: walking the
// sequence forward, leaves push a value buffer and function nodes replace
// their operand buffers with a result buffer. Because the first child's
// subtree sits nearest its parent, operands surface on the stack in
// argument order: the top of the stack is the first argument.
//
// Evaluation is pure and allocates only local buffers, so many trees can
// be evaluated concurrently against one shared dataset.
package eval

import (
	"errors"
	"fmt"
	"math"

	"github.com/evoreth/symreg/internal/dataset"
	"github.com/evoreth/symreg/internal/stat"
	"github.com/evoreth/symreg/internal/tree"
)

// ErrEmptyTree is returned when an empty tree is evaluated.
var ErrEmptyTree = errors.New("eval: empty tree")

// Evaluate computes the tree's output for every row in the window.
// Variable leaves contribute weight * column value; constants broadcast
// their value.
func Evaluate(t tree.Tree, ds *dataset.Dataset, window dataset.Range) ([]float64, error) {
	if t.Len() == 0 {
		return nil, ErrEmptyTree
	}
	n := window.Size()
	if n <= 0 || window.Start < 0 || window.End > ds.Rows() {
		return nil, fmt.Errorf("eval: invalid row window [%d, %d)", window.Start, window.End)
	}

	var stack [][]float64
	pop := func() []float64 {
		buf := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return buf
	}

	for i := range t.Nodes {
		node := &t.Nodes[i]
		switch {
		case node.IsConstant():
			buf := make([]float64, n)
			for j := range buf {
				buf[j] = node.Value
			}
			stack = append(stack, buf)

		case node.IsVariable():
			col, err := ds.ValuesByHash(node.HashValue)
			if err != nil {
				return nil, fmt.Errorf("eval: %w", err)
			}
			buf := make([]float64, n)
			for j := range buf {
				buf[j] = node.Value * col[window.Start+j]
			}
			stack = append(stack, buf)

		case node.Arity == 1:
			buf := pop()
			fn := unaryOp(node.Symbol)
			if fn == nil {
				return nil, fmt.Errorf("eval: unsupported symbol %v", node.Symbol)
			}
			for j := range buf {
				buf[j] = fn(buf[j])
			}
			stack = append(stack, buf)

		default:
			fn := binaryOp(node.Symbol)
			if fn == nil {
				return nil, fmt.Errorf("eval: unsupported symbol %v", node.Symbol)
			}
			// First argument is on top; fold the remaining operands in
			// argument order (n-ary nodes appear after Reduce).
			acc := pop()
			for k := uint16(1); k < node.Arity; k++ {
				operand := pop()
				for j := range acc {
					acc[j] = fn(acc[j], operand[j])
				}
			}
			stack = append(stack, acc)
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("eval: malformed tree, %d values left on stack", len(stack))
	}
	return stack[0], nil
}

func unaryOp(s tree.Symbol) func(float64) float64 {
	switch s {
	case tree.Exp:
		return math.Exp
	case tree.Log:
		return math.Log
	case tree.Sin:
		return math.Sin
	case tree.Cos:
		return math.Cos
	case tree.Sqrt:
		return math.Sqrt
	case tree.Square:
		return func(x float64) float64 { return x * x }
	default:
		return nil
	}
}

func binaryOp(s tree.Symbol) func(float64, float64) float64 {
	switch s {
	case tree.Add:
		return func(a, b float64) float64 { return a + b }
	case tree.Sub:
		return func(a, b float64) float64 { return a - b }
	case tree.Mul:
		return func(a, b float64) float64 { return a * b }
	case tree.Div:
		return func(a, b float64) float64 { return a / b }
	case tree.Pow:
		return math.Pow
	default:
		return nil
	}
}

// MSE returns the mean squared error between predictions and targets.
// Non-finite predictions are clamped to the worst representable error.
func MSE(predicted, target []float64) float64 {
	var mv stat.MeanVariance
	for i := range predicted {
		d := predicted[i] - target[i]
		sq := d * d
		if math.IsNaN(sq) || math.IsInf(sq, 0) {
			sq = math.MaxFloat64
		}
		mv.Add(sq)
	}
	return mv.Mean()
}

// RMSE returns the root mean squared error.
func RMSE(predicted, target []float64) float64 {
	return math.Sqrt(MSE(predicted, target))
}
