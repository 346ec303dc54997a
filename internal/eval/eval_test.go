package eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoreth/symreg/internal/dataset"
	"github.com/evoreth/symreg/internal/tree"
)

func testData(t *testing.T) *testDataset {
	t.Helper()
	d, err := dataset.FromColumns([]string{"x", "y"}, [][]float64{
		{1, 2, 3, 4},
		{2, 4, 6, 8},
	})
	require.NoError(t, err)
	return &testDataset{d}
}

// testDataset bundles the dataset with hash lookups for test readability.
type testDataset struct {
	*dataset.Dataset
}

func (d *testDataset) hash(name string) uint64 {
	v, ok := d.GetVariable(name)
	if !ok {
		panic("unknown test variable " + name)
	}
	return v.Hash
}

func TestEvaluate_Arithmetic(t *testing.T) {
	d := testData(t)

	// (x * y) + 1
	tr := tree.Function(tree.Add,
		tree.Function(tree.Mul,
			tree.VariableLeaf(d.hash("x"), 1),
			tree.VariableLeaf(d.hash("y"), 1)),
		tree.ConstantLeaf(1))

	out, err := Evaluate(tr, d.Dataset, d.FullRange())
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 9, 19, 33}, out)
}

func TestEvaluate_NonCommutativeOrder(t *testing.T) {
	d := testData(t)

	// y - x: first argument minus second.
	tr := tree.Function(tree.Sub,
		tree.VariableLeaf(d.hash("y"), 1),
		tree.VariableLeaf(d.hash("x"), 1))

	out, err := Evaluate(tr, d.Dataset, d.FullRange())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, out)
}

func TestEvaluate_DivisionOrder(t *testing.T) {
	d := testData(t)

	// y / x
	tr := tree.Function(tree.Div,
		tree.VariableLeaf(d.hash("y"), 1),
		tree.VariableLeaf(d.hash("x"), 1))

	out, err := Evaluate(tr, d.Dataset, d.FullRange())
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2, 2}, out)
}

func TestEvaluate_WeightedVariable(t *testing.T) {
	d := testData(t)

	tr := tree.VariableLeaf(d.hash("x"), 0.5)
	out, err := Evaluate(tr, d.Dataset, d.FullRange())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, out)
}

func TestEvaluate_Unary(t *testing.T) {
	d := testData(t)

	tr := tree.Function(tree.Square, tree.VariableLeaf(d.hash("x"), 1))
	out, err := Evaluate(tr, d.Dataset, d.FullRange())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 9, 16}, out)
}

func TestEvaluate_NaryAfterReduce(t *testing.T) {
	d := testData(t)

	// add(add(x, y), 1) flattened to a ternary addition must evaluate the
	// same as the nested form.
	nested := tree.Function(tree.Add,
		tree.Function(tree.Add,
			tree.VariableLeaf(d.hash("x"), 1),
			tree.VariableLeaf(d.hash("y"), 1)),
		tree.ConstantLeaf(1))

	flattened := nested.Clone()
	flattened.Reduce()
	require.Equal(t, nested.Len()-1, flattened.Len())

	want, err := Evaluate(nested, d.Dataset, d.FullRange())
	require.NoError(t, err)
	got, err := Evaluate(flattened, d.Dataset, d.FullRange())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEvaluate_Window(t *testing.T) {
	d := testData(t)

	tr := tree.VariableLeaf(d.hash("x"), 1)
	out, err := Evaluate(tr, d.Dataset, dataset.Range{Start: 1, End: 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, out)
}

func TestEvaluate_Errors(t *testing.T) {
	d := testData(t)

	_, err := Evaluate(tree.Tree{}, d.Dataset, d.FullRange())
	assert.ErrorIs(t, err, ErrEmptyTree)

	tr := tree.VariableLeaf(0xdead, 1) // unknown column
	_, err = Evaluate(tr, d.Dataset, d.FullRange())
	assert.Error(t, err)

	tr = tree.ConstantLeaf(1)
	_, err = Evaluate(tr, d.Dataset, dataset.Range{Start: 2, End: 1})
	assert.Error(t, err)
}

func TestMSE(t *testing.T) {
	assert.Equal(t, 0.0, MSE([]float64{1, 2, 3}, []float64{1, 2, 3}))
	assert.InDelta(t, 1.0, MSE([]float64{2, 3}, []float64{1, 2}), 1e-12)
	assert.InDelta(t, 2.0, RMSE([]float64{2}, []float64{0}), 1e-12)
}

func TestMSE_NonFiniteClamped(t *testing.T) {
	got := MSE([]float64{math.Inf(1)}, []float64{0})
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, math.MaxFloat64, got)
}
