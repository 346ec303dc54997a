// Package dataset holds the numeric training data: named columns of
// float64 values, addressable by name, by column index, or by the name's
// identity hash (the key that variable leaf nodes embed).
//
// Column names are Unicode-normalized (NFC) before hashing, so the same
// visible name always maps to the same column hash regardless of how the
// source file encoded it. Variables are kept sorted by hash, which makes
// hash lookup a binary search.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/evoreth/symreg/internal/stat"
)

var (
	// ErrNoColumns is returned when a dataset is constructed without data.
	ErrNoColumns = errors.New("dataset: no columns")

	// ErrRaggedColumns is returned when columns differ in length.
	ErrRaggedColumns = errors.New("dataset: columns have different lengths")
)

// Variable describes one dataset column.
type Variable struct {
	Name  string
	Hash  uint64
	Index int
}

// HashName returns the identity hash of a column name. The name is NFC
// normalized first.
func HashName(name string) uint64 {
	return xxhash.Sum64String(norm.NFC.String(name))
}

// Dataset owns a set of equally sized numeric columns.
type Dataset struct {
	variables []Variable  // sorted by Hash
	values    [][]float64 // indexed by Variable.Index
	rows      int
}

// FromColumns builds a dataset from column-major data. When names is nil,
// default names X1..Xn are assigned.
func FromColumns(names []string, columns [][]float64) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	rows := len(columns[0])
	for _, col := range columns[1:] {
		if len(col) != rows {
			return nil, ErrRaggedColumns
		}
	}
	if names == nil {
		names = defaultNames(len(columns))
	}
	if len(names) != len(columns) {
		return nil, fmt.Errorf("dataset: %d names for %d columns", len(names), len(columns))
	}

	d := &Dataset{values: columns, rows: rows}
	d.variables = makeVariables(names)
	return d, nil
}

func defaultNames(count int) []string {
	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("X%d", i+1)
	}
	return names
}

func makeVariables(names []string) []Variable {
	vars := make([]Variable, len(names))
	for i, name := range names {
		vars[i] = Variable{Name: name, Hash: HashName(name), Index: i}
	}
	sort.Slice(vars, func(a, b int) bool { return vars[a].Hash < vars[b].Hash })
	return vars
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int { return d.rows }

// Cols returns the number of columns.
func (d *Dataset) Cols() int { return len(d.values) }

// Variables returns the dataset's variables, sorted by hash.
func (d *Dataset) Variables() []Variable { return d.variables }

// VariableNames returns the column names in hash order.
func (d *Dataset) VariableNames() []string {
	names := make([]string, len(d.variables))
	for i, v := range d.variables {
		names[i] = v.Name
	}
	return names
}

// SetVariableNames replaces all column names. The count must match the
// number of columns.
func (d *Dataset) SetVariableNames(names []string) error {
	if len(names) != len(d.values) {
		return fmt.Errorf("dataset: %d names for %d columns", len(names), len(d.values))
	}
	d.variables = makeVariables(names)
	return nil
}

// GetVariable looks a variable up by name.
func (d *Dataset) GetVariable(name string) (Variable, bool) {
	return d.GetVariableByHash(HashName(name))
}

// GetVariableByHash looks a variable up by its identity hash.
func (d *Dataset) GetVariableByHash(hash uint64) (Variable, bool) {
	i := sort.Search(len(d.variables), func(i int) bool { return d.variables[i].Hash >= hash })
	if i < len(d.variables) && d.variables[i].Hash == hash {
		return d.variables[i], true
	}
	return Variable{}, false
}

// Column returns the values of the column at the given storage index.
// The slice aliases the dataset; callers must not modify it.
func (d *Dataset) Column(index int) []float64 { return d.values[index] }

// Values returns the column with the given name.
func (d *Dataset) Values(name string) ([]float64, error) {
	return d.ValuesByHash(HashName(name))
}

// ValuesByHash returns the column whose name hashes to the given value.
func (d *Dataset) ValuesByHash(hash uint64) ([]float64, error) {
	v, ok := d.GetVariableByHash(hash)
	if !ok {
		return nil, fmt.Errorf("dataset: no variable with hash %#x", hash)
	}
	return d.values[v.Index], nil
}

// Range is a half-open row window [Start, End).
type Range struct {
	Start int
	End   int
}

// Size returns the number of rows in the window.
func (r Range) Size() int { return r.End - r.Start }

func (d *Dataset) checkRange(r Range) error {
	if r.Start < 0 || r.End > d.rows || r.Start >= r.End {
		return fmt.Errorf("dataset: invalid row range [%d, %d) for %d rows", r.Start, r.End, d.rows)
	}
	return nil
}

// FullRange returns the window covering every row.
func (d *Dataset) FullRange() Range { return Range{0, d.rows} }

// Shuffle permutes the rows of all columns with one shared permutation.
func (d *Dataset) Shuffle(r *rand.Rand) {
	perm := r.Perm(d.rows)
	for _, col := range d.values {
		shuffled := make([]float64, len(col))
		for i, p := range perm {
			shuffled[i] = col[p]
		}
		copy(col, shuffled)
	}
}

// Normalize rescales a column to [0, 1] using the min and max observed
// inside the given row window. The whole column is rescaled, not only the
// window.
func (d *Dataset) Normalize(col int, window Range) error {
	if err := d.checkRange(window); err != nil {
		return err
	}
	values := d.values[col]
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values[window.Start:window.End] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	for i := range values {
		values[i] = (values[i] - lo) / span
	}
	return nil
}

// Standardize shifts and scales a column to zero mean and unit variance,
// with the statistics computed over the given row window.
func (d *Dataset) Standardize(col int, window Range) error {
	if err := d.checkRange(window); err != nil {
		return err
	}
	values := d.values[col]
	var mv stat.MeanVariance
	mv.AddSlice(values[window.Start:window.End])
	mean, sd := mv.Mean(), mv.StandardDeviation()
	for i := range values {
		values[i] = (values[i] - mean) / sd
	}
	return nil
}
