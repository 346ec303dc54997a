package pareto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want Dominance
	}{
		{"left dominates", []float64{1, 2}, []float64{2, 3}, DominanceLeft},
		{"left dominates with tie", []float64{1, 2}, []float64{1, 3}, DominanceLeft},
		{"right dominates", []float64{5, 5}, []float64{4, 5}, DominanceRight},
		{"equal", []float64{1, 2}, []float64{1, 2}, DominanceEqual},
		{"trade-off", []float64{1, 4}, []float64{2, 3}, DominanceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestLess_Lexicographic(t *testing.T) {
	assert.True(t, Less([]float64{1, 9}, []float64{2, 0}))
	assert.True(t, Less([]float64{1, 2}, []float64{1, 3}))
	assert.False(t, Less([]float64{1, 3}, []float64{1, 2}))
	assert.False(t, Less([]float64{1, 2}, []float64{1, 2}))
}

func population(fitness ...[]float64) []Individual {
	pop := make([]Individual, len(fitness))
	for i, f := range fitness {
		pop[i].Fitness = f
	}
	return pop
}

func TestHierarchicalSorter_TwoFronts(t *testing.T) {
	// Front 0: (1,4), (2,2), (4,1). Front 1: (3,4), (5,3). Front 2: (6,6).
	pop := population(
		[]float64{3, 4},
		[]float64{1, 4},
		[]float64{6, 6},
		[]float64{2, 2},
		[]float64{4, 1},
		[]float64{5, 3},
	)

	var sorter HierarchicalSorter
	fronts, err := sorter.Sort(pop)
	require.NoError(t, err)
	require.Len(t, fronts, 3)

	assert.ElementsMatch(t, []int{1, 3, 4}, fronts[0])
	assert.ElementsMatch(t, []int{0, 5}, fronts[1])
	assert.ElementsMatch(t, []int{2}, fronts[2])

	assert.Equal(t, 3, sorter.Stats.Rounds)
	assert.Positive(t, sorter.Stats.DominanceComparisons)
}

func TestHierarchicalSorter_SingleFront(t *testing.T) {
	pop := population(
		[]float64{1, 3},
		[]float64{2, 2},
		[]float64{3, 1},
	)

	var sorter HierarchicalSorter
	fronts, err := sorter.Sort(pop)
	require.NoError(t, err)
	require.Len(t, fronts, 1)
	assert.ElementsMatch(t, []int{0, 1, 2}, fronts[0])
}

func TestHierarchicalSorter_DuplicatesDeferred(t *testing.T) {
	// Identical fitness vectors are not mutually non-dominated; the copy
	// lands in the next front.
	pop := population(
		[]float64{1, 1},
		[]float64{1, 1},
	)

	var sorter HierarchicalSorter
	fronts, err := sorter.Sort(pop)
	require.NoError(t, err)
	require.Len(t, fronts, 2)
	assert.Len(t, fronts[0], 1)
	assert.Len(t, fronts[1], 1)
}

func TestHierarchicalSorter_TotalOrderChain(t *testing.T) {
	pop := population(
		[]float64{3, 3},
		[]float64{1, 1},
		[]float64{2, 2},
	)

	var sorter HierarchicalSorter
	fronts, err := sorter.Sort(pop)
	require.NoError(t, err)
	require.Len(t, fronts, 3)
	assert.Equal(t, []int{1}, fronts[0])
	assert.Equal(t, []int{2}, fronts[1])
	assert.Equal(t, []int{0}, fronts[2])
}

func TestHierarchicalSorter_Errors(t *testing.T) {
	pop := population([]float64{1, 2}, []float64{1})

	var sorter HierarchicalSorter
	_, err := sorter.Sort(pop)
	assert.ErrorIs(t, err, ErrObjectiveMismatch)

	fronts, err := sorter.Sort(nil)
	require.NoError(t, err)
	assert.Empty(t, fronts)
}

func TestHierarchicalSorter_EveryIndexOnce(t *testing.T) {
	pop := population(
		[]float64{1, 5}, []float64{2, 4}, []float64{3, 3},
		[]float64{2, 6}, []float64{5, 5}, []float64{4, 2},
		[]float64{6, 1}, []float64{7, 7},
	)

	var sorter HierarchicalSorter
	fronts, err := sorter.Sort(pop)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, front := range fronts {
		for _, i := range front {
			assert.False(t, seen[i], "index %d appears twice", i)
			seen[i] = true
		}
	}
	assert.Len(t, seen, len(pop))
}

func TestRanks(t *testing.T) {
	fronts := [][]int{{1, 3}, {0}, {2}}
	assert.Equal(t, []int{1, 0, 2, 0}, Ranks(fronts, 4))
}
