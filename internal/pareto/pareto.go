// Package pareto ranks individuals by multi-objective fitness.
//
// All objectives are minimized. Ranking partitions a population into
// fronts: front 0 holds the non-dominated individuals, front 1 the ones
// dominated only by front 0, and so on.
package pareto

import (
	"errors"
	"sort"

	"github.com/evoreth/symreg/internal/tree"
)

// Individual couples a genotype with its fitness vector.
type Individual struct {
	Genotype tree.Tree
	Fitness  []float64
}

// Size returns the genotype length, used as a secondary parsimony signal.
func (ind *Individual) Size() int { return ind.Genotype.Len() }

// Dominance is the outcome of a Pareto comparison.
type Dominance int

const (
	// DominanceLeft means the left individual dominates.
	DominanceLeft Dominance = iota
	// DominanceRight means the right individual dominates.
	DominanceRight
	// DominanceEqual means both fitness vectors are identical.
	DominanceEqual
	// DominanceNone means the individuals are mutually non-dominated.
	DominanceNone
)

// Compare performs a Pareto dominance comparison between two fitness
// vectors of equal length, minimizing every objective.
func Compare(a, b []float64) Dominance {
	better, worse := false, false
	for i := range a {
		switch {
		case a[i] < b[i]:
			better = true
		case a[i] > b[i]:
			worse = true
		}
		if better && worse {
			return DominanceNone
		}
	}
	switch {
	case better:
		return DominanceLeft
	case worse:
		return DominanceRight
	default:
		return DominanceEqual
	}
}

// Less orders fitness vectors lexicographically, the tie-break order used
// between ranking rounds.
func Less(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// ErrObjectiveMismatch is returned when fitness vectors in a population
// disagree in length.
var ErrObjectiveMismatch = errors.New("pareto: fitness vectors differ in length")

// Stats counts the work done by a Sort call.
type Stats struct {
	DominanceComparisons     int
	LexicographicComparisons int
	Rounds                   int
}

// HierarchicalSorter partitions a population into non-domination fronts
// using pairwise queue sweeps. Each round extracts one front: the queue
// head seeds the front, every individual it does not dominate is requeued,
// and the dominated remainder is deferred to the next round after a stable
// lexicographic re-sort.
type HierarchicalSorter struct {
	Stats Stats
}

// Reset clears the accumulated counters.
func (h *HierarchicalSorter) Reset() { h.Stats = Stats{} }

// Sort returns the indices of pop grouped into fronts, best front first.
func (h *HierarchicalSorter) Sort(pop []Individual) ([][]int, error) {
	if len(pop) == 0 {
		return nil, nil
	}
	m := len(pop[0].Fitness)
	for i := range pop {
		if len(pop[i].Fitness) != m {
			return nil, ErrObjectiveMismatch
		}
	}

	q := make([]int, len(pop))
	for i := range q {
		q[i] = i
	}
	h.lexSort(pop, q)

	dominated := make([]int, 0, len(pop))
	var fronts [][]int

	for len(q) > 0 {
		h.Stats.Rounds++
		var front []int

		for len(q) > 0 {
			q1 := q[0]
			q = q[1:]
			front = append(front, q1)
			nonDominated := 0
			for len(q) > nonDominated {
				qj := q[0]
				q = q[1:]
				h.Stats.DominanceComparisons++
				if Compare(pop[q1].Fitness, pop[qj].Fitness) == DominanceNone {
					q = append(q, qj)
					nonDominated++
				} else {
					dominated = append(dominated, qj)
				}
			}
		}
		q = append(q, dominated...)
		dominated = dominated[:0]
		fronts = append(fronts, front)

		h.lexSort(pop, q)
	}
	return fronts, nil
}

func (h *HierarchicalSorter) lexSort(pop []Individual, idx []int) {
	sort.SliceStable(idx, func(a, b int) bool {
		h.Stats.LexicographicComparisons++
		return Less(pop[idx[a]].Fitness, pop[idx[b]].Fitness)
	})
}

// Ranks flattens fronts into a per-individual rank slice.
func Ranks(fronts [][]int, n int) []int {
	ranks := make([]int, n)
	for r, front := range fronts {
		for _, i := range front {
			ranks[i] = r
		}
	}
	return ranks
}
