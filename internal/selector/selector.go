// Package selector implements parent selection over a ranked population.
//
// Selectors are prepared once per population snapshot and then drawn from
// repeatedly; Select never mutates the population. All objectives are
// minimized, so lower fitness means a better individual.
package selector

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/evoreth/symreg/internal/pareto"
)

// Selector draws the index of one parent from the prepared population.
type Selector interface {
	Prepare(pop []pareto.Individual) error
	Select(r *rand.Rand) int
}

var (
	// ErrEmptyPopulation is returned when Prepare receives no individuals.
	ErrEmptyPopulation = errors.New("selector: empty population")

	// ErrNotPrepared is returned by Select before a successful Prepare.
	ErrNotPrepared = errors.New("selector: population not prepared")

	// ErrObjectiveIndex is returned when the configured objective is out of
	// range for the population's fitness vectors.
	ErrObjectiveIndex = errors.New("selector: objective index out of range")
)

type weightedIndex struct {
	weight float64
	index  int
}

// Proportional selects parents with probability proportional to inverted
// fitness: each individual's weight is vmax - f, so the best individual
// carries the largest share of the cumulative distribution. Prepare builds
// a prefix-summed weight table; Select is a uniform draw resolved by
// binary search.
type Proportional struct {
	objective  int
	cumulative []weightedIndex
	total      float64
}

// NewProportional creates a proportional selector over the given objective
// index of the fitness vector.
func NewProportional(objective int) *Proportional {
	return &Proportional{objective: objective}
}

func (s *Proportional) Prepare(pop []pareto.Individual) error {
	if len(pop) == 0 {
		return ErrEmptyPopulation
	}
	if s.objective < 0 || s.objective >= len(pop[0].Fitness) {
		return ErrObjectiveIndex
	}

	vmax := pop[0].Fitness[s.objective]
	for i := range pop {
		if f := pop[i].Fitness[s.objective]; f > vmax {
			vmax = f
		}
	}

	s.cumulative = s.cumulative[:0]
	for i := range pop {
		s.cumulative = append(s.cumulative, weightedIndex{
			weight: vmax - pop[i].Fitness[s.objective],
			index:  i,
		})
	}
	sort.Slice(s.cumulative, func(a, b int) bool {
		return s.cumulative[a].weight < s.cumulative[b].weight
	})

	var sum float64
	for i := range s.cumulative {
		sum += s.cumulative[i].weight
		s.cumulative[i].weight = sum
	}
	s.total = sum
	return nil
}

func (s *Proportional) Select(r *rand.Rand) int {
	if len(s.cumulative) == 0 {
		return -1
	}
	// A degenerate population where every individual shares one fitness
	// value has zero total weight; fall back to a uniform draw.
	if s.total <= 0 {
		return s.cumulative[r.Intn(len(s.cumulative))].index
	}
	u := r.Float64() * s.total
	i := sort.Search(len(s.cumulative), func(j int) bool {
		return s.cumulative[j].weight > u
	})
	if i == len(s.cumulative) {
		i--
	}
	return s.cumulative[i].index
}

// Tournament selects the best of k uniform draws, comparing fitness
// vectors lexicographically. Larger k raises selection pressure.
type Tournament struct {
	k   int
	pop []pareto.Individual
}

// NewTournament creates a tournament selector of the given size; sizes
// below two are raised to two.
func NewTournament(k int) *Tournament {
	if k < 2 {
		k = 2
	}
	return &Tournament{k: k}
}

func (s *Tournament) Prepare(pop []pareto.Individual) error {
	if len(pop) == 0 {
		return ErrEmptyPopulation
	}
	s.pop = pop
	return nil
}

func (s *Tournament) Select(r *rand.Rand) int {
	if len(s.pop) == 0 {
		return -1
	}
	best := r.Intn(len(s.pop))
	for i := 1; i < s.k; i++ {
		c := r.Intn(len(s.pop))
		if pareto.Less(s.pop[c].Fitness, s.pop[best].Fitness) {
			best = c
		}
	}
	return best
}
