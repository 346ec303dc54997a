package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoreth/symreg/internal/pareto"
	"github.com/evoreth/symreg/internal/random"
)

func population(fitness ...float64) []pareto.Individual {
	pop := make([]pareto.Individual, len(fitness))
	for i, f := range fitness {
		pop[i].Fitness = []float64{f}
	}
	return pop
}

func TestProportional_PrepareErrors(t *testing.T) {
	s := NewProportional(0)
	assert.ErrorIs(t, s.Prepare(nil), ErrEmptyPopulation)

	s = NewProportional(3)
	assert.ErrorIs(t, s.Prepare(population(1, 2)), ErrObjectiveIndex)
}

func TestProportional_FavorsLowFitness(t *testing.T) {
	// Weights after inversion: 9, 5, 0. The best individual should win
	// roughly 9/14 of the draws and the worst never.
	pop := population(1, 5, 10)
	s := NewProportional(0)
	require.NoError(t, s.Prepare(pop))

	r := random.New(42)
	counts := make([]int, len(pop))
	const draws = 20000
	for i := 0; i < draws; i++ {
		idx := s.Select(r)
		require.GreaterOrEqual(t, idx, 0)
		counts[idx]++
	}

	assert.InDelta(t, 9.0/14, float64(counts[0])/draws, 0.02)
	assert.InDelta(t, 5.0/14, float64(counts[1])/draws, 0.02)
	assert.Zero(t, counts[2], "zero-weight individual must never be selected")
}

func TestProportional_UniformFitness(t *testing.T) {
	pop := population(3, 3, 3)
	s := NewProportional(0)
	require.NoError(t, s.Prepare(pop))

	r := random.New(7)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		idx := s.Select(r)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(pop))
		seen[idx] = true
	}
	assert.Len(t, seen, len(pop), "degenerate weights fall back to uniform draws")
}

func TestProportional_SelectBeforePrepare(t *testing.T) {
	s := NewProportional(0)
	assert.Equal(t, -1, s.Select(random.New(1)))
}

func TestProportional_SecondObjective(t *testing.T) {
	pop := []pareto.Individual{
		{Fitness: []float64{9, 1}},
		{Fitness: []float64{1, 9}},
	}
	s := NewProportional(1)
	require.NoError(t, s.Prepare(pop))

	r := random.New(3)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 0, s.Select(r), "only the second objective counts")
	}
}

func TestTournament_PressureGrowsWithK(t *testing.T) {
	pop := population(1, 2, 3, 4, 5, 6, 7, 8)

	rates := make(map[int]float64)
	for _, k := range []int{2, 6} {
		s := NewTournament(k)
		require.NoError(t, s.Prepare(pop))

		r := random.New(11)
		wins := 0
		const draws = 10000
		for i := 0; i < draws; i++ {
			if s.Select(r) == 0 {
				wins++
			}
		}
		rates[k] = float64(wins) / draws
	}
	assert.Greater(t, rates[6], rates[2], "larger tournaments favor the best individual more")
}

func TestTournament_MinimumSize(t *testing.T) {
	s := NewTournament(0)
	assert.Equal(t, 2, s.k)

	assert.ErrorIs(t, s.Prepare(nil), ErrEmptyPopulation)
	assert.Equal(t, -1, s.Select(random.New(1)))
}
