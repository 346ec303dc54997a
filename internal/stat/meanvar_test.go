package stat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanVariance_Basic(t *testing.T) {
	var mv MeanVariance
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		mv.Add(v)
	}

	assert.Equal(t, float64(8), mv.Count())
	assert.InDelta(t, 5.0, mv.Mean(), 1e-12)
	assert.InDelta(t, 4.0, mv.NaiveVariance(), 1e-12)
	assert.InDelta(t, 32.0/7.0, mv.SampleVariance(), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), mv.StandardDeviation(), 1e-12)
}

func TestMeanVariance_Empty(t *testing.T) {
	var mv MeanVariance
	assert.True(t, math.IsNaN(mv.Mean()))
	assert.True(t, math.IsNaN(mv.NaiveVariance()))

	mv.Add(3)
	assert.True(t, math.IsNaN(mv.SampleVariance()), "sample variance needs two observations")
}

func TestMeanVariance_AddSlice_MatchesIncremental(t *testing.T) {
	vals := []float64{1.5, -2, 3.25, 0, 8, -1.75, 2, 2, 6.5}

	var inc, batch MeanVariance
	for _, v := range vals {
		inc.Add(v)
	}
	batch.AddSlice(vals)

	assert.InDelta(t, inc.Mean(), batch.Mean(), 1e-9)
	assert.InDelta(t, inc.SampleVariance(), batch.SampleVariance(), 1e-9)
	assert.Equal(t, inc.Count(), batch.Count())
}

func TestMeanVariance_AddSlice_Short(t *testing.T) {
	var mv MeanVariance
	mv.AddSlice(nil)
	assert.Zero(t, mv.Count())

	mv.AddSlice([]float64{5})
	assert.Equal(t, float64(1), mv.Count())
	assert.Equal(t, 5.0, mv.Mean())
}

func TestMeanVariance_Combine(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	var whole MeanVariance
	whole.AddSlice(vals)

	var left, right MeanVariance
	left.AddSlice(vals[:3])
	right.AddSlice(vals[3:])
	left.Combine(right)

	assert.InDelta(t, whole.Mean(), left.Mean(), 1e-12)
	assert.InDelta(t, whole.SampleVariance(), left.SampleVariance(), 1e-12)
	assert.Equal(t, whole.Count(), left.Count())
}

func TestMeanVariance_Weighted(t *testing.T) {
	var weighted, repeated MeanVariance
	weighted.AddWeighted(2, 3)
	weighted.AddWeighted(5, 1)
	weighted.AddWeighted(9, 0) // ignored

	for _, v := range []float64{2, 2, 2, 5} {
		repeated.Add(v)
	}

	require.Equal(t, repeated.Count(), weighted.Count())
	assert.InDelta(t, repeated.Mean(), weighted.Mean(), 1e-12)
}

func TestMeanVariance_Reset(t *testing.T) {
	var mv MeanVariance
	mv.AddSlice([]float64{1, 2, 3})
	mv.Reset()

	assert.Zero(t, mv.Count())
	assert.True(t, math.IsNaN(mv.Mean()))
}
