// Package stat implements the online mean/variance accumulator used for
// column statistics and fitness aggregation.
//
// The update formulas follow the numerically stable scheme from the ELKI
// project (Schubert & Gertz, "Numerically Stable Parallel Computation of
// (Co-)Variance"): single values update incrementally, batches use a
// two-pass update with error compensation, and two accumulators can be
// combined exactly, which keeps the statistic parallel-friendly.
package stat

import "math"

// MeanVariance accumulates count, mean and the sum of squared deviations
// online. The zero value is an empty accumulator ready for use.
type MeanVariance struct {
	m2  float64
	sum float64
	n   float64
}

// Reset empties the accumulator.
func (mv *MeanVariance) Reset() {
	*mv = MeanVariance{}
}

// Add accumulates a single observation.
func (mv *MeanVariance) Add(val float64) {
	if mv.n <= 0 {
		mv.n = 1
		mv.sum = val
		mv.m2 = 0
		return
	}
	tmp := mv.n*val - mv.sum
	oldn := mv.n
	mv.n++
	mv.sum += val
	mv.m2 += tmp * tmp / (mv.n * oldn)
}

// AddWeighted accumulates a single observation with the given weight.
// Zero-weight observations are ignored.
func (mv *MeanVariance) AddWeighted(val, weight float64) {
	if weight == 0 {
		return
	}
	if mv.n <= 0 {
		mv.n = weight
		mv.sum = val * weight
		return
	}
	val *= weight
	tmp := mv.n*val - mv.sum*weight
	oldn := mv.n
	mv.n += weight
	mv.sum += val
	mv.m2 += tmp * tmp / (weight * mv.n * oldn)
}

// AddSlice accumulates a batch of observations using a compensated
// two-pass update, which is more accurate than adding one value at a time.
func (mv *MeanVariance) AddSlice(vals []float64) {
	l := len(vals)
	if l < 2 {
		if l == 1 {
			mv.Add(vals[0])
		}
		return
	}
	var s1 float64
	for _, v := range vals {
		s1 += v
	}
	om1 := s1 / float64(l)
	var om2, err float64
	for _, v := range vals {
		d := v - om1
		om2 += d * d
		err += d
	}
	s1 += err
	om2 += err / float64(l)
	if mv.n <= 0 {
		mv.n = float64(l)
		mv.sum = s1
		mv.m2 = om2
		return
	}
	tmp := mv.n*s1 - mv.sum*float64(l)
	oldn := mv.n
	mv.n += float64(l)
	mv.sum += s1 + err
	mv.m2 += om2 + tmp*tmp/(float64(l)*mv.n*oldn)
}

// Combine folds another accumulator into this one. The result is identical
// to having accumulated both observation streams into a single instance.
func (mv *MeanVariance) Combine(other MeanVariance) {
	on, osum := other.n, other.sum
	tmp := mv.n*osum - mv.sum*on
	oldn := mv.n
	mv.n += on
	mv.sum += osum
	mv.m2 += other.m2 + tmp*tmp/(on*mv.n*oldn)
}

// Count returns the (possibly weighted) number of observations.
func (mv *MeanVariance) Count() float64 { return mv.n }

// Mean returns the arithmetic mean. NaN when empty.
func (mv *MeanVariance) Mean() float64 {
	if mv.n <= 0 {
		return math.NaN()
	}
	return mv.sum / mv.n
}

// NaiveVariance returns the population variance (divisor n). NaN when
// empty.
func (mv *MeanVariance) NaiveVariance() float64 {
	if mv.n <= 0 {
		return math.NaN()
	}
	return mv.m2 / mv.n
}

// SampleVariance returns the sample variance (divisor n-1). NaN with fewer
// than two observations.
func (mv *MeanVariance) SampleVariance() float64 {
	if mv.n <= 1 {
		return math.NaN()
	}
	return mv.m2 / (mv.n - 1)
}

// SumOfSquares returns the accumulated sum of squared deviations.
func (mv *MeanVariance) SumOfSquares() float64 { return mv.m2 }

// StandardDeviation returns the sample standard deviation.
func (mv *MeanVariance) StandardDeviation() float64 {
	return math.Sqrt(mv.SampleVariance())
}
