package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	v, ok := Mean([]float64{1, 2, 3, 4})
	assert.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)

	_, ok = Mean(nil)
	assert.False(t, ok)
}

func TestMedian(t *testing.T) {
	// Odd length
	v, ok := Median([]float64{9, 1, 5})
	assert.True(t, ok)
	assert.InDelta(t, 5.0, v, 1e-9)

	// Even length averages the middle pair
	v, ok = Median([]float64{4, 1, 3, 2})
	assert.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)

	// Input order is preserved
	in := []float64{3, 1, 2}
	_, _ = Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)

	_, ok = Median([]float64{})
	assert.False(t, ok)
}

func TestStdDevIsPopulation(t *testing.T) {
	// Population SD of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2 (a sample SD
	// would be ~2.138).
	v, ok := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-9)
}

func TestMAD(t *testing.T) {
	// Median 2, absolute deviations {1, 0, 1, 5}, MAD 1.
	v, ok := MAD([]float64{1, 2, 3, 7})
	assert.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestRobustStdDev(t *testing.T) {
	v, ok := RobustStdDev([]float64{1, 2, 3, 7})
	require.True(t, ok)
	assert.InDelta(t, MADConsistency, v, 1e-9)

	// Constant series has MAD 0, which is not a usable estimate.
	_, ok = RobustStdDev([]float64{5, 5, 5, 5})
	assert.False(t, ok)
}

func TestPearson(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 4, 6, 8, 10}

	r, ok := Pearson(xs, ys)
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)

	// Symmetry
	r2, ok := Pearson(ys, xs)
	require.True(t, ok)
	assert.InDelta(t, r, r2, 1e-12)

	// Negation flips the sign
	neg := make([]float64, len(xs))
	for i, v := range xs {
		neg[i] = -v
	}
	r3, ok := Pearson(xs, neg)
	require.True(t, ok)
	assert.InDelta(t, -1.0, r3, 1e-9)
}

func TestPearsonDegenerate(t *testing.T) {
	// Constant series has zero variance
	_, ok := Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.False(t, ok)

	// Mismatched lengths
	_, ok = Pearson([]float64{1, 2}, []float64{1, 2, 3})
	assert.False(t, ok)

	// Empty input
	_, ok = Pearson(nil, nil)
	assert.False(t, ok)
}

func TestFinite(t *testing.T) {
	one := 1.0
	nan := math.NaN()
	inf := math.Inf(1)
	out := Finite([]*float64{&one, nil, &nan, &inf, &one})
	assert.Equal(t, []float64{1, 1}, out)
}
