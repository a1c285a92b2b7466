// Package stats has the numeric primitives shared by the analysis engines.
// All functions are pure and operate on plain float64 slices; callers are
// responsible for filtering out missing values first.
package stats

import (
	"math"
	"sort"
)

// MADConsistency scales a median absolute deviation to a standard deviation
// estimate that is consistent with a normal distribution.
const MADConsistency = 1.4826

// Mean returns the arithmetic mean of values, or (0, false) when empty.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// Median returns the median of values, or (0, false) when empty.
// The input slice is not modified.
func Median(values []float64) (float64, bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2], true
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, true
}

// StdDev returns the population standard deviation (divide by n, not n-1),
// or (0, false) when empty.
func StdDev(values []float64) (float64, bool) {
	mean, ok := Mean(values)
	if !ok {
		return 0, false
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values))), true
}

// MAD returns the median absolute deviation from the median of values,
// or (0, false) when empty.
func MAD(values []float64) (float64, bool) {
	med, ok := Median(values)
	if !ok {
		return 0, false
	}
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - med)
	}
	return Median(devs)
}

// RobustStdDev estimates a standard deviation from the MAD. The boolean is
// false when the input is empty or the estimate is zero or non-finite, in
// which case callers should fall back to the population StdDev.
func RobustStdDev(values []float64) (float64, bool) {
	mad, ok := MAD(values)
	if !ok {
		return 0, false
	}
	sd := mad * MADConsistency
	if sd <= 0 || !isFinite(sd) {
		return 0, false
	}
	return sd, true
}

// Pearson returns the Pearson correlation coefficient of the paired samples.
// The boolean is false for empty or mismatched inputs and for degenerate
// (constant) series where the denominator vanishes.
func Pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0, false
	}
	meanX, _ := Mean(xs)
	meanY, _ := Mean(ys)

	var num, denomX, denomY float64
	for i := range n {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	denom := math.Sqrt(denomX * denomY)
	if denom == 0 || !isFinite(denom) {
		return 0, false
	}
	r := num / denom
	if !isFinite(r) {
		return 0, false
	}
	return r, true
}

// Finite filters a pointer series down to its finite numeric values.
func Finite(series []*float64) []float64 {
	out := make([]float64, 0, len(series))
	for _, v := range series {
		if v != nil && isFinite(*v) {
			out = append(out, *v)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
