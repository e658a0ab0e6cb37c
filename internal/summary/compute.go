package summary

import "sort"

// Statistics helpers over optional-valued samples. All return nil for an
// empty sample set: a group with no qualifying events reports missing,
// never zero.

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

// computeMedian calculates the median with linear midpoint interpolation
// for even sample counts.
func computeMedian(values []float64) *float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var m float64
	if n%2 == 1 {
		m = sorted[n/2]
	} else {
		m = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return &m
}

// computeMin returns the smallest sample.
func computeMin(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return &m
}

// computeMax returns the largest sample.
func computeMax(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return &m
}
