package stats

import (
	"fmt"
	"sort"
)

// Bonferroni returns the Bonferroni-corrected significance threshold for a
// vector of p-values.
func Bonferroni(p []float64, alpha float64) (float64, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("no p-values")
	}
	return alpha / float64(len(p)), nil
}

// BHThreshold returns the significant p-value threshold under Benjamini and
// Hochberg's step-up procedure.
func BHThreshold(p []float64, alpha float64) (float64, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("no p-values")
	}
	sorted := append([]float64(nil), p...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	m := len(sorted)
	threshold := alpha / float64(m)
	for i, pv := range sorted {
		threshold = alpha * float64(m-i) / float64(m)
		if pv <= threshold {
			return threshold, nil
		}
	}
	return threshold, nil
}

// BLThreshold returns the significant p-value threshold under Benjamini and
// Liu's step-down procedure.
func BLThreshold(p []float64, alpha float64) (float64, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("no p-values")
	}
	sorted := append([]float64(nil), p...)
	sort.Float64s(sorted)
	m := len(sorted)
	threshold := alpha / float64(m)
	for i, pv := range sorted {
		threshold = alpha * float64(m) / float64((m-i)*(m-i))
		if pv >= threshold {
			return threshold, nil
		}
	}
	return threshold, nil
}

// BHAdjust returns Benjamini-Hochberg adjusted p-values (FDR q-values) in
// the input order.
func BHAdjust(p []float64) []float64 {
	m := len(p)
	if m == 0 {
		return nil
	}
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return p[order[i]] > p[order[j]] })

	adjusted := make([]float64, m)
	minSoFar := 1.0
	for rank, idx := range order {
		// rank runs from the largest p-value down.
		q := p[idx] * float64(m) / float64(m-rank)
		if q < minSoFar {
			minSoFar = q
		}
		if minSoFar > 1 {
			minSoFar = 1
		}
		adjusted[idx] = minSoFar
	}
	return adjusted
}
