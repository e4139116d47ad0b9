package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// DefaultBins is the number of quantile bins used when a continuous series
// takes part in a mutual-information estimate.
const DefaultBins = 10

// MI estimates the mutual information (in nats) between two series of equal
// length. Categorical, Int, and String series are treated as discrete;
// Float series are quantile-binned first. The estimator is the plug-in
// contingency-table estimate, which is deterministic: repeated runs on the
// same data give the same value.
func MI(x, y *dataframe.Series, bins int) (float64, error) {
	if x.Len() != y.Len() {
		return 0, fmt.Errorf("series lengths differ: %d vs %d", x.Len(), y.Len())
	}
	if x.Len() == 0 {
		return 0, fmt.Errorf("empty series")
	}
	return miFromCodes(discretize(x, bins), discretize(y, bins)), nil
}

// MIMatrix computes the pairwise mutual-information matrix over the columns
// of f, a samples-by-variables frame. The diagonal holds each variable's
// entropy estimate MI(x, x).
func MIMatrix(f *dataframe.Frame, bins int) (*dataframe.Matrix, error) {
	k := f.NumCols()
	if k == 0 {
		return nil, fmt.Errorf("frame has no columns")
	}
	codes := make([][]int, k)
	for i := 0; i < k; i++ {
		codes[i] = discretize(f.ColAt(i), bins)
	}
	names := f.Columns()
	values := make([]float64, k*k)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			mi := miFromCodes(codes[i], codes[j])
			values[i*k+j] = mi
			values[j*k+i] = mi
		}
	}
	return dataframe.NewMatrix(names, names, values)
}

// NMI transforms an MI matrix into a normalized MI matrix bounded by [0,1],
// dividing each entry by sqrt(MI(x,x)*MI(y,y)).
func NMI(m *dataframe.Matrix) (*dataframe.Matrix, error) {
	n := m.NumRows()
	if n != m.NumCols() {
		return nil, fmt.Errorf("MI matrix must be square, got %dx%d", n, m.NumCols())
	}
	values := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.At(i, j) / math.Sqrt(m.At(i, i)*m.At(j, j))
			if v > 1 {
				v = 1 // precision guard
			}
			values[i*n+j] = v
		}
	}
	return dataframe.NewMatrix(m.RowLabels(), m.ColLabels(), values)
}

// MIDistance transforms an MI matrix into the MI distance matrix
// D(x,y) = 1 - MI(x,y)/H(x,y), bounded by [0,1].
func MIDistance(m *dataframe.Matrix) (*dataframe.Matrix, error) {
	n := m.NumRows()
	if n != m.NumCols() {
		return nil, fmt.Errorf("MI matrix must be square, got %dx%d", n, m.NumCols())
	}
	values := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			joint := m.At(i, i) + m.At(j, j) - m.At(i, j)
			v := 1 - m.At(i, j)/joint
			if v < 0 {
				v = 0 // precision guard
			}
			values[i*n+j] = v
		}
	}
	return dataframe.NewMatrix(m.RowLabels(), m.ColLabels(), values)
}

// discretize maps a series to integer codes. Discrete kinds factorize by
// value; Float series are cut at quantile boundaries into bins groups.
func discretize(s *dataframe.Series, bins int) []int {
	if bins <= 1 {
		bins = DefaultBins
	}
	switch s.Kind() {
	case dataframe.Categorical:
		return s.Codes()
	case dataframe.Float:
		return binFloats(s.Floats(), bins)
	}
	// Int and String factorize by rendered value.
	codes := make([]int, s.Len())
	seen := map[string]int{}
	for i := 0; i < s.Len(); i++ {
		v := s.StringAt(i)
		code, ok := seen[v]
		if !ok {
			code = len(seen)
			seen[v] = code
		}
		codes[i] = code
	}
	return codes
}

func binFloats(values []float64, bins int) []int {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	cuts := make([]float64, 0, bins-1)
	for k := 1; k < bins; k++ {
		cuts = append(cuts, sorted[k*n/bins])
	}
	codes := make([]int, n)
	for i, v := range values {
		codes[i] = sort.SearchFloat64s(cuts, v)
	}
	return codes
}

func miFromCodes(xs, ys []int) float64 {
	n := float64(len(xs))
	joint := map[[2]int]int{}
	px := map[int]int{}
	py := map[int]int{}
	for i := range xs {
		joint[[2]int{xs[i], ys[i]}]++
		px[xs[i]]++
		py[ys[i]]++
	}
	var mi float64
	for cell, count := range joint {
		pxy := float64(count) / n
		mi += pxy * math.Log(pxy*n*n/(float64(px[cell[0]])*float64(py[cell[1]])))
	}
	if mi < 0 {
		mi = 0
	}
	return mi
}
