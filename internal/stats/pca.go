package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// PCAResult holds principal components of a samples-by-features matrix.
type PCAResult struct {
	// Transformed holds the projected data: one row per input sample,
	// columns PC1..PCk.
	Transformed *dataframe.Matrix
	// ExplainedVarianceRatio has one entry per retained component.
	ExplainedVarianceRatio []float64
}

// PCA runs principal component analysis on m, whose rows are samples
// (observations) and columns are features. Data is mean-centered but not
// rescaled. components is clamped to what the data supports.
func PCA(m *dataframe.Matrix, components int) (*PCAResult, error) {
	r, c := m.NumRows(), m.NumCols()
	maxComponents := r
	if c < maxComponents {
		maxComponents = c
	}
	if components <= 0 || components > maxComponents {
		components = maxComponents
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m.Dense(), nil); !ok {
		return nil, fmt.Errorf("principal components failed for %dx%d matrix", r, c)
	}
	vars := pc.VarsTo(nil)
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	var total float64
	for _, v := range vars {
		total += v
	}
	ratios := make([]float64, components)
	for i := range ratios {
		ratios[i] = vars[i] / total
	}

	// Project the centered data onto the leading components.
	centered := centerColumns(m.Dense())
	var proj mat.Dense
	proj.Mul(centered, vectors.Slice(0, c, 0, components))

	names := make([]string, components)
	for i := range names {
		names[i] = fmt.Sprintf("PC%d", i+1)
	}
	values := make([]float64, 0, r*components)
	for i := 0; i < r; i++ {
		for j := 0; j < components; j++ {
			values = append(values, proj.At(i, j))
		}
	}
	transformed, err := dataframe.NewMatrix(m.RowLabels(), names, values)
	if err != nil {
		return nil, err
	}
	return &PCAResult{Transformed: transformed, ExplainedVarianceRatio: ratios}, nil
}

func centerColumns(d *mat.Dense) *mat.Dense {
	r, c := d.Dims()
	out := mat.NewDense(r, c, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, d)
		mean := stat.Mean(col, nil)
		for i := 0; i < r; i++ {
			out.Set(i, j, col[i]-mean)
		}
	}
	return out
}

// EigenPair is one eigenvalue with its eigenvector, from a covariance or
// correlation matrix decomposition.
type EigenPair struct {
	Value  float64
	Vector []float64
}

// PCAOnCov runs PCA directly on a symmetric covariance or correlation
// matrix. It returns the eigen pairs sorted by decreasing absolute
// eigenvalue, the explained-variance ratios in the same order, and the
// projection matrix W whose columns are the sorted eigenvectors.
func PCAOnCov(m *dataframe.Matrix) ([]EigenPair, []float64, *mat.Dense, error) {
	n := m.NumRows()
	if n != m.NumCols() {
		return nil, nil, nil, fmt.Errorf("covariance matrix must be square, got %dx%d", n, m.NumCols())
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, m.At(i, j))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, nil, nil, fmt.Errorf("eigendecomposition failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	pairs := make([]EigenPair, n)
	var total float64
	for i := range pairs {
		vec := make([]float64, n)
		mat.Col(vec, i, &vectors)
		pairs[i] = EigenPair{Value: values[i], Vector: vec}
		total += values[i]
	}
	sort.Slice(pairs, func(i, j int) bool {
		return abs(pairs[i].Value) > abs(pairs[j].Value)
	})

	ratios := make([]float64, n)
	w := mat.NewDense(n, n, nil)
	for i, p := range pairs {
		ratios[i] = p.Value / total
		for row, v := range p.Vector {
			w.Set(row, i, v)
		}
	}
	return pairs, ratios, w, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
