package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omixlab/gexpr/internal/dataframe"
)

func TestPCA_CollinearData(t *testing.T) {
	// Five samples on the line y = 2x: one component carries all variance.
	m, err := dataframe.NewMatrix(
		[]string{"s1", "s2", "s3", "s4", "s5"},
		[]string{"f1", "f2"},
		[]float64{
			0, 0,
			1, 2,
			2, 4,
			3, 6,
			4, 8,
		})
	require.NoError(t, err)

	res, err := PCA(m, 2)
	require.NoError(t, err)

	require.Len(t, res.ExplainedVarianceRatio, 2)
	assert.InDelta(t, 1, res.ExplainedVarianceRatio[0], 1e-9)
	assert.InDelta(t, 0, res.ExplainedVarianceRatio[1], 1e-9)

	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5"}, res.Transformed.RowLabels())
	assert.Equal(t, []string{"PC1", "PC2"}, res.Transformed.ColLabels())

	// The middle sample sits at the centroid; scores are symmetric around it.
	assert.InDelta(t, 0, res.Transformed.At(2, 0), 1e-9)
	assert.InDelta(t, -res.Transformed.At(4, 0), res.Transformed.At(0, 0), 1e-9)
	// Sample spacing along PC1 is sqrt(1 + 4) per step, up to sign.
	assert.InDelta(t, 2*math.Sqrt(5), math.Abs(res.Transformed.At(0, 0)), 1e-9)
	// PC2 carries nothing.
	for i := 0; i < 5; i++ {
		assert.InDelta(t, 0, res.Transformed.At(i, 1), 1e-9)
	}
}

func TestPCA_ComponentClamping(t *testing.T) {
	m, err := dataframe.NewMatrix(
		[]string{"s1", "s2", "s3"},
		[]string{"f1", "f2"},
		[]float64{1, 0, 0, 1, 1, 1})
	require.NoError(t, err)

	// Asking for more components than the data supports clamps to 2.
	res, err := PCA(m, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Transformed.NumCols())

	// Zero or negative keeps the maximum as well.
	res, err = PCA(m, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Transformed.NumCols())
}

func TestPCAOnCov(t *testing.T) {
	m, err := dataframe.NewMatrix(
		[]string{"x", "y"},
		[]string{"x", "y"},
		[]float64{
			3, 0,
			0, 1,
		})
	require.NoError(t, err)

	pairs, ratios, w, err := PCAOnCov(m)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.InDelta(t, 3, pairs[0].Value, 1e-9)
	assert.InDelta(t, 1, pairs[1].Value, 1e-9)
	assert.InDelta(t, 0.75, ratios[0], 1e-9)
	assert.InDelta(t, 0.25, ratios[1], 1e-9)

	// Leading eigenvector is the y axis, up to sign.
	assert.InDelta(t, 0, math.Abs(pairs[0].Vector[0]), 1e-9)
	assert.InDelta(t, 1, math.Abs(pairs[0].Vector[1]), 1e-9)

	// W columns are the sorted eigenvectors.
	r, c := w.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.InDelta(t, math.Abs(pairs[0].Vector[1]), math.Abs(w.At(1, 0)), 1e-12)
}

func TestPCAOnCov_NonSquare(t *testing.T) {
	m, err := dataframe.NewMatrix([]string{"a"}, []string{"x", "y"}, []float64{1, 2})
	require.NoError(t, err)
	_, _, _, err = PCAOnCov(m)
	assert.Error(t, err)
}
