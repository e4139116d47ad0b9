package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omixlab/gexpr/internal/dataframe"
)

func TestMI_SelfIsEntropy(t *testing.T) {
	x := dataframe.NewStringSeries("x", []string{"a", "a", "b", "b"})
	mi, err := MI(x, x, DefaultBins)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2), mi, 1e-12)
}

func TestMI_Independent(t *testing.T) {
	x := dataframe.NewStringSeries("x", []string{"a", "a", "b", "b"})
	y := dataframe.NewStringSeries("y", []string{"c", "d", "c", "d"})
	mi, err := MI(x, y, DefaultBins)
	require.NoError(t, err)
	assert.InDelta(t, 0, mi, 1e-12)
}

func TestMI_PerfectDependence(t *testing.T) {
	x := dataframe.NewStringSeries("x", []string{"a", "a", "b", "b"})
	y := dataframe.NewIntSeries("y", []int64{1, 1, 2, 2})
	mi, err := MI(x, y, DefaultBins)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2), mi, 1e-12)
}

func TestMI_Deterministic(t *testing.T) {
	x := dataframe.NewFloatSeries("x", []float64{0.1, 2.3, 1.7, 4.4, 0.9, 3.1, 2.0, 5.5})
	y := dataframe.NewFloatSeries("y", []float64{1.0, 2.1, 1.5, 4.0, 1.2, 3.3, 2.2, 5.1})

	first, err := MI(x, y, 4)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := MI(x, y, 4)
		require.NoError(t, err)
		assert.Equal(t, first, again, "binned estimator is deterministic")
	}
}

func TestMI_Errors(t *testing.T) {
	x := dataframe.NewStringSeries("x", []string{"a"})
	y := dataframe.NewStringSeries("y", []string{"a", "b"})
	_, err := MI(x, y, DefaultBins)
	assert.Error(t, err)

	empty := dataframe.NewStringSeries("x", nil)
	_, err = MI(empty, empty, DefaultBins)
	assert.Error(t, err)
}

func miTestFrame(t *testing.T) *dataframe.Frame {
	t.Helper()
	f, err := dataframe.NewFrame(
		[]string{"s1", "s2", "s3", "s4"},
		dataframe.NewStringSeries("grade", []string{"a", "a", "b", "b"}),
		dataframe.NewIntSeries("stage", []int64{1, 1, 2, 2}),
		dataframe.NewStringSeries("batch", []string{"c", "d", "c", "d"}),
	)
	require.NoError(t, err)
	return f
}

func TestMIMatrix(t *testing.T) {
	m, err := MIMatrix(miTestFrame(t), DefaultBins)
	require.NoError(t, err)

	assert.Equal(t, []string{"grade", "stage", "batch"}, m.RowLabels())
	assert.Equal(t, m.RowLabels(), m.ColLabels())

	// Diagonal carries the entropies.
	v, _ := m.Value("grade", "grade")
	assert.InDelta(t, math.Log(2), v, 1e-12)

	// grade and stage are the same partition; grade and batch independent.
	v, _ = m.Value("grade", "stage")
	assert.InDelta(t, math.Log(2), v, 1e-12)
	v, _ = m.Value("grade", "batch")
	assert.InDelta(t, 0, v, 1e-12)

	// Symmetry.
	a, _ := m.Value("stage", "batch")
	b, _ := m.Value("batch", "stage")
	assert.Equal(t, a, b)
}

func TestMIMatrix_EmptyFrame(t *testing.T) {
	_, err := MIMatrix(dataframe.EmptyFrame(), DefaultBins)
	assert.Error(t, err)
}

func TestNMI(t *testing.T) {
	m, err := MIMatrix(miTestFrame(t), DefaultBins)
	require.NoError(t, err)

	nmi, err := NMI(m)
	require.NoError(t, err)

	v, _ := nmi.Value("grade", "grade")
	assert.InDelta(t, 1, v, 1e-12)
	v, _ = nmi.Value("grade", "stage")
	assert.InDelta(t, 1, v, 1e-12)
	v, _ = nmi.Value("grade", "batch")
	assert.InDelta(t, 0, v, 1e-12)
}

func TestMIDistance(t *testing.T) {
	m, err := MIMatrix(miTestFrame(t), DefaultBins)
	require.NoError(t, err)

	d, err := MIDistance(m)
	require.NoError(t, err)

	// Identical variables are at distance 0, independent ones at 1.
	v, _ := d.Value("grade", "stage")
	assert.InDelta(t, 0, v, 1e-12)
	v, _ = d.Value("grade", "batch")
	assert.InDelta(t, 1, v, 1e-12)
}

func TestNMI_NonSquare(t *testing.T) {
	m, err := dataframe.NewMatrix([]string{"a"}, []string{"x", "y"}, []float64{1, 2})
	require.NoError(t, err)
	_, err = NMI(m)
	assert.Error(t, err)
	_, err = MIDistance(m)
	assert.Error(t, err)
}
