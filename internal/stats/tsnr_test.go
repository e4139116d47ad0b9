package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omixlab/gexpr/internal/dataframe"
)

func mustMatrix(t *testing.T, rows, cols []string, values []float64) *dataframe.Matrix {
	t.Helper()
	m, err := dataframe.NewMatrix(rows, cols, values)
	require.NoError(t, err)
	return m
}

func TestTSNR_KnownValue(t *testing.T) {
	x := mustMatrix(t, []string{"g1"}, []string{"a1", "a2"}, []float64{0, 2})
	y := mustMatrix(t, []string{"g1"}, []string{"b1", "b2"}, []float64{10, 12})

	// Means 1 and 11, per-group variance 2 with two samples each:
	// signal 10, noise sqrt(2/2 + 2/2) = sqrt(2).
	got, err := TSNR(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 10/math.Sqrt(2), got, 1e-9)
}

func TestTSNR_FeatureMismatch(t *testing.T) {
	x := mustMatrix(t, []string{"g1"}, []string{"a1"}, []float64{0})
	y := mustMatrix(t, []string{"g1", "g2"}, []string{"b1"}, []float64{1, 2})
	_, err := TSNR(x, y)
	assert.Error(t, err)
}

func TestTSNR_SingleSampleGroup(t *testing.T) {
	// A one-sample group has no variance estimate; refuse instead of
	// returning NaN or Inf.
	single := mustMatrix(t, []string{"g1"}, []string{"a1"}, []float64{0})
	pair := mustMatrix(t, []string{"g1"}, []string{"b1", "b2"}, []float64{10, 12})

	_, err := TSNR(single, pair)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 samples")

	_, err = TSNR(pair, single)
	assert.Error(t, err)

	_, err = TSNRPValue(single, pair, 10, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestTSNRPValue_Deterministic(t *testing.T) {
	x := mustMatrix(t, []string{"g1", "g2"}, []string{"a1", "a2", "a3"},
		[]float64{
			0, 1, 0.5,
			2, 2.5, 2.2,
		})
	y := mustMatrix(t, []string{"g1", "g2"}, []string{"b1", "b2", "b3"},
		[]float64{
			10, 11, 10.5,
			8, 8.5, 8.2,
		})

	first, err := TSNRPValue(x, y, 200, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	again, err := TSNRPValue(x, y, 200, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, first, again, "same seed, same p-value")
	assert.Greater(t, first, 0.0)
	assert.LessOrEqual(t, first, 1.0)
}

func TestTSNRPValue_ZeroHitsFloor(t *testing.T) {
	// Any p-value of exactly 0 is reported as half a permutation instead.
	x := mustMatrix(t, []string{"g1"}, []string{"a1", "a2"}, []float64{0, 0.1})
	y := mustMatrix(t, []string{"g1"}, []string{"b1", "b2"}, []float64{100, 100.1})

	p, err := TSNRPValue(x, y, 100, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.5/100)
}

func TestTSNRPValue_BadPermute(t *testing.T) {
	x := mustMatrix(t, []string{"g1"}, []string{"a1", "a2"}, []float64{0, 1})
	_, err := TSNRPValue(x, x, 0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestTSNRBootstrap(t *testing.T) {
	x := mustMatrix(t, []string{"g1", "g2"}, []string{"a1", "a2", "a3"},
		[]float64{
			0, 1, 0.5,
			2, 2.5, 2.2,
		})
	y := mustMatrix(t, []string{"g1", "g2"}, []string{"b1", "b2", "b3"},
		[]float64{
			10, 11, 10.5,
			8, 8.5, 8.2,
		})

	first, err := TSNRBootstrap(x, y, 3, 50, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Greater(t, first.Mean, 0.0)
	assert.GreaterOrEqual(t, first.StdDev, 0.0)

	again, err := TSNRBootstrap(x, y, 3, 50, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, first, again, "same seed, same summary")
}

func TestTSNRBootstrap_BadArgs(t *testing.T) {
	x := mustMatrix(t, []string{"g1"}, []string{"a1", "a2"}, []float64{0, 1})
	_, err := TSNRBootstrap(x, x, 0, 10, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
	_, err = TSNRBootstrap(x, x, 2, 0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
