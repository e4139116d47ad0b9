package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBonferroni(t *testing.T) {
	th, err := Bonferroni([]float64{0.01, 0.02, 0.03, 0.04}, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 0.0125, th, 1e-12)

	_, err = Bonferroni(nil, 0.05)
	assert.Error(t, err)
}

func TestBHThreshold(t *testing.T) {
	// Largest p-value already passes its step-up threshold.
	th, err := BHThreshold([]float64{0.01, 0.02, 0.04}, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, th, 1e-12)

	// Nothing passes: the walk ends at alpha/m.
	th, err = BHThreshold([]float64{0.9, 0.8, 0.7}, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 0.05/3, th, 1e-12)

	_, err = BHThreshold(nil, 0.05)
	assert.Error(t, err)
}

func TestBLThreshold(t *testing.T) {
	th, err := BLThreshold([]float64{0.001, 0.5, 0.9}, 0.05)
	require.NoError(t, err)
	assert.Greater(t, th, 0.0)

	_, err = BLThreshold(nil, 0.05)
	assert.Error(t, err)
}

func TestBHAdjust(t *testing.T) {
	// Evenly spaced p-values all adjust to the largest one.
	got := BHAdjust([]float64{0.01, 0.02, 0.03, 0.04})
	for _, q := range got {
		assert.InDelta(t, 0.04, q, 1e-12)
	}
}

func TestBHAdjust_Cummin(t *testing.T) {
	got := BHAdjust([]float64{0.005, 0.009, 0.05, 0.1})
	want := []float64{0.018, 0.018, 0.05 * 4 / 3, 0.1}
	require.Len(t, got, 4)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
	}
}

func TestBHAdjust_ClampedToOne(t *testing.T) {
	got := BHAdjust([]float64{0.9, 0.95})
	for _, q := range got {
		assert.LessOrEqual(t, q, 1.0)
	}
}

func TestBHAdjust_Empty(t *testing.T) {
	assert.Nil(t, BHAdjust(nil))
}

func TestBHAdjust_PreservesInputOrder(t *testing.T) {
	p := []float64{0.5, 0.001, 0.03}
	got := BHAdjust(p)
	require.Len(t, got, 3)
	// Smallest input p gets the smallest q, in place.
	assert.Less(t, got[1], got[2])
	assert.Less(t, got[2], got[0])
	// Input slice untouched.
	assert.Equal(t, []float64{0.5, 0.001, 0.03}, p)
}
