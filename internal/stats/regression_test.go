package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicRegression_Linear(t *testing.T) {
	res, err := BasicRegression([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)

	assert.InDelta(t, 2, res.Linear.Slope, 1e-9)
	assert.InDelta(t, 0, res.Linear.Intercept, 1e-9)
	assert.InDelta(t, 1, res.Linear.R2, 1e-9)
}

func TestBasicRegression_Exponential(t *testing.T) {
	// y = e^x: perfect fit in log-y space.
	x := []float64{0, 1, 2, 3}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = math.Exp(v)
	}
	res, err := BasicRegression(x, y)
	require.NoError(t, err)

	assert.InDelta(t, 1, res.Exponential.Slope, 1e-9)
	assert.InDelta(t, 0, res.Exponential.Intercept, 1e-9)
	assert.InDelta(t, 1, res.Exponential.R2, 1e-9)
}

func TestBasicRegression_Power(t *testing.T) {
	// y = x^2: perfect fit in log-log space.
	res, err := BasicRegression([]float64{1, 2, 4, 8}, []float64{1, 4, 16, 64})
	require.NoError(t, err)

	assert.InDelta(t, 2, res.Power.Slope, 1e-9)
	assert.InDelta(t, 0, res.Power.Intercept, 1e-9)
	assert.InDelta(t, 1, res.Power.R2, 1e-9)
}

func TestBasicRegression_NonPositiveGivesNaN(t *testing.T) {
	res, err := BasicRegression([]float64{1, 2, 3}, []float64{-1, 2, 3})
	require.NoError(t, err)

	// The linear fit is unaffected; the log-space fits degrade to NaN.
	assert.False(t, math.IsNaN(res.Linear.Slope))
	assert.True(t, math.IsNaN(res.Exponential.Slope))
	assert.True(t, math.IsNaN(res.Power.Slope))
}

func TestBasicRegression_Errors(t *testing.T) {
	_, err := BasicRegression([]float64{1}, []float64{1, 2})
	assert.Error(t, err)

	_, err = BasicRegression([]float64{1}, []float64{1})
	assert.Error(t, err)
}
