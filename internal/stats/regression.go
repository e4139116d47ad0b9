package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fit holds an ordinary least-squares fit of y on x in some transformed
// space.
type Fit struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// Regressions holds the three basic trendline fits: linear (y = a*x + b),
// exponential (y = exp(b) * exp(a*x), fitted on log y), and power
// (y = exp(b) * x^a, fitted on log x and log y).
type Regressions struct {
	Linear      Fit
	Exponential Fit
	Power       Fit
}

// BasicRegression fits the three basic trendlines. Non-positive values fed
// into a log-space fit yield NaN coefficients for that fit only.
func BasicRegression(x, y []float64) (Regressions, error) {
	if len(x) != len(y) {
		return Regressions{}, fmt.Errorf("input lengths differ: %d vs %d", len(x), len(y))
	}
	if len(x) < 2 {
		return Regressions{}, fmt.Errorf("need at least two points, got %d", len(x))
	}
	logx := mapLog(x)
	logy := mapLog(y)
	return Regressions{
		Linear:      fitLine(x, y),
		Exponential: fitLine(x, logy),
		Power:       fitLine(logx, logy),
	}, nil
}

func fitLine(x, y []float64) Fit {
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return Fit{
		Slope:     beta,
		Intercept: alpha,
		R2:        stat.RSquared(x, y, nil, alpha, beta),
	}
}

func mapLog(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Log(x)
	}
	return out
}
