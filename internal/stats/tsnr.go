package stats

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// TSNR computes the transcriptomic signal-to-noise ratio between a case
// matrix x and a control matrix y, both features-by-samples over the same
// features: the euclidean distance between the two mean expression profiles
// divided by the pooled per-group noise estimate.
func TSNR(x, y *dataframe.Matrix) (float64, error) {
	if x.NumRows() != y.NumRows() {
		return 0, fmt.Errorf("matrices have %d and %d features, want equal", x.NumRows(), y.NumRows())
	}
	if x.NumCols() < 2 || y.NumCols() < 2 {
		return 0, fmt.Errorf("each group needs at least 2 samples, got %d and %d", x.NumCols(), y.NumCols())
	}
	return tsnrDense(matrixColumns(x), matrixColumns(y)), nil
}

// TSNRPValue estimates the permutation p-value of the observed tSNR by
// shuffling the case/control column assignment permute times. The result
// is deterministic for a fixed rng seed. A zero count of permutations at or
// above the observed value is reported as 0.5/permute.
func TSNRPValue(x, y *dataframe.Matrix, permute int, rng *rand.Rand) (float64, error) {
	if permute <= 0 {
		return 0, fmt.Errorf("permute must be positive")
	}
	xc := matrixColumns(x)
	yc := matrixColumns(y)
	if len(xc) < 2 || len(yc) < 2 {
		return 0, fmt.Errorf("each group needs at least 2 samples, got %d and %d", len(xc), len(yc))
	}
	if len(xc[0]) != len(yc[0]) {
		return 0, fmt.Errorf("matrices have %d and %d features, want equal", len(xc[0]), len(yc[0]))
	}
	observed := tsnrDense(xc, yc)

	pool := append(append([][]float64{}, xc...), yc...)
	m := len(xc)
	hits := 0
	for i := 0; i < permute; i++ {
		rng.Shuffle(len(pool), func(a, b int) { pool[a], pool[b] = pool[b], pool[a] })
		if tsnrDense(pool[:m], pool[m:]) >= observed {
			hits++
		}
	}
	if hits == 0 {
		return 0.5 / float64(permute), nil
	}
	return float64(hits) / float64(permute), nil
}

// BootSummary summarizes a bootstrap distribution.
type BootSummary struct {
	Mean   float64
	Median float64
	StdDev float64
}

// TSNRBootstrap estimates the tSNR by resampling n columns with replacement
// from each group boot times. Bootstrapping inflates the estimate when n
// approaches the true sample sizes; prefer TSNRPValue for significance.
func TSNRBootstrap(x, y *dataframe.Matrix, n, boot int, rng *rand.Rand) (BootSummary, error) {
	if n < 2 || boot <= 0 {
		return BootSummary{}, fmt.Errorf("n must be at least 2 and boot positive")
	}
	xc := matrixColumns(x)
	yc := matrixColumns(y)
	if len(xc[0]) != len(yc[0]) {
		return BootSummary{}, fmt.Errorf("matrices have %d and %d features, want equal", len(xc[0]), len(yc[0]))
	}
	out := make([]float64, boot)
	for i := range out {
		xs := make([][]float64, n)
		ys := make([][]float64, n)
		for j := 0; j < n; j++ {
			xs[j] = xc[rng.Intn(len(xc))]
			ys[j] = yc[rng.Intn(len(yc))]
		}
		out[i] = tsnrDense(xs, ys)
	}
	mean, err := stats.Mean(out)
	if err != nil {
		return BootSummary{}, err
	}
	median, err := stats.Median(out)
	if err != nil {
		return BootSummary{}, err
	}
	sd, err := stats.StandardDeviation(out)
	if err != nil {
		return BootSummary{}, err
	}
	return BootSummary{Mean: mean, Median: median, StdDev: sd}, nil
}

// matrixColumns returns the sample profiles of a features-by-samples
// matrix, one slice per column.
func matrixColumns(m *dataframe.Matrix) [][]float64 {
	cols := make([][]float64, m.NumCols())
	for j := range cols {
		col := make([]float64, m.NumRows())
		for i := range col {
			col[i] = m.At(i, j)
		}
		cols[j] = col
	}
	return cols
}

func tsnrDense(x, y [][]float64) float64 {
	m := float64(len(x))
	n := float64(len(y))
	xmean := meanProfile(x)
	ymean := meanProfile(y)
	signal := floats.Distance(xmean, ymean, 2)

	var xvar, yvar float64
	for _, col := range x {
		d := floats.Distance(col, xmean, 2)
		xvar += d * d
	}
	xvar /= m - 1
	for _, col := range y {
		d := floats.Distance(col, ymean, 2)
		yvar += d * d
	}
	yvar /= n - 1

	noise := math.Sqrt(xvar/m + yvar/n)
	return signal / noise
}

func meanProfile(cols [][]float64) []float64 {
	out := make([]float64, len(cols[0]))
	for _, col := range cols {
		floats.Add(out, col)
	}
	floats.Scale(1/float64(len(cols)), out)
	return out
}
