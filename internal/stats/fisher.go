// Package stats provides the statistical routines of the toolkit: Fisher's
// exact test, multiple-testing corrections, PCA, mutual information, the
// transcriptomic SNR, and basic regression fits.
package stats

import (
	"fmt"
	"math"

	fet "github.com/glycerine/golang-fisher-exact"
)

// FisherResult holds the outcome of a Fisher's exact test on a 2x2 table.
type FisherResult struct {
	OddsRatio float64 // sample odds ratio (n11*n22)/(n12*n21)
	PValue    float64 // two-tailed p-value
}

// FisherExact runs Fisher's exact test on the 2x2 contingency table
//
//	n11 n12
//	n21 n22
func FisherExact(n11, n12, n21, n22 int) FisherResult {
	_, _, _, twop := fet.FisherExactTest(n11, n12, n21, n22)
	return FisherResult{OddsRatio: oddsRatio(n11, n12, n21, n22), PValue: twop}
}

// FisherFromMarginals runs the test on a table given by its marginal
// counts:
//
//	a     (b-a)
//	(c-a) (d-b-c+a)
//
// where a is the overlap, b and c the two set sizes, and d the background
// size.
func FisherFromMarginals(a, b, c, d int) (FisherResult, error) {
	n11, n12, n21, n22 := a, b-a, c-a, d-b-c+a
	if n12 < 0 || n21 < 0 || n22 < 0 {
		return FisherResult{}, fmt.Errorf("inconsistent marginals a=%d b=%d c=%d d=%d", a, b, c, d)
	}
	return FisherExact(n11, n12, n21, n22), nil
}

// FisherSets runs the test for two gene sets u and v against their
// universes U and V. The background is the intersection of the universes;
// u and v are first restricted to it.
func FisherSets(u, v, U, V map[string]struct{}) (FisherResult, error) {
	background := intersect(U, V)
	nu := intersect(u, background)
	nv := intersect(v, background)
	a := len(intersect(nu, nv))
	return FisherFromMarginals(a, len(nu), len(nv), len(background))
}

func oddsRatio(n11, n12, n21, n22 int) float64 {
	if n12 == 0 || n21 == 0 {
		return math.Inf(1)
	}
	return float64(n11) * float64(n22) / (float64(n12) * float64(n21))
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(map[string]struct{}, len(a))
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}
