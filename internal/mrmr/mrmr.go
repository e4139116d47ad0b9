// Package mrmr implements the minimum-redundancy maximum-relevance feature
// selection method of Ding and Peng (J Bioinform Comput Biol, 2005) over a
// precomputed mutual-information matrix.
package mrmr

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// Criterion selects the MRMR scoring rule.
type Criterion string

const (
	// MID scores features by relevance minus redundancy (difference).
	MID Criterion = "MID"
	// MIQ scores features by relevance over redundancy (quotient).
	MIQ Criterion = "MIQ"
)

// Selected is one chosen feature with its MRMR score, in selection order.
type Selected struct {
	Name  string
	Score float64
}

// Selector runs MRMR selection against an MI matrix.
type Selector struct {
	mi     *dataframe.Matrix
	logger *zap.Logger
}

// NewSelector wraps a symmetric MI matrix whose rows and columns are the
// candidate variables.
func NewSelector(mi *dataframe.Matrix) *Selector {
	return &Selector{mi: mi, logger: zap.NewNop()}
}

// SetLogger sets the per-step diagnostics logger.
func (s *Selector) SetLogger(l *zap.Logger) { s.logger = l }

// Select picks up to n features most relevant to target and least redundant
// with each other. exclude removes candidates from the search. Ties are
// broken by matrix column order, making the selection deterministic.
func (s *Selector) Select(target string, n int, criterion Criterion, exclude []string) ([]Selected, error) {
	if !s.mi.HasRow(target) {
		return nil, fmt.Errorf("target %q not in MI matrix", target)
	}
	if criterion != MID && criterion != MIQ {
		return nil, fmt.Errorf("unsupported criterion %q, want MID or MIQ", criterion)
	}
	excluded := make(map[string]bool, len(exclude)+1)
	excluded[target] = true
	for _, name := range exclude {
		excluded[name] = true
	}

	// Candidate pool in matrix order.
	var pool []string
	for _, name := range s.mi.RowLabels() {
		if !excluded[name] {
			pool = append(pool, name)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("no candidate features remain")
	}
	if n <= 0 || n > len(pool) {
		n = len(pool)
	}

	var selected []Selected
	var chosen []string
	for len(selected) < n {
		best := -1
		var bestScore float64
		for i, f := range pool {
			if f == "" {
				continue
			}
			var score float64
			if len(chosen) == 0 {
				score = s.value(target, f)
			} else {
				score = s.score(append(chosen, f), target, criterion)
			}
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		name := pool[best]
		pool[best] = "" // consumed
		chosen = append(chosen, name)
		selected = append(selected, Selected{Name: name, Score: bestScore})
		s.logger.Debug("selected feature",
			zap.Int("rank", len(selected)),
			zap.String("feature", name),
			zap.Float64("score", bestScore))
	}
	return selected, nil
}

// value reads MI(a, b) from the matrix.
func (s *Selector) value(a, b string) float64 {
	v, _ := s.mi.Value(a, b)
	return v
}

// score evaluates the MRMR criterion for candidate set set against target.
func (s *Selector) score(set []string, target string, criterion Criterion) float64 {
	relevance := 0.0
	for _, f := range set {
		relevance += s.value(target, f)
	}
	relevance /= float64(len(set))

	redundancy := 0.0
	for _, a := range set {
		for _, b := range set {
			redundancy += s.value(a, b)
		}
	}
	redundancy /= float64(len(set) * len(set))

	if criterion == MIQ {
		return relevance / redundancy
	}
	return relevance - redundancy
}
