// Package infer decides, column by column, whether tabular data should be
// treated as categorical rather than continuous.
package infer

import (
	"strings"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// DefaultRatio is the default row-count-to-cardinality ratio for automatic
// inference: a column is categorical when rows > ratio * distinct values.
// The ratio is a heuristic with no deeper justification; override it or use
// an explicit column list when it misclassifies.
const DefaultRatio = 10

// Mode selects how categorical columns are chosen: automatically, not at
// all, or from an explicit column list.
type Mode struct {
	auto    bool
	columns []string
}

// Auto returns the automatic inference mode.
func Auto() Mode { return Mode{auto: true} }

// None returns the mode that leaves every column untouched.
func None() Mode { return Mode{} }

// Columns returns an explicit-list mode; the named columns are marked
// categorical without inspection.
func Columns(names ...string) Mode {
	return Mode{columns: append([]string(nil), names...)}
}

// ParseMode interprets a textual mode: "auto", "none" (or empty), or a
// comma-separated column list.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return Auto()
	case "", "none":
		return None()
	}
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return Columns(names...)
}

// Categorical returns the names of the columns of f that should be treated
// as categorical under the given mode. The function is pure: f is never
// modified, and the result order follows the frame's column order for
// explicit-list-free modes. ratio <= 0 falls back to DefaultRatio.
//
// In automatic mode only Int- and String-kind columns are inspected; Float
// columns are never auto-inferred. A column qualifies when the row count
// exceeds ratio times its distinct-value count.
func Categorical(f *dataframe.Frame, mode Mode, ratio int) []string {
	if mode.columns != nil {
		return append([]string(nil), mode.columns...)
	}
	if !mode.auto || f == nil || f.Empty() {
		return nil
	}
	if ratio <= 0 {
		ratio = DefaultRatio
	}
	n := f.NumRows()
	var out []string
	for i := 0; i < f.NumCols(); i++ {
		s := f.ColAt(i)
		switch s.Kind() {
		case dataframe.Int, dataframe.String:
			if n > ratio*s.Distinct() {
				out = append(out, s.Name())
			}
		}
	}
	return out
}

// Apply returns a copy of f with the columns chosen by Categorical
// converted to Categorical kind. A nil result column set returns f
// unchanged.
func Apply(f *dataframe.Frame, mode Mode, ratio int) (*dataframe.Frame, error) {
	cols := Categorical(f, mode, ratio)
	if len(cols) == 0 {
		return f, nil
	}
	return f.SetCategorical(cols)
}
