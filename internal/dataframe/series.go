package dataframe

import (
	"sort"
	"strconv"
)

// Kind identifies the native type of a Series.
type Kind int

const (
	// String columns hold free-form text.
	String Kind = iota
	// Float columns hold floating-point measurements.
	Float
	// Int columns hold integer values.
	Int
	// Categorical columns hold integer codes into an ordered level set.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Float:
		return "float"
	case Int:
		return "int"
	case Categorical:
		return "categorical"
	}
	return "unknown"
}

// Series is one named, typed column of a Frame.
type Series struct {
	name   string
	kind   Kind
	strs   []string
	floats []float64
	ints   []int64
	codes  []int
	levels []string
}

// NewStringSeries builds a String-kind series.
func NewStringSeries(name string, values []string) *Series {
	return &Series{name: name, kind: String, strs: append([]string(nil), values...)}
}

// NewFloatSeries builds a Float-kind series.
func NewFloatSeries(name string, values []float64) *Series {
	return &Series{name: name, kind: Float, floats: append([]float64(nil), values...)}
}

// NewIntSeries builds an Int-kind series.
func NewIntSeries(name string, values []int64) *Series {
	return &Series{name: name, kind: Int, ints: append([]int64(nil), values...)}
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// Kind returns the column kind.
func (s *Series) Kind() Kind { return s.kind }

// Len returns the number of values.
func (s *Series) Len() int {
	switch s.kind {
	case String:
		return len(s.strs)
	case Float:
		return len(s.floats)
	case Int:
		return len(s.ints)
	case Categorical:
		return len(s.codes)
	}
	return 0
}

// StringAt renders the value at position i as text.
func (s *Series) StringAt(i int) string {
	switch s.kind {
	case String:
		return s.strs[i]
	case Float:
		return strconv.FormatFloat(s.floats[i], 'g', -1, 64)
	case Int:
		return strconv.FormatInt(s.ints[i], 10)
	case Categorical:
		return s.levels[s.codes[i]]
	}
	return ""
}

// Strings renders all values as text, in order.
func (s *Series) Strings() []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = s.StringAt(i)
	}
	return out
}

// Floats returns the underlying values of a Float series, or nil for other
// kinds.
func (s *Series) Floats() []float64 {
	if s.kind != Float {
		return nil
	}
	return append([]float64(nil), s.floats...)
}

// Ints returns the underlying values of an Int series, or nil for other
// kinds.
func (s *Series) Ints() []int64 {
	if s.kind != Int {
		return nil
	}
	return append([]int64(nil), s.ints...)
}

// Levels returns the ordered level set of a Categorical series, or nil for
// other kinds.
func (s *Series) Levels() []string {
	if s.kind != Categorical {
		return nil
	}
	return append([]string(nil), s.levels...)
}

// Codes returns the level codes of a Categorical series, or nil for other
// kinds.
func (s *Series) Codes() []int {
	if s.kind != Categorical {
		return nil
	}
	return append([]int(nil), s.codes...)
}

// Distinct returns the number of distinct values.
func (s *Series) Distinct() int {
	if s.kind == Categorical {
		seen := make(map[int]struct{}, len(s.levels))
		for _, c := range s.codes {
			seen[c] = struct{}{}
		}
		return len(seen)
	}
	seen := make(map[string]struct{}, s.Len())
	for i := 0; i < s.Len(); i++ {
		seen[s.StringAt(i)] = struct{}{}
	}
	return len(seen)
}

// AsCategorical converts the series to Categorical kind. Levels are the
// sorted distinct rendered values, matching R's factor level ordering.
// A Categorical series is returned unchanged.
func (s *Series) AsCategorical() *Series {
	if s.kind == Categorical {
		return s
	}
	rendered := s.Strings()
	set := make(map[string]struct{}, len(rendered))
	for _, v := range rendered {
		set[v] = struct{}{}
	}
	levels := make([]string, 0, len(set))
	for v := range set {
		levels = append(levels, v)
	}
	sort.Strings(levels)
	levelIdx := make(map[string]int, len(levels))
	for i, l := range levels {
		levelIdx[l] = i
	}
	codes := make([]int, len(rendered))
	for i, v := range rendered {
		codes[i] = levelIdx[v]
	}
	return &Series{name: s.name, kind: Categorical, codes: codes, levels: levels}
}

// take returns a new series holding the values at the given positions.
func (s *Series) take(positions []int) *Series {
	out := &Series{name: s.name, kind: s.kind, levels: s.levels}
	switch s.kind {
	case String:
		out.strs = make([]string, len(positions))
		for i, p := range positions {
			out.strs[i] = s.strs[p]
		}
	case Float:
		out.floats = make([]float64, len(positions))
		for i, p := range positions {
			out.floats[i] = s.floats[p]
		}
	case Int:
		out.ints = make([]int64, len(positions))
		for i, p := range positions {
			out.ints[i] = s.ints[p]
		}
	case Categorical:
		out.codes = make([]int, len(positions))
		for i, p := range positions {
			out.codes[i] = s.codes[p]
		}
	}
	return out
}

// Equal reports whether two series have the same name, kind, and values.
// Categorical series must also share level ordering.
func (s *Series) Equal(other *Series) bool {
	if other == nil || s.kind != other.kind {
		return false
	}
	if s.kind == Categorical && !SameOrder(s.levels, other.levels) {
		return false
	}
	return s.EqualValues(other)
}

// EqualValues reports whether two series have the same name and rendered
// values, ignoring kind. A categorical series and a string series holding
// the same labels are value-equal.
func (s *Series) EqualValues(other *Series) bool {
	if other == nil || s.name != other.name || s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.StringAt(i) != other.StringAt(i) {
			return false
		}
	}
	return true
}
