package dataframe

import "fmt"

// Frame is an ordered collection of equally-sized Series sharing a string
// index. An empty Frame (no rows, no columns) is the zero attribute table.
type Frame struct {
	index  []string
	idx    map[string]int
	cols   []*Series
	byName map[string]*Series
}

// NewFrame builds a Frame over the given index. Every series must have
// exactly len(index) values; column names must be unique.
func NewFrame(index []string, cols ...*Series) (*Frame, error) {
	idx, err := indexLabels(index, "index")
	if err != nil {
		return nil, err
	}
	f := &Frame{
		index:  append([]string(nil), index...),
		idx:    idx,
		byName: make(map[string]*Series, len(cols)),
	}
	for _, s := range cols {
		if s.Len() != len(index) {
			return nil, fmt.Errorf("column %q has %d values, index has %d", s.Name(), s.Len(), len(index))
		}
		if _, dup := f.byName[s.Name()]; dup {
			return nil, fmt.Errorf("duplicate column name %q", s.Name())
		}
		f.cols = append(f.cols, s)
		f.byName[s.Name()] = s
	}
	return f, nil
}

// EmptyFrame returns a Frame with no rows and no columns.
func EmptyFrame() *Frame {
	return &Frame{idx: map[string]int{}, byName: map[string]*Series{}}
}

// Empty reports whether the frame has no rows and no columns.
func (f *Frame) Empty() bool { return len(f.index) == 0 && len(f.cols) == 0 }

// NumRows returns the number of index entries.
func (f *Frame) NumRows() int { return len(f.index) }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Index returns a copy of the row labels in order.
func (f *Frame) Index() []string { return append([]string(nil), f.index...) }

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	for i, s := range f.cols {
		out[i] = s.Name()
	}
	return out
}

// Col returns the named column.
func (f *Frame) Col(name string) (*Series, bool) {
	s, ok := f.byName[name]
	return s, ok
}

// ColAt returns the column at position i.
func (f *Frame) ColAt(i int) *Series { return f.cols[i] }

// HasIndex reports whether label is in the row index.
func (f *Frame) HasIndex(label string) bool {
	_, ok := f.idx[label]
	return ok
}

// Subset returns a new Frame restricted to the given index labels, in the
// given order. A nil slice selects all rows. Unknown labels are an error.
func (f *Frame) Subset(labels []string) (*Frame, error) {
	if labels == nil {
		labels = f.index
	}
	positions := make([]int, len(labels))
	for i, l := range labels {
		p, ok := f.idx[l]
		if !ok {
			return nil, fmt.Errorf("unknown index label %q", l)
		}
		positions[i] = p
	}
	cols := make([]*Series, len(f.cols))
	for i, s := range f.cols {
		cols[i] = s.take(positions)
	}
	return NewFrame(labels, cols...)
}

// SetCategorical returns a copy of the frame with the named columns
// converted to Categorical kind. Unknown column names are an error.
func (f *Frame) SetCategorical(names []string) (*Frame, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := f.byName[n]; !ok {
			return nil, fmt.Errorf("unknown column %q", n)
		}
		want[n] = true
	}
	cols := make([]*Series, len(f.cols))
	for i, s := range f.cols {
		if want[s.Name()] {
			cols[i] = s.AsCategorical()
		} else {
			cols[i] = s
		}
	}
	return NewFrame(f.index, cols...)
}

// Equal reports whether two frames have identical index order, column
// order, kinds, and values.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil {
		return false
	}
	if !SameOrder(f.index, other.index) || len(f.cols) != len(other.cols) {
		return false
	}
	for i, s := range f.cols {
		if !s.Equal(other.cols[i]) {
			return false
		}
	}
	return true
}

// EqualValues reports whether two frames have identical index order, column
// order, and rendered cell values, ignoring column kinds.
func (f *Frame) EqualValues(other *Frame) bool {
	if other == nil {
		return false
	}
	if !SameOrder(f.index, other.index) || len(f.cols) != len(other.cols) {
		return false
	}
	for i, s := range f.cols {
		if !s.EqualValues(other.cols[i]) {
			return false
		}
	}
	return true
}
