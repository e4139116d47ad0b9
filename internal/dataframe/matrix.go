// Package dataframe provides labeled tabular containers: a numeric Matrix
// with row/column labels and a Frame of typed columns over a shared index.
package dataframe

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a numeric 2-D table with unique row and column labels.
// Rows are features, columns are samples in expression data, but the type
// itself is label-agnostic.
type Matrix struct {
	data   *mat.Dense
	rows   []string
	cols   []string
	rowIdx map[string]int
	colIdx map[string]int
}

// NewMatrix builds a Matrix from row labels, column labels, and row-major
// values of length len(rows)*len(cols). Labels must be unique per axis.
func NewMatrix(rows, cols []string, values []float64) (*Matrix, error) {
	if len(rows) == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("matrix must have at least one row and one column")
	}
	if len(values) != len(rows)*len(cols) {
		return nil, fmt.Errorf("matrix values length %d, want %d (%d rows x %d cols)",
			len(values), len(rows)*len(cols), len(rows), len(cols))
	}
	rowIdx, err := indexLabels(rows, "row")
	if err != nil {
		return nil, err
	}
	colIdx, err := indexLabels(cols, "column")
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	return &Matrix{
		data:   mat.NewDense(len(rows), len(cols), vals),
		rows:   append([]string(nil), rows...),
		cols:   append([]string(nil), cols...),
		rowIdx: rowIdx,
		colIdx: colIdx,
	}, nil
}

func indexLabels(labels []string, axis string) (map[string]int, error) {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := idx[l]; dup {
			return nil, fmt.Errorf("duplicate %s label %q", axis, l)
		}
		idx[l] = i
	}
	return idx, nil
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int { return len(m.rows) }

// NumCols returns the number of columns.
func (m *Matrix) NumCols() int { return len(m.cols) }

// RowLabels returns a copy of the row labels in order.
func (m *Matrix) RowLabels() []string { return append([]string(nil), m.rows...) }

// ColLabels returns a copy of the column labels in order.
func (m *Matrix) ColLabels() []string { return append([]string(nil), m.cols...) }

// HasRow reports whether label is a row label.
func (m *Matrix) HasRow(label string) bool {
	_, ok := m.rowIdx[label]
	return ok
}

// HasCol reports whether label is a column label.
func (m *Matrix) HasCol(label string) bool {
	_, ok := m.colIdx[label]
	return ok
}

// At returns the value at positional indices (i, j).
func (m *Matrix) At(i, j int) float64 { return m.data.At(i, j) }

// Value returns the value addressed by row and column label.
func (m *Matrix) Value(row, col string) (float64, bool) {
	i, ok := m.rowIdx[row]
	if !ok {
		return 0, false
	}
	j, ok := m.colIdx[col]
	if !ok {
		return 0, false
	}
	return m.data.At(i, j), true
}

// Row returns a copy of the values in the labeled row.
func (m *Matrix) Row(label string) ([]float64, error) {
	i, ok := m.rowIdx[label]
	if !ok {
		return nil, fmt.Errorf("unknown row label %q", label)
	}
	out := make([]float64, len(m.cols))
	mat.Row(out, i, m.data)
	return out, nil
}

// Col returns a copy of the values in the labeled column.
func (m *Matrix) Col(label string) ([]float64, error) {
	j, ok := m.colIdx[label]
	if !ok {
		return nil, fmt.Errorf("unknown column label %q", label)
	}
	out := make([]float64, len(m.rows))
	mat.Col(out, j, m.data)
	return out, nil
}

// Dense exposes the underlying gonum matrix. Callers must not resize it.
func (m *Matrix) Dense() *mat.Dense { return m.data }

// Subset returns a new Matrix restricted to the given row and column labels,
// in the given order. A nil slice selects the full axis. Unknown labels are
// an error.
func (m *Matrix) Subset(rows, cols []string) (*Matrix, error) {
	if rows == nil {
		rows = m.rows
	}
	if cols == nil {
		cols = m.cols
	}
	values := make([]float64, 0, len(rows)*len(cols))
	for _, r := range rows {
		i, ok := m.rowIdx[r]
		if !ok {
			return nil, fmt.Errorf("unknown row label %q", r)
		}
		for _, c := range cols {
			j, ok := m.colIdx[c]
			if !ok {
				return nil, fmt.Errorf("unknown column label %q", c)
			}
			values = append(values, m.data.At(i, j))
		}
	}
	return NewMatrix(rows, cols, values)
}

// Equal reports whether two matrices have identical labels, order, and
// cell values.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil {
		return false
	}
	if !SameOrder(m.rows, other.rows) || !SameOrder(m.cols, other.cols) {
		return false
	}
	return mat.Equal(m.data, other.data)
}

// SameOrder reports whether two label slices are identical in content and
// order. Alignment checks are order-sensitive: a permuted index is not
// aligned.
func SameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
