// Package eset defines the ExpressionSet entity: an assay matrix bundled
// with aligned feature and phenotype tables plus free-form metadata,
// mirroring Bioconductor's ExpressionSet.
package eset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// Metadata holds provenance annotations such as title and source.
type Metadata map[string]string

// Clone returns an independent copy of the metadata.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AlignmentError reports a feature or phenotype table whose index does not
// match the assay matrix. Order matters: a permuted index is misaligned.
type AlignmentError struct {
	Axis   string // "features" or "samples"
	Detail string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("alignment: %s %s", e.Axis, e.Detail)
}

// ExpressionSet bundles an assay matrix (features x samples) with a feature
// table indexed by the matrix rows, a phenotype table indexed by the matrix
// columns, and metadata. The assay shape is fixed after construction;
// Subset derives new, consistently aligned instances.
type ExpressionSet struct {
	exprs *dataframe.Matrix
	fData *dataframe.Frame
	pData *dataframe.Frame
	meta  Metadata
}

// New constructs an ExpressionSet. fData and pData may be nil, which is
// treated as an empty table. A non-empty fData must be indexed exactly by
// the matrix row labels, and a non-empty pData by the matrix column labels;
// misalignment fails immediately with an AlignmentError.
func New(exprs *dataframe.Matrix, fData, pData *dataframe.Frame, meta Metadata) (*ExpressionSet, error) {
	if exprs == nil {
		return nil, fmt.Errorf("exprs matrix is required")
	}
	e := &ExpressionSet{exprs: exprs, meta: meta.Clone()}
	if e.meta == nil {
		e.meta = Metadata{}
	}
	if err := e.SetFData(fData); err != nil {
		return nil, err
	}
	if err := e.SetPData(pData); err != nil {
		return nil, err
	}
	return e, nil
}

// Exprs returns the assay matrix.
func (e *ExpressionSet) Exprs() *dataframe.Matrix { return e.exprs }

// FData returns the feature table.
func (e *ExpressionSet) FData() *dataframe.Frame { return e.fData }

// PData returns the phenotype table.
func (e *ExpressionSet) PData() *dataframe.Frame { return e.pData }

// Meta returns the metadata mapping. Callers may mutate values freely;
// metadata carries no alignment contract.
func (e *ExpressionSet) Meta() Metadata { return e.meta }

// SetFData replaces the feature table, re-validating alignment against the
// assay matrix rows. nil resets to an empty table.
func (e *ExpressionSet) SetFData(f *dataframe.Frame) error {
	if f == nil {
		e.fData = dataframe.EmptyFrame()
		return nil
	}
	if !f.Empty() && !dataframe.SameOrder(f.Index(), e.exprs.RowLabels()) {
		return &AlignmentError{Axis: "features", Detail: "fData index does not match exprs rows"}
	}
	e.fData = f
	return nil
}

// SetPData replaces the phenotype table, re-validating alignment against
// the assay matrix columns. nil resets to an empty table.
func (e *ExpressionSet) SetPData(p *dataframe.Frame) error {
	if p == nil {
		e.pData = dataframe.EmptyFrame()
		return nil
	}
	if !p.Empty() && !dataframe.SameOrder(p.Index(), e.exprs.ColLabels()) {
		return &AlignmentError{Axis: "samples", Detail: "pData index does not match exprs columns"}
	}
	e.pData = p
	return nil
}

// Contains reports whether label is a sample (column) or feature (row) of
// the assay matrix.
func (e *ExpressionSet) Contains(label string) bool {
	return e.exprs.HasCol(label) || e.exprs.HasRow(label)
}

// Subset returns a new ExpressionSet restricted to the given feature and
// sample labels. Selection is label-based; nil selects the full axis. An
// empty non-nil selection is an error: the assay matrix cannot lose an
// entire axis. fData and pData are sliced by the same labels unless empty,
// and metadata is carried forward unchanged.
func (e *ExpressionSet) Subset(features, samples []string) (*ExpressionSet, error) {
	exprs, err := e.exprs.Subset(features, samples)
	if err != nil {
		return nil, fmt.Errorf("subset exprs: %w", err)
	}
	fData := dataframe.EmptyFrame()
	if !e.fData.Empty() {
		if fData, err = e.fData.Subset(features); err != nil {
			return nil, fmt.Errorf("subset fData: %w", err)
		}
	}
	pData := dataframe.EmptyFrame()
	if !e.pData.Empty() {
		if pData, err = e.pData.Subset(samples); err != nil {
			return nil, fmt.Errorf("subset pData: %w", err)
		}
	}
	return New(exprs, fData, pData, e.meta)
}

// Describe renders a deterministic human-readable summary: title, table
// shapes, first/last feature and sample labels, then the remaining
// metadata entries sorted by key.
func (e *ExpressionSet) Describe() string {
	title := e.meta["title"]
	if title == "" {
		title = "ExpressionSet instance"
	}
	features := e.exprs.RowLabels()
	samples := e.exprs.ColLabels()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "exprs: %d features, %d samples\n", e.exprs.NumRows(), e.exprs.NumCols())
	fmt.Fprintf(&b, "fData: %d features, %d attributes\n", e.fData.NumRows(), e.fData.NumCols())
	fmt.Fprintf(&b, "pData: %d samples, %d variables\n", e.pData.NumRows(), e.pData.NumCols())
	fmt.Fprintf(&b, "features: %s, ..., %s\n", features[0], features[len(features)-1])
	fmt.Fprintf(&b, "samples: %s, ..., %s\n", samples[0], samples[len(samples)-1])

	keys := make([]string, 0, len(e.meta))
	for k := range e.meta {
		if k != "title" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, e.meta[k])
	}
	return b.String()
}

// String implements fmt.Stringer via Describe.
func (e *ExpressionSet) String() string { return e.Describe() }
