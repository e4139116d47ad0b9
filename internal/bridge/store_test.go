package bridge

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omixlab/gexpr/internal/dataframe"
	"github.com/omixlab/gexpr/internal/eset"
)

func testStoreESet(t *testing.T) *eset.ExpressionSet {
	t.Helper()
	exprs, err := dataframe.NewMatrix(
		[]string{"TP53", "KRAS", "EGFR"},
		[]string{"s1", "s2"},
		[]float64{
			1.5, 2,
			-3, 0.25,
			0, 6,
		})
	require.NoError(t, err)
	fData, err := dataframe.NewFrame(
		[]string{"TP53", "KRAS", "EGFR"},
		dataframe.NewStringSeries("chrom", []string{"17", "12", "7"}),
		dataframe.NewIntSeries("entrez", []int64{7157, 3845, 1956}),
	)
	require.NoError(t, err)
	pData, err := dataframe.NewFrame(
		[]string{"s1", "s2"},
		dataframe.NewStringSeries("tissue", []string{"lung", "liver"}),
		dataframe.NewFloatSeries("age", []float64{61.5, 48}),
	)
	require.NoError(t, err)
	e, err := eset.New(exprs, fData, pData, eset.Metadata{"title": "pilot", "source": "orig.rda"})
	require.NoError(t, err)
	return e
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.duckdb")
	e := testStoreESet(t)

	require.NoError(t, WriteStore(path, e, StoreOptions{}))

	got, err := ReadStore(path, StoreOptions{})
	require.NoError(t, err)

	assert.True(t, e.Exprs().Equal(got.Exprs()))
	assert.True(t, e.FData().Equal(got.FData()), "Int and String kinds survive")
	assert.True(t, e.PData().Equal(got.PData()), "Float kind survives")
	assert.Equal(t, "pilot", got.Meta()["title"])
}

func TestReadStore_SetsSourceMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.duckdb")
	e := testStoreESet(t)

	require.NoError(t, WriteStore(path, e, StoreOptions{}))

	got, err := ReadStore(path, StoreOptions{})
	require.NoError(t, err)
	// The stored "orig.rda" source is superseded by where this copy
	// actually came from.
	assert.Equal(t, path, got.Meta()["source"])
}

func TestStore_RoundTripMinimal(t *testing.T) {
	// Smallest useful case: a 2x2 assay with no attribute tables at all.
	exprs, err := dataframe.NewMatrix(
		[]string{"g1", "g2"},
		[]string{"s1", "s2"},
		[]float64{1, 2, 3, 4})
	require.NoError(t, err)
	e, err := eset.New(exprs, nil, nil, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "minimal.duckdb")
	require.NoError(t, WriteStore(path, e, StoreOptions{}))

	got, err := ReadStore(path, StoreOptions{})
	require.NoError(t, err)
	assert.True(t, e.Exprs().Equal(got.Exprs()))
	assert.True(t, got.FData().Empty(), "absent table reads back empty")
	assert.True(t, got.PData().Empty())
	assert.Equal(t, eset.Metadata{"source": path}, got.Meta())
}

func TestStore_RowOrderPreserved(t *testing.T) {
	// Labels chosen so lexical order differs from insertion order.
	exprs, err := dataframe.NewMatrix(
		[]string{"zeta", "alpha", "mid"},
		[]string{"s1"},
		[]float64{1, 2, 3})
	require.NoError(t, err)
	e, err := eset.New(exprs, nil, nil, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "order.duckdb")
	require.NoError(t, WriteStore(path, e, StoreOptions{}))

	got, err := ReadStore(path, StoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, got.Exprs().RowLabels())
}

func TestStore_CategoricalDegradesToString(t *testing.T) {
	exprs, err := dataframe.NewMatrix(
		[]string{"g1"},
		[]string{"s1", "s2", "s3"},
		[]float64{1, 2, 3})
	require.NoError(t, err)
	pData, err := dataframe.NewFrame(
		[]string{"s1", "s2", "s3"},
		dataframe.NewStringSeries("grade", []string{"low", "high", "low"}),
	)
	require.NoError(t, err)
	pData, err = pData.SetCategorical([]string{"grade"})
	require.NoError(t, err)
	e, err := eset.New(exprs, nil, pData, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cat.duckdb")
	require.NoError(t, WriteStore(path, e, StoreOptions{}))

	got, err := ReadStore(path, StoreOptions{})
	require.NoError(t, err)

	grade, ok := got.PData().Col("grade")
	require.True(t, ok)
	assert.Equal(t, dataframe.String, grade.Kind(), "store carries no factor levels")
	assert.True(t, e.PData().EqualValues(got.PData()), "values still round-trip")
}

func TestStore_CustomAssayKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vsn.duckdb")
	e := testStoreESet(t)

	require.NoError(t, WriteStore(path, e, StoreOptions{AssayKey: "vsn"}))

	// Reading under the default key fails: no "exprs" table.
	_, err := ReadStore(path, StoreOptions{})
	var bridgeErr *BridgeError
	require.True(t, errors.As(err, &bridgeErr))
	assert.Contains(t, bridgeErr.Detail, `"exprs" not found`)

	got, err := ReadStore(path, StoreOptions{AssayKey: "vsn"})
	require.NoError(t, err)
	assert.True(t, e.Exprs().Equal(got.Exprs()))
}

func TestStore_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.duckdb")
	e := testStoreESet(t)

	require.NoError(t, WriteStore(path, e, StoreOptions{}))

	sub, err := e.Subset([]string{"KRAS"}, nil)
	require.NoError(t, err)
	require.NoError(t, WriteStore(path, sub, StoreOptions{}))

	got, err := ReadStore(path, StoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"KRAS"}, got.Exprs().RowLabels())
}

func TestReadStore_MissingFile(t *testing.T) {
	_, err := ReadStore(filepath.Join(t.TempDir(), "nope.duckdb"), StoreOptions{})
	var bridgeErr *BridgeError
	require.True(t, errors.As(err, &bridgeErr))
	assert.Equal(t, "read store", bridgeErr.Op)
}

func TestBridgeError_Format(t *testing.T) {
	err := &BridgeError{Op: "read store", Path: "x.duckdb", Detail: "assay table"}
	assert.Contains(t, err.Error(), "read store")
	assert.Contains(t, err.Error(), "x.duckdb")

	inner := errors.New("boom")
	wrapped := &BridgeError{Op: "write store", Path: "x", Err: inner}
	assert.True(t, errors.Is(wrapped, inner))
}
