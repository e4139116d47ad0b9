package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := NewFrame(
		[]string{"s1", "s2", "s3"},
		NewStringSeries("tissue", []string{"lung", "liver", "lung"}),
		NewIntSeries("stage", []int64{1, 2, 1}),
		NewFloatSeries("age", []float64{61.5, 48, 72}),
	)
	require.NoError(t, err)
	return f
}

func TestNewFrame(t *testing.T) {
	f := testFrame(t)
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, 3, f.NumCols())
	assert.Equal(t, []string{"tissue", "stage", "age"}, f.Columns())
	assert.Equal(t, []string{"s1", "s2", "s3"}, f.Index())

	s, ok := f.Col("stage")
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 1}, s.Ints())

	_, ok = f.Col("missing")
	assert.False(t, ok)
}

func TestNewFrame_Errors(t *testing.T) {
	_, err := NewFrame([]string{"s1", "s1"})
	assert.Error(t, err, "duplicate index")

	_, err = NewFrame([]string{"s1", "s2"},
		NewIntSeries("stage", []int64{1}))
	assert.Error(t, err, "length mismatch")

	_, err = NewFrame([]string{"s1"},
		NewIntSeries("stage", []int64{1}),
		NewIntSeries("stage", []int64{2}))
	assert.Error(t, err, "duplicate column")
}

func TestEmptyFrame(t *testing.T) {
	f := EmptyFrame()
	assert.True(t, f.Empty())
	assert.Equal(t, 0, f.NumRows())
	assert.False(t, testFrame(t).Empty())
}

func TestFrame_Subset(t *testing.T) {
	f := testFrame(t)

	sub, err := f.Subset([]string{"s3", "s1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s1"}, sub.Index())

	tissue, ok := sub.Col("tissue")
	require.True(t, ok)
	assert.Equal(t, []string{"lung", "lung"}, tissue.Strings())

	age, ok := sub.Col("age")
	require.True(t, ok)
	assert.Equal(t, []float64{72, 61.5}, age.Floats())
}

func TestFrame_Subset_UnknownLabel(t *testing.T) {
	_, err := testFrame(t).Subset([]string{"s9"})
	assert.Error(t, err)
}

func TestFrame_SetCategorical(t *testing.T) {
	f := testFrame(t)

	cat, err := f.SetCategorical([]string{"tissue"})
	require.NoError(t, err)

	s, ok := cat.Col("tissue")
	require.True(t, ok)
	assert.Equal(t, Categorical, s.Kind())
	assert.Equal(t, []string{"liver", "lung"}, s.Levels())

	// Other columns keep their kind, and the original is untouched.
	stage, _ := cat.Col("stage")
	assert.Equal(t, Int, stage.Kind())
	orig, _ := f.Col("tissue")
	assert.Equal(t, String, orig.Kind())
}

func TestFrame_SetCategorical_UnknownColumn(t *testing.T) {
	_, err := testFrame(t).SetCategorical([]string{"missing"})
	assert.Error(t, err)
}

func TestFrame_Equal(t *testing.T) {
	a := testFrame(t)
	b := testFrame(t)
	assert.True(t, a.Equal(b))

	cat, err := a.SetCategorical([]string{"tissue"})
	require.NoError(t, err)
	assert.False(t, a.Equal(cat), "kind change breaks strict equality")
	assert.True(t, a.EqualValues(cat), "but values still match")

	sub, err := a.Subset([]string{"s2", "s1", "s3"})
	require.NoError(t, err)
	assert.False(t, a.Equal(sub), "index order matters")
}
