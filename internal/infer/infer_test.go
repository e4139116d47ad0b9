package infer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omixlab/gexpr/internal/dataframe"
)

// repeatedFrame builds a frame with n rows: a two-valued string column, a
// two-valued int column, and a float column with n distinct values.
func repeatedFrame(t *testing.T, n int) *dataframe.Frame {
	t.Helper()
	index := make([]string, n)
	grades := make([]string, n)
	stages := make([]int64, n)
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		index[i] = fmt.Sprintf("s%d", i)
		grades[i] = []string{"high", "low"}[i%2]
		stages[i] = int64(i % 2)
		scores[i] = float64(i) + 0.5
	}
	f, err := dataframe.NewFrame(index,
		dataframe.NewStringSeries("grade", grades),
		dataframe.NewIntSeries("stage", stages),
		dataframe.NewFloatSeries("score", scores),
	)
	require.NoError(t, err)
	return f
}

func TestCategorical_Auto(t *testing.T) {
	f := repeatedFrame(t, 30)

	// 30 rows, 2 distinct: 30 > 10*2, so grade and stage qualify.
	got := Categorical(f, Auto(), DefaultRatio)
	assert.Equal(t, []string{"grade", "stage"}, got)
}

func TestCategorical_FloatNeverInferred(t *testing.T) {
	// A float column with 2 distinct values over many rows still does not
	// qualify.
	n := 40
	index := make([]string, n)
	vals := make([]float64, n)
	for i := range index {
		index[i] = fmt.Sprintf("s%d", i)
		vals[i] = float64(i % 2)
	}
	f, err := dataframe.NewFrame(index, dataframe.NewFloatSeries("ratio", vals))
	require.NoError(t, err)

	assert.Nil(t, Categorical(f, Auto(), DefaultRatio))
}

func TestCategorical_RatioBoundary(t *testing.T) {
	// 20 rows, 2 distinct values: 20 > 10*2 is false, so nothing qualifies
	// at the default ratio.
	f := repeatedFrame(t, 20)
	assert.Nil(t, Categorical(f, Auto(), DefaultRatio))

	// One more row tips it over.
	f = repeatedFrame(t, 21)
	assert.Equal(t, []string{"grade", "stage"}, Categorical(f, Auto(), DefaultRatio))

	// A stricter ratio pushes the boundary out again.
	assert.Nil(t, Categorical(f, Auto(), 15))
}

func TestCategorical_ZeroRatioFallsBack(t *testing.T) {
	f := repeatedFrame(t, 30)
	assert.Equal(t, Categorical(f, Auto(), DefaultRatio), Categorical(f, Auto(), 0))
}

func TestCategorical_None(t *testing.T) {
	f := repeatedFrame(t, 100)
	assert.Nil(t, Categorical(f, None(), DefaultRatio))
}

func TestCategorical_ExplicitColumns(t *testing.T) {
	f := repeatedFrame(t, 4)

	// Explicit columns are taken as-is, no inspection, even float columns.
	got := Categorical(f, Columns("score"), DefaultRatio)
	assert.Equal(t, []string{"score"}, got)
}

func TestCategorical_Deterministic(t *testing.T) {
	f := repeatedFrame(t, 30)
	first := Categorical(f, Auto(), DefaultRatio)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Categorical(f, Auto(), DefaultRatio))
	}
}

func TestCategorical_EmptyFrame(t *testing.T) {
	assert.Nil(t, Categorical(dataframe.EmptyFrame(), Auto(), DefaultRatio))
	assert.Nil(t, Categorical(nil, Auto(), DefaultRatio))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, Auto(), ParseMode("auto"))
	assert.Equal(t, Auto(), ParseMode(" AUTO "))
	assert.Equal(t, None(), ParseMode("none"))
	assert.Equal(t, None(), ParseMode(""))
	assert.Equal(t, Columns("a", "b"), ParseMode("a, b"))
	assert.Equal(t, Columns("grade"), ParseMode("grade"))
}

func TestApply(t *testing.T) {
	f := repeatedFrame(t, 30)

	out, err := Apply(f, Auto(), DefaultRatio)
	require.NoError(t, err)

	grade, ok := out.Col("grade")
	require.True(t, ok)
	assert.Equal(t, dataframe.Categorical, grade.Kind())
	assert.Equal(t, []string{"high", "low"}, grade.Levels())

	score, ok := out.Col("score")
	require.True(t, ok)
	assert.Equal(t, dataframe.Float, score.Kind())

	// Source frame is untouched.
	orig, _ := f.Col("grade")
	assert.Equal(t, dataframe.String, orig.Kind())
}

func TestApply_NoChangesReturnsSame(t *testing.T) {
	f := repeatedFrame(t, 4)
	out, err := Apply(f, Auto(), DefaultRatio)
	require.NoError(t, err)
	assert.Same(t, f, out)
}

func TestApply_UnknownExplicitColumn(t *testing.T) {
	f := repeatedFrame(t, 4)
	_, err := Apply(f, Columns("missing"), DefaultRatio)
	assert.Error(t, err)
}
