package equivsearch

import (
	"io"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/storage"
)

var indexRows = []storage.EquivalencyRow{
	{Category: "Major Preparation", SourceCode: "COMSC-110", SourceTitle: "Introduction to Programming"},
	{Category: "Major Preparation", SourceCode: "COMSC-200", SourceTitle: "Data Structures and Algorithms"},
	{Category: "Mathematics", SourceCode: "MATH-192", SourceTitle: "Analytic Geometry and Calculus I"},
	{Category: "Natural Science", SourceCode: "PHYS-130", SourceTitle: "Physics for Engineers and Scientists"},
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx := New(logger.NewWithWriter("error", io.Discard))
	require.NoError(t, idx.SetCampus(campus.UCB, indexRows))
	return idx
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"COMSC-101", []string{"comsc", "101"}},
		{"Data Structures & Algorithms", []string{"data", "structures", "algorithms"}},
		{"  calculus  ", []string{"calculus"}},
		{"!!!", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if got := tokenize(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRankConfidence(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.952, rankConfidence(1), 0.001)
	assert.InDelta(t, 0.8, rankConfidence(5), 0.001)
	assert.Zero(t, rankConfidence(0))
	assert.Greater(t, rankConfidence(1), rankConfidence(2))
}

func TestSearchRanksBestMatchFirst(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)

	results, err := idx.Search(campus.UCB, "data structures", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, "COMSC-200", top.Row.SourceCode)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, campus.UCB, top.Campus)
	assert.Greater(t, top.Score, 0.0)
	assert.InDelta(t, 0.952, float64(top.Confidence), 0.001)
}

func TestSearchMatchesCourseCodeSpellings(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)

	// Hyphenated and spaced code forms hit the same document.
	for _, q := range []string{"COMSC-110", "comsc 110"} {
		results, err := idx.Search(campus.UCB, q, 1)
		require.NoError(t, err)
		require.NotEmpty(t, results, "query %q", q)
		assert.Equal(t, "COMSC-110", results[0].Row.SourceCode, "query %q", q)
	}
}

func TestSearchUnknownCampus(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	results, err := idx.Search(campus.UCSD, "calculus", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	results, err := idx.Search(campus.UCB, "   ", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchTopN(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	results, err := idx.Search(campus.UCB, "major preparation programming structures", 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 2)
}

func TestSetCampusRebuildAndClear(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	assert.Equal(t, len(indexRows), idx.Count(campus.UCB))
	assert.Equal(t, []campus.Key{campus.UCB}, idx.Campuses())

	require.NoError(t, idx.SetCampus(campus.UCB, indexRows[:1]))
	assert.Equal(t, 1, idx.Count(campus.UCB))

	require.NoError(t, idx.SetCampus(campus.UCB, nil))
	assert.Zero(t, idx.Count(campus.UCB))
	assert.Empty(t, idx.Campuses())
}
