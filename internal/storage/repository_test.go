package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvc-advising/transferbot-go/internal/campus"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var repoRows = []EquivalencyRow{
	{Category: "Major Preparation", MinimumRequired: "all", SourceCode: "COMSC-110", SourceTitle: "Introduction to Programming", SourceUnits: "4"},
	{Category: "Mathematics", MinimumRequired: "2", SourceCode: "MATH-192", SourceTitle: "Calculus I", SourceUnits: "5"},
	{Category: "Natural Science", MinimumRequired: "", SourceCode: "PHYS-130", SourceTitle: "Physics", SourceUnits: "4"},
}

func TestReplaceCampusRowsRoundTrip(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ReplaceCampusRows(ctx, campus.UCB, repoRows))

	got, err := db.RowsByCampus(ctx, campus.UCB)
	require.NoError(t, err)
	assert.Equal(t, repoRows, got)
}

func TestReplaceCampusRowsReplaces(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ReplaceCampusRows(ctx, campus.UCD, repoRows))
	require.NoError(t, db.ReplaceCampusRows(ctx, campus.UCD, repoRows[:1]))

	got, err := db.RowsByCampus(ctx, campus.UCD)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "COMSC-110", got[0].SourceCode)
}

func TestReplaceCampusRowsFirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	dup := []EquivalencyRow{
		{Category: "Major Preparation", SourceCode: "COMSC-110", SourceTitle: "First Listing"},
		{Category: "General Education", SourceCode: "COMSC-110", SourceTitle: "Second Listing"},
	}
	require.NoError(t, db.ReplaceCampusRows(ctx, campus.UCSD, dup))

	got, err := db.RowsByCampus(ctx, campus.UCSD)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "First Listing", got[0].SourceTitle)
}

func TestRowsByCampusEmpty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	got, err := db.RowsByCampus(context.Background(), campus.UCB)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCountRowsAndLoadedCampuses(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ReplaceCampusRows(ctx, campus.UCD, repoRows))
	require.NoError(t, db.ReplaceCampusRows(ctx, campus.UCB, repoRows[:2]))

	n, err := db.CountRows(ctx, campus.UCD)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = db.CountRows(ctx, campus.UCSD)
	require.NoError(t, err)
	assert.Zero(t, n)

	keys, err := db.LoadedCampuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []campus.Key{campus.UCB, campus.UCD}, keys)
}

func TestAllRows(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ReplaceCampusRows(ctx, campus.UCB, repoRows[:1]))
	require.NoError(t, db.ReplaceCampusRows(ctx, campus.UCSD, repoRows[1:]))

	all, err := db.AllRows(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Len(t, all[campus.UCB], 1)
	assert.Len(t, all[campus.UCSD], 2)
}

func TestReady(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	assert.NoError(t, db.Ready(context.Background()))
}
