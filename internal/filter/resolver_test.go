package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvc-advising/transferbot-go/internal/campus"
)

func TestResolveNilInterpretation(t *testing.T) {
	t.Parallel()

	res := Resolve(nil, "what do i need for uc davis")
	assert.Equal(t, IntentFindRequirements, res.Intent)
	assert.Equal(t, []campus.Key{campus.UCD}, res.Campuses)
	assert.Empty(t, res.Filters.Categories)
	assert.Equal(t, DomainNone, res.Filters.Focus)
}

func TestResolveCampusesUnion(t *testing.T) {
	t.Parallel()

	interp := &Interpretation{
		Parameters: InterpretParameters{
			Campus:   "UCSD",
			Campuses: []any{"uc berkeley", "nonsense university"},
		},
	}
	res := Resolve(interp, "planning for uc davis")
	assert.Equal(t, []campus.Key{campus.UCB, campus.UCD, campus.UCSD}, res.Campuses)
}

func TestResolveFilters(t *testing.T) {
	t.Parallel()

	interp := &Interpretation{
		Intent: IntentFindRequirements,
		Filters: InterpretFilters{
			FocusOnly:        "MATH",
			RequiredOnly:     true,
			DomainsCompleted: []any{"science", "bogus", "science"},
			CompletedCourses: []any{"cs 110"},
		},
	}
	res := Resolve(interp, "i already took math192")

	assert.Equal(t, DomainMath, res.Filters.Focus)
	assert.True(t, res.Filters.RequiredOnly)
	assert.Equal(t, []Domain{DomainScience}, res.Filters.CompletedDomains)
	assert.Equal(t, []string{"COMSC-110", "MATH-192"}, res.Filters.CompletedCourses)
	// An exclusive focus supersedes any detected category phrases.
	assert.Nil(t, res.Filters.Categories)
}

func TestResolveMalformedFields(t *testing.T) {
	t.Parallel()

	// Every field carries the wrong JSON type; resolution must coerce
	// each to its zero value instead of failing.
	interp := &Interpretation{
		Intent: "browse_catalog",
		Parameters: InterpretParameters{
			Campus:   42,
			Campuses: "not a list",
		},
		Filters: InterpretFilters{
			FocusOnly:        []any{"math"},
			RequiredOnly:     "yes",
			DomainsCompleted: map[string]any{"math": true},
			CompletedCourses: []any{7, true},
			Categories:       3.14,
		},
	}
	res := Resolve(interp, "hello there")

	assert.Equal(t, IntentFindRequirements, res.Intent)
	assert.Empty(t, res.Campuses)
	assert.Equal(t, DomainNone, res.Filters.Focus)
	assert.False(t, res.Filters.RequiredOnly)
	assert.Empty(t, res.Filters.CompletedDomains)
	assert.Empty(t, res.Filters.CompletedCourses)
	assert.Empty(t, res.Filters.Categories)
}

func TestResolveEquivalentCourseIntent(t *testing.T) {
	t.Parallel()

	interp := &Interpretation{
		Intent: IntentFindEquivalentCourse,
		Parameters: InterpretParameters{
			TargetCourseCode: "cs 61a",
		},
	}
	res := Resolve(interp, "what matches cs 61a at berkeley")

	require.Equal(t, IntentFindEquivalentCourse, res.Intent)
	assert.Equal(t, "COMSC-61A", res.TargetCourseCode)
	assert.Equal(t, []campus.Key{campus.UCB}, res.Campuses)
}
