package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/filter"
)

func TestActivate(t *testing.T) {
	t.Parallel()

	res := filter.Resolution{
		Campuses: []campus.Key{campus.UCB, campus.UCD},
		Filters:  filter.Set{CompletedCourses: []string{"MATH-192"}},
	}
	seed := filter.Seed{Categories: []string{"breadth"}, RequiredOnly: true}

	next := State{}.Activate(res, seed)

	assert.Equal(t, StatusActive, next.Status)
	assert.Equal(t, []campus.Key{campus.UCB, campus.UCD}, next.Campuses)
	assert.Equal(t, []string{"MATH-192"}, next.Filters.CompletedCourses)
	assert.Equal(t, 1, next.Turn)
	// Seed values back-fill the filter set on activation.
	assert.Equal(t, []string{"breadth"}, next.Filters.Categories)
	assert.True(t, next.Filters.RequiredOnly)
}

func TestActivateSeedDoesNotOverrideResolvedCategories(t *testing.T) {
	t.Parallel()

	res := filter.Resolution{
		Campuses: []campus.Key{campus.UCSD},
		Filters:  filter.Set{Categories: []string{"major preparation"}},
	}
	seed := filter.Seed{Categories: []string{"breadth"}}

	next := State{}.Activate(res, seed)
	assert.Equal(t, []string{"major preparation"}, next.Filters.Categories)
}

func TestActivateSeedSkippedUnderExclusiveFocus(t *testing.T) {
	t.Parallel()

	res := filter.Resolution{
		Campuses: []campus.Key{campus.UCSD},
		Filters:  filter.Set{Focus: filter.DomainMath},
	}
	seed := filter.Seed{Categories: []string{"breadth"}}

	next := State{}.Activate(res, seed)
	assert.Empty(t, next.Filters.Categories)
}

func TestMergeTurn(t *testing.T) {
	t.Parallel()

	active := State{}.Activate(filter.Resolution{
		Campuses: []campus.Key{campus.UCB},
		Filters:  filter.Set{CompletedCourses: []string{"COMSC-110"}},
	}, filter.Seed{})

	next := active.MergeTurn(filter.Resolution{
		Campuses: []campus.Key{campus.UCB, campus.UCSD},
		Filters: filter.Set{
			CompletedCourses: []string{"MATH-192"},
			RequiredOnly:     true,
		},
	})

	assert.Equal(t, StatusActive, next.Status)
	assert.Equal(t, []campus.Key{campus.UCB, campus.UCSD}, next.Campuses)
	assert.Equal(t, []string{"COMSC-110", "MATH-192"}, next.Filters.CompletedCourses)
	assert.True(t, next.Filters.RequiredOnly)
	assert.Equal(t, 2, next.Turn)

	// Prior states are never mutated.
	assert.Equal(t, []campus.Key{campus.UCB}, active.Campuses)
	assert.Equal(t, []string{"COMSC-110"}, active.Filters.CompletedCourses)
	assert.False(t, active.Filters.RequiredOnly)
}

func TestRemoveCampuses(t *testing.T) {
	t.Parallel()

	active := State{}.Activate(filter.Resolution{
		Campuses: []campus.Key{campus.UCB, campus.UCD, campus.UCSD},
	}, filter.Seed{})

	next := active.RemoveCampuses([]campus.Key{campus.UCD})
	assert.Equal(t, []campus.Key{campus.UCB, campus.UCSD}, next.Campuses)
	assert.Equal(t, StatusActive, next.Status)

	// Removing every campus still leaves the session active.
	empty := next.RemoveCampuses([]campus.Key{campus.UCB, campus.UCSD})
	assert.Empty(t, empty.Campuses)
	assert.Equal(t, StatusActive, empty.Status)
}

func TestClearCommands(t *testing.T) {
	t.Parallel()

	active := State{
		Status: StatusActive,
		Filters: filter.Set{
			RequiredOnly:     true,
			CompletedCourses: []string{"MATH-192"},
			CompletedDomains: []filter.Domain{filter.DomainScience},
			Categories:       []string{"breadth"},
		},
		Seed: filter.Seed{Categories: []string{"breadth"}, RequiredOnly: true},
	}

	cleared := active.ClearCategories()
	assert.Nil(t, cleared.Filters.Categories)
	assert.Nil(t, cleared.Seed.Categories)
	assert.True(t, cleared.Filters.RequiredOnly)

	shown := active.ClearRequiredOnly()
	assert.False(t, shown.Filters.RequiredOnly)
	assert.False(t, shown.Seed.RequiredOnly)
	assert.Equal(t, []string{"MATH-192"}, shown.Filters.CompletedCourses)

	reset := active.Reset()
	assert.Nil(t, reset.Filters.CompletedCourses)
	assert.Nil(t, reset.Filters.CompletedDomains)
	assert.Equal(t, []string{"breadth"}, reset.Filters.Categories)
	assert.True(t, reset.Filters.RequiredOnly)

	// The original state is untouched by any of the three.
	assert.Equal(t, []string{"breadth"}, active.Filters.Categories)
	assert.True(t, active.Filters.RequiredOnly)
	assert.Equal(t, []string{"MATH-192"}, active.Filters.CompletedCourses)
}

func TestTerminate(t *testing.T) {
	t.Parallel()

	active := State{Status: StatusActive, Turn: 3}
	done := active.Terminate()
	assert.Equal(t, StatusTerminated, done.Status)
	assert.Equal(t, 4, done.Turn)
	assert.Equal(t, StatusActive, active.Status)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "empty", StatusEmpty.String())
	assert.Equal(t, "active", StatusActive.String())
	assert.Equal(t, "terminated", StatusTerminated.String())
}
