package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetMerge(t *testing.T) {
	t.Parallel()

	base := Set{
		RequiredOnly:     true,
		CompletedCourses: []string{"COMSC-110"},
		CompletedDomains: []Domain{DomainScience},
		Categories:       []string{"breadth"},
	}

	merged := base.Merge(Set{
		CompletedCourses: []string{"COMSC-110", "MATH-192"},
		CompletedDomains: []Domain{DomainMath, DomainScience},
		Categories:       []string{"general education"},
	})

	assert.Equal(t, []string{"COMSC-110", "MATH-192"}, merged.CompletedCourses)
	assert.Equal(t, []Domain{DomainMath, DomainScience}, merged.CompletedDomains)
	assert.Equal(t, []string{"breadth", "general education"}, merged.Categories)
	assert.True(t, merged.RequiredOnly)
	assert.Equal(t, DomainNone, merged.Focus)
}

func TestSetMergeFocusSemantics(t *testing.T) {
	t.Parallel()

	base := Set{Focus: DomainMath, Categories: []string{"math"}}

	// A turn without a focus leaves the established one alone.
	merged := base.Merge(Set{})
	assert.Equal(t, DomainMath, merged.Focus)

	// A new concrete focus replaces the old one and clears categories.
	merged = base.Merge(Set{Focus: DomainCS, Categories: []string{"computer science"}})
	assert.Equal(t, DomainCS, merged.Focus)
	assert.Nil(t, merged.Categories)
}

func TestSetMergeRequiredOnlyOnlySetsTrue(t *testing.T) {
	t.Parallel()

	base := Set{RequiredOnly: true}
	merged := base.Merge(Set{RequiredOnly: false})
	assert.True(t, merged.RequiredOnly)
}

func TestSetMergeDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := Set{CompletedCourses: []string{"MATH-192"}}
	_ = base.Merge(Set{CompletedCourses: []string{"COMSC-110"}})
	assert.Equal(t, []string{"MATH-192"}, base.CompletedCourses)
}

func TestSetClone(t *testing.T) {
	t.Parallel()

	orig := Set{
		CompletedCourses: []string{"A"},
		CompletedDomains: []Domain{DomainCS},
		Categories:       []string{"math"},
	}
	clone := orig.Clone()
	clone.CompletedCourses[0] = "B"
	clone.CompletedDomains[0] = DomainMath
	clone.Categories[0] = "science"

	assert.Equal(t, "A", orig.CompletedCourses[0])
	assert.Equal(t, DomainCS, orig.CompletedDomains[0])
	assert.Equal(t, "math", orig.Categories[0])
}

func TestHasExclusions(t *testing.T) {
	t.Parallel()

	assert.False(t, Set{}.HasExclusions())
	assert.True(t, Set{CompletedCourses: []string{"MATH-192"}}.HasExclusions())
	assert.True(t, Set{CompletedDomains: []Domain{DomainMath}}.HasExclusions())
}
