package filter

import "slices"

// Set is the canonical, resolved set of constraints for one turn.
// All slice fields are kept sorted and deduplicated; value semantics
// with Clone make immutable-update session handling cheap.
type Set struct {
	// Focus restricts results to one domain. DomainAll and DomainNone
	// leave all domains visible.
	Focus Domain

	// RequiredOnly keeps only rows whose MinimumRequired is "all" or a
	// positive integer.
	RequiredOnly bool

	// CompletedCourses are canonical course codes explicitly excluded.
	CompletedCourses []string

	// CompletedDomains are whole domains explicitly excluded.
	CompletedDomains []Domain

	// Categories, when non-empty, keep only rows whose category text
	// matches one of the tokens (by substring or alias).
	Categories []string
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	s.CompletedCourses = slices.Clone(s.CompletedCourses)
	s.CompletedDomains = slices.Clone(s.CompletedDomains)
	s.Categories = slices.Clone(s.Categories)
	return s
}

// HasCompletedDomain reports whether d is marked completed.
func (s Set) HasCompletedDomain(d Domain) bool {
	return slices.Contains(s.CompletedDomains, d)
}

// HasExclusions reports whether any completed courses or domains are set.
func (s Set) HasExclusions() bool {
	return len(s.CompletedCourses) > 0 || len(s.CompletedDomains) > 0
}

// mergeSorted unions two sorted string slices into a new sorted,
// deduplicated slice.
func mergeSorted(a, b []string) []string {
	out := slices.Clone(a)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}

// Merge applies a later turn's resolved set on top of s, following the
// session merge semantics: set fields are unioned, Focus and
// RequiredOnly are overwritten only when the new turn supplies a
// non-default value.
func (s Set) Merge(next Set) Set {
	merged := s.Clone()
	merged.CompletedCourses = mergeSorted(merged.CompletedCourses, next.CompletedCourses)
	merged.Categories = mergeSorted(merged.Categories, next.Categories)

	for _, d := range next.CompletedDomains {
		if !merged.HasCompletedDomain(d) {
			merged.CompletedDomains = append(merged.CompletedDomains, d)
		}
	}
	slices.Sort(merged.CompletedDomains)

	if next.Focus != DomainNone {
		merged.Focus = next.Focus
	}
	if next.RequiredOnly {
		merged.RequiredOnly = true
	}

	// A turn that sets a concrete domain focus supersedes any category
	// phrases accumulated so far.
	if merged.Focus.Exclusive() {
		merged.Categories = nil
	}
	return merged
}
