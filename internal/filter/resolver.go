package filter

import (
	"slices"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/category"
	"github.com/dvc-advising/transferbot-go/internal/coursecode"
)

// Resolution is the validated outcome of one turn: the canonical filter
// set plus the campuses the turn references.
type Resolution struct {
	Campuses []campus.Key
	Filters  Set

	// Intent is the validated interpretation intent.
	Intent string

	// TargetCourseCode is set for equivalent-course lookups.
	TargetCourseCode string
}

// Resolve merges the untrusted interpretation with local detection over
// the raw query text into one validated Resolution. It is total: any
// malformed upstream structure degrades to an empty default filter set
// rather than propagating a failure.
func Resolve(interp *Interpretation, query string) (res Resolution) {
	// The interpretation is arbitrary decoded JSON; a shape we did not
	// anticipate must degrade to the default resolution, never abort the
	// turn.
	defer func() {
		if r := recover(); r != nil {
			res = Resolution{
				Intent:   IntentFindRequirements,
				Campuses: campus.Detect(query),
			}
		}
	}()

	if interp == nil {
		interp = &Interpretation{}
	}

	res.Intent = IntentFindRequirements
	if interp.Intent == IntentFindEquivalentCourse {
		res.Intent = IntentFindEquivalentCourse
		if code, ok := asString(interp.Parameters.TargetCourseCode); ok {
			res.TargetCourseCode = coursecode.Canonicalize(code)
		}
	}

	res.Campuses = resolveCampuses(interp, query)
	res.Filters = resolveFilters(interp, query)
	return res
}

// resolveCampuses collects campus candidates from the interpretation's
// array field, its singular field, and local detection, normalizes each
// through alias detection, and keeps only valid keys, deduplicated and
// sorted.
func resolveCampuses(interp *Interpretation, query string) []campus.Key {
	var candidates []string
	candidates = append(candidates, asStringSlice(interp.Parameters.Campuses)...)
	if single, ok := asString(interp.Parameters.Campus); ok {
		candidates = append(candidates, single)
	}

	keys := campus.Detect(query)
	for _, c := range candidates {
		if k, ok := campus.Parse(c); ok {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)
	return slices.Compact(keys)
}

func resolveFilters(interp *Interpretation, query string) Set {
	set := Set{}

	if focus, ok := asString(interp.Filters.FocusOnly); ok {
		set.Focus = ParseFocus(focus)
	}
	set.RequiredOnly = asBool(interp.Filters.RequiredOnly)

	// Domain-completion claims are free text; only the deliberate
	// extraction by the interpreter populates them, never local
	// detection.
	for _, raw := range asStringSlice(interp.Filters.DomainsCompleted) {
		if d, ok := ParseCompletable(raw); ok && !slices.Contains(set.CompletedDomains, d) {
			set.CompletedDomains = append(set.CompletedDomains, d)
		}
	}
	slices.Sort(set.CompletedDomains)

	var courses []string
	for _, raw := range asStringSlice(interp.Filters.CompletedCourses) {
		courses = append(courses, coursecode.Canonicalize(raw))
	}
	set.CompletedCourses = mergeSorted(courses, coursecode.Extract(query))

	set.Categories = mergeSorted(
		asStringSlice(interp.Filters.Categories),
		category.Detect(query),
	)

	// A concrete domain focus is a stronger, exclusive signal than a
	// fuzzy category phrase; keeping both can double-filter to an empty
	// result when they disagree on wording.
	if set.Focus.Exclusive() {
		set.Categories = nil
	}

	return set
}
