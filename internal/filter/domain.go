// Package filter turns interpreted queries into a canonical FilterSet
// and applies it to equivalency rows. The filtering itself is
// deterministic; everything coming from the LLM boundary is treated as
// untrusted and re-validated here.
package filter

import "strings"

// Domain is a subject-domain filter value.
type Domain string

const (
	DomainNone    Domain = ""
	DomainCS      Domain = "cs"
	DomainMath    Domain = "math"
	DomainScience Domain = "science"
	DomainAll     Domain = "all"
)

// focusDomains are the values accepted for FilterSet.Focus.
var focusDomains = map[Domain]struct{}{
	DomainCS:      {},
	DomainMath:    {},
	DomainScience: {},
	DomainAll:     {},
}

// completableDomains are the values accepted in CompletedDomains.
var completableDomains = map[Domain]struct{}{
	DomainCS:      {},
	DomainMath:    {},
	DomainScience: {},
}

// ParseFocus validates a raw focus value against the focus enum.
// Anything else (including empty input) is DomainNone.
func ParseFocus(raw string) Domain {
	d := Domain(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := focusDomains[d]; ok {
		return d
	}
	return DomainNone
}

// ParseCompletable validates a raw domain value against the
// three-domain completion enum.
func ParseCompletable(raw string) (Domain, bool) {
	d := Domain(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := completableDomains[d]
	return d, ok
}

// Exclusive reports whether d is a single concrete domain (not "all"
// and not unset).
func (d Domain) Exclusive() bool {
	_, ok := completableDomains[d]
	return ok
}
