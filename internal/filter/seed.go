package filter

import (
	"strings"

	"github.com/dvc-advising/transferbot-go/internal/category"
	"github.com/dvc-advising/transferbot-go/internal/textnorm"
)

// Seed is the lightweight free-text domain signal computed for a query,
// independent of the LLM interpretation. When exactly one domain keyword
// group is present, Exclusive narrows results even without an explicit
// focus directive (but never overrides a resolved Focus).
type Seed struct {
	WantCS      bool
	WantMath    bool
	WantScience bool

	// Exclusive is set only when exactly one of the three flags is true.
	Exclusive Domain

	// RequiredOnly is set by explicit "required only" phrasings.
	RequiredOnly bool

	// Categories are the detected category phrases. Cleared when an
	// exclusive domain is present: a single unambiguous domain word is a
	// stronger signal than a fuzzy category phrase, and keeping both can
	// empty the result when they disagree on wording.
	Categories []string
}

var (
	csKeywords      = []string{" cs ", "comsc", "computer science", "programming", "data structures"}
	mathKeywords    = []string{" math ", "calculus", "linear algebra", "differential equations"}
	scienceKeywords = []string{" science ", "physics", "chemistry", "biology", " bio ", " chem ", " phys "}

	requiredOnlyPhrases = []string{"required only", "only required", "must have", "need all"}
)

// ParseSeed computes the domain hint for a raw query.
func ParseSeed(query string) Seed {
	t := " " + strings.TrimSpace(textnorm.Normalize(query)) + " "

	seed := Seed{
		WantCS:       containsAny(t, csKeywords),
		WantMath:     containsAny(t, mathKeywords),
		WantScience:  containsAny(t, scienceKeywords),
		RequiredOnly: containsAny(t, requiredOnlyPhrases),
	}

	switch {
	case seed.WantCS && !seed.WantMath && !seed.WantScience:
		seed.Exclusive = DomainCS
	case seed.WantMath && !seed.WantCS && !seed.WantScience:
		seed.Exclusive = DomainMath
	case seed.WantScience && !seed.WantCS && !seed.WantMath:
		seed.Exclusive = DomainScience
	}

	if seed.Exclusive == DomainNone {
		seed.Categories = category.Detect(query)
	}
	return seed
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
