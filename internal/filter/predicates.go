package filter

import (
	"strings"

	"github.com/dvc-advising/transferbot-go/internal/storage"
)

// Domain classification predicates. Each is a fixed prefix/keyword table
// over the row's code, title, and category text. They are deliberately
// separate named functions so the tables can evolve without touching the
// filtering algorithm.

var csCodePrefixes = []string{"COMSC-", "COMSCI-", "COMPSC-", "CS-"}

// IsCS reports whether a row belongs to the computer-science domain.
func IsCS(row storage.EquivalencyRow) bool {
	code := strings.ToUpper(row.SourceCode)
	title := strings.ToLower(row.SourceTitle)
	cat := strings.ToLower(row.Category)
	return hasAnyPrefix(code, csCodePrefixes) ||
		strings.Contains(title, "programming") ||
		strings.Contains(title, "data structures") ||
		strings.Contains(title, "software") ||
		strings.Contains(cat, "major preparation") ||
		strings.Contains(cat, "lower division major") ||
		strings.Contains(cat, "computer science")
}

var mathCodePrefixes = []string{"MATH-", "STAT-"}

// IsMath reports whether a row belongs to the math domain.
func IsMath(row storage.EquivalencyRow) bool {
	code := strings.ToUpper(row.SourceCode)
	title := strings.ToLower(row.SourceTitle)
	cat := strings.ToLower(row.Category)
	return hasAnyPrefix(code, mathCodePrefixes) ||
		strings.Contains(cat, "mathematics") ||
		strings.Contains(cat, "math") ||
		strings.Contains(title, "calculus") ||
		strings.Contains(title, "linear algebra") ||
		strings.Contains(title, "differential equations")
}

var scienceCodePrefixes = []string{"PHYS-", "CHEM-", "BIOSC-", "BIOL-"}

// IsScience reports whether a row belongs to the natural-science domain.
// "Computer Science" category text is excluded from the generic
// "science" substring check so CS rows are not misclassified.
func IsScience(row storage.EquivalencyRow) bool {
	code := strings.ToUpper(row.SourceCode)
	cat := strings.ToLower(row.Category)
	return hasAnyPrefix(code, scienceCodePrefixes) ||
		(strings.Contains(cat, "science") && !strings.Contains(cat, "computer science")) ||
		strings.Contains(cat, "physics") ||
		strings.Contains(cat, "chemistry") ||
		strings.Contains(cat, "biology")
}

// MatchesDomain dispatches to the predicate for d. DomainAll and
// DomainNone match everything.
func MatchesDomain(row storage.EquivalencyRow, d Domain) bool {
	switch d {
	case DomainCS:
		return IsCS(row)
	case DomainMath:
		return IsMath(row)
	case DomainScience:
		return IsScience(row)
	default:
		return true
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
