package filter

import (
	"strings"

	"github.com/dvc-advising/transferbot-go/internal/category"
	"github.com/dvc-advising/transferbot-go/internal/storage"
)

// Apply returns the rows that survive the filter set, preserving input
// order. Per-row exclusion checks run in fixed precedence:
//
//  1. completed course codes
//  2. completed domains
//  3. explicit domain focus
//  4. required-only
//  5. exclusive-domain seed (only when no explicit focus was resolved)
//  6. category match
//
// The input slice is never mutated.
func Apply(rows []storage.EquivalencyRow, set Set, seed Seed) []storage.EquivalencyRow {
	completed := make(map[string]struct{}, len(set.CompletedCourses))
	for _, code := range set.CompletedCourses {
		completed[strings.ToUpper(code)] = struct{}{}
	}

	out := make([]storage.EquivalencyRow, 0, len(rows))
	for _, row := range rows {
		if excluded(row, set, seed, completed) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func excluded(row storage.EquivalencyRow, set Set, seed Seed, completed map[string]struct{}) bool {
	if _, done := completed[strings.ToUpper(row.SourceCode)]; done {
		return true
	}

	if set.HasCompletedDomain(DomainScience) && IsScience(row) {
		return true
	}
	if set.HasCompletedDomain(DomainMath) && IsMath(row) {
		return true
	}
	if set.HasCompletedDomain(DomainCS) && IsCS(row) {
		return true
	}

	if set.Focus.Exclusive() && !MatchesDomain(row, set.Focus) {
		return true
	}

	if set.RequiredOnly && !requirementIsStrict(row.MinimumRequired) {
		return true
	}

	// The seed only narrows when the resolver left focus unset.
	if set.Focus == DomainNone && seed.Exclusive != DomainNone && !MatchesDomain(row, seed.Exclusive) {
		return true
	}

	return !category.RowMatches(row.Category, set.Categories)
}

// requirementIsStrict reports whether a MinimumRequired value marks the
// row as strictly required: the literal "all" or a positive integer.
func requirementIsStrict(minimumRequired string) bool {
	mr := strings.ToLower(strings.TrimSpace(minimumRequired))
	if mr == "all" {
		return true
	}
	if mr == "" {
		return false
	}
	for _, r := range mr {
		if r < '0' || r > '9' {
			return false
		}
	}
	return strings.TrimLeft(mr, "0") != ""
}
