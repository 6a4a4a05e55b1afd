// Package coursecode canonicalizes community-college course codes into
// the DEPT-NUMBER[LETTER] form used throughout the advisor, and extracts
// code-shaped tokens from free text.
package coursecode

import (
	"regexp"
	"slices"
	"strings"
)

var (
	// codeShape matches an already-normalized code: letters (ampersand
	// allowed for cross-listed departments), optional separator, digits,
	// optional trailing letter.
	codeShape = regexp.MustCompile(`^([A-Z&]+)[- ]?(\d+[A-Z]?)$`)

	// freeformCode matches code-shaped tokens embedded in prose:
	// two or more letters, then digits with an optional trailing letter.
	freeformCode = regexp.MustCompile(`(?i)\b([A-Za-z]{2,}[- ]?\d+[A-Za-z]?)\b`)
)

// csPrefixes are the department spellings that collapse to the canonical
// COMSC computer-science prefix.
var csPrefixes = []string{"CS-", "COMPSCI-", "COMSCI-", "COMPSC-"}

// Canonicalize converts a raw course-code token to its canonical
// DEPT-NUMBER form. It is a pure function and idempotent:
// Canonicalize("cs 61a") == "COMSC-61A", Canonicalize("MATH192") == "MATH-192".
func Canonicalize(raw string) string {
	s := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), " ", "-")
	for _, prefix := range csPrefixes {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			s = "COMSC-" + rest
			break
		}
	}
	if m := codeShape.FindStringSubmatch(s); m != nil {
		s = m[1] + "-" + m[2]
	}
	return s
}

// Extract finds every code-shaped token in text and returns the
// canonical forms, deduplicated and sorted.
func Extract(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range freeformCode.FindAllStringSubmatch(text, -1) {
		seen[Canonicalize(m[1])] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
