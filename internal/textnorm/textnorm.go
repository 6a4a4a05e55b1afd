// Package textnorm normalizes free-text student queries before any
// entity detection runs. It lowercases input, folds typographic quotes
// to ASCII so the category:"..." extractor works on pasted text, and
// rewrites a fixed table of campus typos and abbreviations.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// rewrite is one ordered typo/alias rewrite rule.
type rewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

// rewrites are applied in order after lowercasing. The table maps common
// campus misspellings and abbreviations to one canonical phrase, so every
// downstream detector only has to know the canonical spelling.
var rewrites = []rewrite{
	{regexp.MustCompile(`\busb\b`), "uc berkeley"},
	{regexp.MustCompile(`\bucb\b`), "uc berkeley"},
	{regexp.MustCompile(`\bberkley\b`), "berkeley"},
	{regexp.MustCompile(`\bucsd\b`), "uc san diego"},
	{regexp.MustCompile(`\buc sd\b`), "uc san diego"},
}

// quoteFolder maps typographic quote characters to their ASCII equivalents.
var quoteFolder = runes.Map(func(r rune) rune {
	switch r {
	case '“', '”', '„': // “ ” „
		return '"'
	case '‘', '’': // ‘ ’
		return '\''
	}
	return r
})

// Normalize lowercases text, folds typographic quotes, and applies the
// rewrite table. It is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	t := strings.ToLower(text)
	if folded, _, err := transform.String(quoteFolder, t); err == nil {
		t = folded
	}
	for _, rw := range rewrites {
		t = rw.pattern.ReplaceAllString(t, rw.replacement)
	}
	return t
}
