// Package campus defines the fixed set of destination UC campuses the
// advisor knows about, their display names and text aliases, and
// alias-based detection over normalized query text.
package campus

import (
	"slices"
	"strings"

	"github.com/dvc-advising/transferbot-go/internal/textnorm"
)

// Key identifies one destination campus.
type Key string

// The current deployment advises transfer into three UC campuses.
const (
	UCB  Key = "UCB"
	UCD  Key = "UCD"
	UCSD Key = "UCSD"
)

// All lists every known campus key in canonical (sorted) order.
var All = []Key{UCB, UCD, UCSD}

// aliases maps each campus to the phrases that may reference it in
// normalized text: full name, short name, abbreviation, and nickname.
var aliases = map[Key][]string{
	UCB:  {"uc berkeley", "berkeley", "ucb", "cal"},
	UCD:  {"uc davis", "davis", "ucd"},
	UCSD: {"uc san diego", "san diego", "ucsd"},
}

// pretty maps campus keys to display names.
var pretty = map[Key]string{
	UCB:  "UC Berkeley",
	UCD:  "UC Davis",
	UCSD: "UC San Diego",
}

// IsValid reports whether k is a known campus key.
func IsValid(k Key) bool {
	_, ok := pretty[k]
	return ok
}

// Pretty returns the display name for a campus key.
// Unknown keys are returned unchanged.
func (k Key) Pretty() string {
	if name, ok := pretty[k]; ok {
		return name
	}
	return string(k)
}

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }

// Detect returns every campus whose alias occurs as a substring of the
// query, sorted for determinism. A query may legitimately reference
// multiple campuses ("ucb and ucsd requirements").
func Detect(query string) []Key {
	t := textnorm.Normalize(query)
	var found []Key
	for _, key := range All {
		for _, alias := range aliases[key] {
			if strings.Contains(t, alias) {
				found = append(found, key)
				break
			}
		}
	}
	slices.Sort(found)
	return found
}

// DetectOne returns the first campus detected in the query, in canonical
// key order. The boolean is false when no alias matches.
func DetectOne(query string) (Key, bool) {
	if keys := Detect(query); len(keys) > 0 {
		return keys[0], true
	}
	return "", false
}

// Parse resolves a raw token (an alias phrase or a bare key like "ucd")
// to a campus key. The boolean is false for unrecognized input.
func Parse(raw string) (Key, bool) {
	if k, ok := DetectOne(raw); ok {
		return k, ok
	}
	k := Key(strings.ToUpper(strings.TrimSpace(raw)))
	if IsValid(k) {
		return k, true
	}
	return "", false
}
