// Package category extracts requirement-category intents ("major
// preparation", "breadth", ...) from free text and matches requested
// categories against equivalency-row category labels.
//
// Category labels are free text in the articulation data, so matching is
// substring based with a fixed alias table rather than exact equality.
package category

import (
	"regexp"
	"slices"
	"strings"

	"github.com/dvc-advising/transferbot-go/internal/textnorm"
)

// entry pairs a canonical category name with its variant phrasings.
// Order matters: canonical names are tried in table order when reducing
// a matched phrase to its canonical form.
type entry struct {
	canonical string
	variants  []string
}

// aliasTable maps the high-level groupings seen in articulation grids to
// the ways students write them.
var aliasTable = []entry{
	{"major preparation", []string{"major preparation", "lower division major", "ld major"}},
	{"lower division major", []string{"lower division major", "ld major"}},
	{"general education", []string{"general education", "ge", "breadth"}},
	{"breadth", []string{"breadth", "ge area", "area"}},
	{"math", []string{"math", "mathematics"}},
	{"science", []string{"science", "natural science", "biology", "chemistry", "physics"}},
	{"computer science", []string{"computer science", "cs", "programming", "software"}},
}

var (
	// quotedCategory captures category:"..." directives.
	quotedCategory = regexp.MustCompile(`category\s*:\s*"(.+?)"`)

	// onlyPhrase captures "only <phrase>"; the phrase is truncated at the
	// first punctuation mark.
	onlyPhrase = regexp.MustCompile(`\bonly\s+([a-z0-9 \-/&]+)`)

	// showOnlyPhrase captures "show <phrase> only".
	showOnlyPhrase = regexp.MustCompile(`\bshow\s+([a-z0-9 \-/&]+?)\s+only\b`)

	phraseTerminator = regexp.MustCompile(`[.,;:!?()\[\]{}]`)
)

// phrasePatterns holds a word-boundary matcher per alias phrase. Plain
// substring matching would let short aliases like "cs" fire inside
// words ("physics").
var phrasePatterns = map[string]*regexp.Regexp{}

func init() {
	add := func(p string) {
		if _, ok := phrasePatterns[p]; !ok {
			phrasePatterns[p] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
		}
	}
	for _, e := range aliasTable {
		add(e.canonical)
		for _, v := range e.variants {
			add(v)
		}
	}
}

// containsPhrase reports whether phrase occurs in text on word
// boundaries. Unknown phrases fall back to substring matching.
func containsPhrase(text, phrase string) bool {
	if re, ok := phrasePatterns[phrase]; ok {
		return re.MatchString(text)
	}
	return strings.Contains(text, phrase)
}

// Canonical reports whether name is a canonical category, and returns the
// alias phrases for it.
func Canonical(name string) ([]string, bool) {
	for _, e := range aliasTable {
		if e.canonical == name {
			return e.variants, true
		}
	}
	return nil, false
}

// Detect pulls category intents from free text. Three strategies are
// unioned: an explicit category:"..." directive, an "only X" / "show X
// only" phrase, and substring matches against the alias table. Each
// matched phrase is reduced to a canonical category name when one occurs
// inside it; otherwise the raw phrase is kept. The result is sorted.
func Detect(text string) []string {
	low := textnorm.Normalize(text)
	picked := make(map[string]struct{})

	for _, m := range quotedCategory.FindAllStringSubmatch(low, -1) {
		if phrase := strings.TrimSpace(m[1]); phrase != "" {
			picked[phrase] = struct{}{}
		}
	}

	for _, m := range onlyPhrase.FindAllStringSubmatch(low, -1) {
		phrase := strings.TrimSpace(phraseTerminator.Split(m[1], 2)[0])
		if phrase != "" {
			picked[phrase] = struct{}{}
		}
	}

	for _, m := range showOnlyPhrase.FindAllStringSubmatch(low, -1) {
		if phrase := strings.TrimSpace(m[1]); phrase != "" {
			picked[phrase] = struct{}{}
		}
	}

	for _, e := range aliasTable {
		if containsPhrase(low, e.canonical) {
			picked[e.canonical] = struct{}{}
			continue
		}
		for _, v := range e.variants {
			if containsPhrase(low, v) {
				picked[e.canonical] = struct{}{}
				break
			}
		}
	}

	out := make(map[string]struct{}, len(picked))
	for p := range picked {
		matched := p
		for _, e := range aliasTable {
			if containsPhrase(p, e.canonical) {
				matched = e.canonical
				break
			}
		}
		out[matched] = struct{}{}
	}

	result := make([]string, 0, len(out))
	for c := range out {
		result = append(result, c)
	}
	slices.Sort(result)
	return result
}

// RowMatches reports whether a row's category label satisfies at least
// one requested category token. An empty request list matches every row.
// A requested token that names a canonical category also matches through
// that category's alias phrases.
//
// Matching is plain substring on both the token and its aliases, so a
// label like "GE Areas of Study" satisfies the breadth alias "area".
// Word-boundary matching applies only to detection in free text.
func RowMatches(rowCategory string, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	catText := strings.ToLower(rowCategory)
	if catText == "" {
		return false
	}
	for _, req := range requested {
		rlow := strings.ToLower(req)
		if variants, ok := Canonical(rlow); ok {
			for _, alias := range variants {
				if strings.Contains(catText, alias) {
					return true
				}
			}
		}
		if strings.Contains(catText, rlow) {
			return true
		}
	}
	return false
}
