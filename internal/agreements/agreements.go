// Package agreements flattens raw articulation-agreement JSON into
// equivalency rows. The agreement files are arbitrarily nested; the
// only contract is that requirement blocks carry "Category" and
// "Courses" keys, with each course pair holding a "DVC" block for the
// community-college side.
//
// The walk visits objects in document order, so row order and the
// first-occurrence-wins dedupe are stable across runs.
package agreements

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Row mirrors storage.EquivalencyRow without importing it, keeping this
// package a pure data transform.
type Row struct {
	Category        string
	MinimumRequired string
	SourceCode      string
	SourceTitle     string
	SourceUnits     string
}

// member is one object key/value pair in document order. Objects decode
// to []member instead of map[string]any, which would randomize iteration.
type member struct {
	key   string
	value any
}

// Flatten parses raw agreement JSON and collects every equivalency row,
// deduplicated by source code with the first occurrence winning.
func Flatten(raw []byte) ([]Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	doc, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse agreement JSON: %w", err)
	}

	var out []Row
	walk(doc, &out)

	seen := make(map[string]struct{}, len(out))
	dedup := make([]Row, 0, len(out))
	for _, r := range out {
		code := strings.TrimSpace(r.SourceCode)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		r.SourceCode = code
		dedup = append(dedup, r)
	}
	return dedup, nil
}

// decodeValue reads one JSON value from the token stream. Objects come
// back as []member, arrays as []any, scalars as string, json.Number,
// bool, or nil.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		var obj []member
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, member{key: key, value: val})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		var arr []any
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// field returns the first value stored under key.
func field(obj []member, key string) (any, bool) {
	for _, m := range obj {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

func walk(node any, out *[]Row) {
	switch v := node.(type) {
	case []member:
		_, hasCat := field(v, "Category")
		_, hasCourses := field(v, "Courses")
		if hasCat && hasCourses {
			collectBlock(v, out)
		}
		for _, m := range v {
			walk(m.value, out)
		}
	case []any:
		for _, child := range v {
			walk(child, out)
		}
	}
}

func collectBlock(block []member, out *[]Row) {
	catV, _ := field(block, "Category")
	mrV, _ := field(block, "Minimum_Required")
	cat := stringValue(catV)
	mr := stringValue(mrV)

	coursesV, _ := field(block, "Courses")
	courses, ok := coursesV.([]any)
	if !ok {
		return
	}
	for _, pairAny := range courses {
		pair, ok := pairAny.([]member)
		if !ok {
			continue
		}
		dvc, _ := field(pair, "DVC")
		var items []any
		if list, ok := dvc.([]any); ok {
			items = list
		} else {
			items = []any{dvc}
		}
		for _, itemAny := range items {
			item, ok := itemAny.([]member)
			if !ok {
				continue
			}
			code := stringValue(fieldOr(item, "Course_Code"))
			if code == "" {
				code = stringValue(fieldOr(item, "Code"))
			}
			units := stringValue(fieldOr(item, "Units"))
			if units == "" {
				units = stringValue(fieldOr(item, "units"))
			}
			*out = append(*out, Row{
				Category:        cat,
				MinimumRequired: mr,
				SourceCode:      code,
				SourceTitle:     stringValue(fieldOr(item, "Title")),
				SourceUnits:     units,
			})
		}
	}
}

func fieldOr(obj []member, key string) any {
	v, _ := field(obj, key)
	return v
}

// stringValue renders a JSON scalar as text. Numbers keep their JSON
// representation ("4", "4.5"); anything non-scalar is empty.
func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return fmt.Sprintf("%t", s)
	default:
		return ""
	}
}
