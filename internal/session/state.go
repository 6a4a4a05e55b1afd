// Package session tracks one conversation's accumulated filter and
// campus state across turns. State values are immutable: every command
// produces a new State, so independent sessions never share mutable
// data and need no locking between each other.
package session

import (
	"slices"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/filter"
)

// Status is the lifecycle phase of a session.
type Status int

const (
	// StatusEmpty is the initial phase: no campuses or filters set.
	StatusEmpty Status = iota
	// StatusActive accepts incremental commands. A session stays active
	// even when every campus has been removed.
	StatusActive
	// StatusTerminated accepts no further mutation.
	StatusTerminated
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusActive:
		return "active"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// State is the accumulated conversation state. The zero value is a
// valid empty session.
type State struct {
	Status   Status
	Campuses []campus.Key
	Filters  filter.Set
	Seed     filter.Seed

	// Turn counts processed turns, for transcript records.
	Turn int
}

// clone returns a deep copy so updates never alias prior states.
func (s State) clone() State {
	s.Campuses = slices.Clone(s.Campuses)
	s.Filters = s.Filters.Clone()
	s.Seed.Categories = slices.Clone(s.Seed.Categories)
	return s
}

// Activate transitions an empty session to active with the first turn's
// resolution. The caller must have verified at least one campus.
func (s State) Activate(res filter.Resolution, seed filter.Seed) State {
	next := s.clone()
	next.Status = StatusActive
	next.Campuses = slices.Clone(res.Campuses)
	next.Filters = res.Filters.Clone()
	next.Seed = seed
	next.Turn++
	// Seed categories back-fill the filter set only when the resolver
	// produced none of its own.
	if len(next.Filters.Categories) == 0 && !next.Filters.Focus.Exclusive() {
		next.Filters.Categories = slices.Clone(seed.Categories)
	}
	if seed.RequiredOnly {
		next.Filters.RequiredOnly = true
	}
	return next
}

// MergeTurn folds a follow-up turn's resolution into the state:
// completed courses/domains and categories union, focus/required-only
// overwrite only on explicit non-default values, and newly referenced
// campuses append to the selection.
func (s State) MergeTurn(res filter.Resolution) State {
	next := s.clone()
	next.Filters = next.Filters.Merge(res.Filters)
	for _, key := range res.Campuses {
		if !slices.Contains(next.Campuses, key) {
			next.Campuses = append(next.Campuses, key)
		}
	}
	next.Turn++
	return next
}

// RemoveCampuses drops the given campuses from the selection. The
// session remains active even when the selection becomes empty.
func (s State) RemoveCampuses(keys []campus.Key) State {
	next := s.clone()
	next.Campuses = slices.DeleteFunc(next.Campuses, func(k campus.Key) bool {
		return slices.Contains(keys, k)
	})
	next.Turn++
	return next
}

// ClearCategories drops all accumulated category tokens.
func (s State) ClearCategories() State {
	next := s.clone()
	next.Filters.Categories = nil
	next.Seed.Categories = nil
	next.Turn++
	return next
}

// ClearRequiredOnly resets the required-only flag ("show all").
func (s State) ClearRequiredOnly() State {
	next := s.clone()
	next.Filters.RequiredOnly = false
	next.Seed.RequiredOnly = false
	next.Turn++
	return next
}

// Reset clears completed courses and domains while retaining campus,
// category, and focus state.
func (s State) Reset() State {
	next := s.clone()
	next.Filters.CompletedCourses = nil
	next.Filters.CompletedDomains = nil
	next.Turn++
	return next
}

// Terminate moves the session to its final phase.
func (s State) Terminate() State {
	next := s.clone()
	next.Status = StatusTerminated
	next.Turn++
	return next
}
