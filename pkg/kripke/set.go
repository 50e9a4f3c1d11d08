package kripke

import (
	"maps"
	"slices"
)

// StateSet is a set of state names. It is the currency of the CTL evaluator:
// every operator takes and returns satisfaction sets of this type, and the
// SCC finder returns a partition of the structure's states as StateSets.
type StateSet map[string]struct{}

// NewStateSet creates a set containing the given names.
func NewStateSet(names ...string) StateSet {
	s := make(StateSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s StateSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name into the set.
func (s StateSet) Add(name string) { s[name] = struct{}{} }

// Union returns a new set containing every name in s or t.
func (s StateSet) Union(t StateSet) StateSet {
	out := make(StateSet, len(s)+len(t))
	maps.Copy(out, s)
	maps.Copy(out, t)
	return out
}

// Intersect returns a new set containing the names in both s and t.
func (s StateSet) Intersect(t StateSet) StateSet {
	small, large := s, t
	if len(t) < len(s) {
		small, large = t, s
	}
	out := make(StateSet)
	for n := range small {
		if large.Contains(n) {
			out.Add(n)
		}
	}
	return out
}

// Difference returns a new set containing the names in s but not in t.
func (s StateSet) Difference(t StateSet) StateSet {
	out := make(StateSet)
	for n := range s {
		if !t.Contains(n) {
			out.Add(n)
		}
	}
	return out
}

// Equal reports whether s and t contain exactly the same names.
func (s StateSet) Equal(t StateSet) bool {
	if len(s) != len(t) {
		return false
	}
	for n := range s {
		if !t.Contains(n) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
func (s StateSet) Clone() StateSet {
	return maps.Clone(s)
}

// Sorted returns the names in the set in lexicographic order.
func (s StateSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}
