// Package ctl evaluates Computation Tree Logic operators over Kripke
// structures. Every function is pure: it maps a structure and one or two
// satisfaction sets to a new satisfaction set and never mutates its inputs.
//
// Only EX, EU, and EG carry their own algorithms. Every universal (A-)
// operator is the negation dual of an existential (E-) one:
//
//	AX p      = ¬EX ¬p
//	AG p      = ¬EF ¬p
//	AF p      = ¬EG ¬p
//	A[p U q]  = ¬E[¬q U (¬p ∧ ¬q)] ∧ ¬EG ¬q
//
// so the surface needing independent correctness arguments stays small.
// EU and EG are least/greatest fixpoints over the finite state lattice,
// computed by backward expansion along the inverse transition map.
package ctl

import (
	"errors"
	"fmt"

	"github.com/marcusm117/mctk/pkg/kripke"
)

// Reserved literal names understood by SAT alongside declared atoms.
const (
	LiteralTrue  = "True"
	LiteralFalse = "False"
)

// ErrUndefinedAtom is returned by SAT when the name is neither a reserved
// literal nor a declared atom of the structure.
var ErrUndefinedAtom = errors.New("atom not defined in the structure")

// SAT returns the states whose label includes the named atom. The reserved
// names "True" and "False" denote the universal and empty sets and bypass the
// atom-membership check.
func SAT(g *kripke.Struct, atom string) (kripke.StateSet, error) {
	switch atom {
	case LiteralTrue:
		return g.StateNameSet(), nil
	case LiteralFalse:
		return kripke.NewStateSet(), nil
	}
	bit, ok := g.AtomBit(atom)
	if !ok {
		return nil, fmt.Errorf("atom %q: %w", atom, ErrUndefinedAtom)
	}
	sat := kripke.NewStateSet()
	for name, label := range g.States() {
		if label&bit != 0 {
			sat.Add(name)
		}
	}
	return sat, nil
}

// NOT returns the complement of s with respect to all states of g.
func NOT(g *kripke.Struct, s kripke.StateSet) kripke.StateSet {
	return g.StateNameSet().Difference(s)
}

// AND returns the intersection of two satisfaction sets.
func AND(s1, s2 kripke.StateSet) kripke.StateSet { return s1.Intersect(s2) }

// OR returns the union of two satisfaction sets.
func OR(s1, s2 kripke.StateSet) kripke.StateSet { return s1.Union(s2) }

// IMPLIES returns the states satisfying s1 → s2, i.e. ¬s1 ∪ s2.
func IMPLIES(g *kripke.Struct, s1, s2 kripke.StateSet) kripke.StateSet {
	return NOT(g, s1).Union(s2)
}

// IFF returns the states satisfying s1 ↔ s2.
func IFF(g *kripke.Struct, s1, s2 kripke.StateSet) kripke.StateSet {
	return AND(IMPLIES(g, s1, s2), IMPLIES(g, s2, s1))
}

// EX returns the states with at least one successor in s.
func EX(g *kripke.Struct, s kripke.StateSet) kripke.StateSet {
	sat := kripke.NewStateSet()
	for _, name := range g.StateNames() {
		for _, succ := range g.Successors(name) {
			if s.Contains(succ) {
				sat.Add(name)
				break
			}
		}
	}
	return sat
}

// AX returns the states all of whose successors are in s: ¬EX ¬s.
// A state with no successors satisfies AX vacuously.
func AX(g *kripke.Struct, s kripke.StateSet) kripke.StateSet {
	return NOT(g, EX(g, NOT(g, s)))
}

// EU returns the states satisfying E[s1 U s2]: some path reaches an s2-state
// while staying in s1 until then. Computed as a least fixpoint: starting from
// s2, repeatedly add the s1-predecessors of the current set until it stops
// growing. The set is monotone non-decreasing and bounded by the state count,
// so the loop terminates in at most |states| rounds.
func EU(g *kripke.Struct, s1, s2 kripke.StateSet) kripke.StateSet {
	sat := s2.Clone()
	for {
		preds := predecessors(g, sat)
		next := sat.Union(s1.Intersect(preds))
		if len(next) == len(sat) {
			return sat
		}
		sat = next
	}
}

// EF returns the states from which some path eventually reaches s:
// E[true U s].
func EF(g *kripke.Struct, s kripke.StateSet) kripke.StateSet {
	return EU(g, g.StateNameSet(), s)
}

// AG returns the states on all of whose paths s holds globally: ¬EF ¬s.
func AG(g *kripke.Struct, s kripke.StateSet) kripke.StateSet {
	return NOT(g, EF(g, NOT(g, s)))
}

// EG returns the states with an infinite path staying entirely in s.
//
// The witnesses of such a path are the cycles of the subgraph induced by s:
// the structure is restricted to s-states and s-internal edges, its strongly
// connected components are computed, and the result is seeded with every
// component that can sustain an infinite path. That is every component of
// size greater than one, plus every singleton whose state has a self-loop in
// the restricted subgraph; a self-loop is as good a witness as a larger
// cycle. The seed is then expanded backward within the restricted subgraph to
// a fixpoint, exactly as in EU.
//
// The caller's structure is never mutated; the restriction is a snapshot.
func EG(g *kripke.Struct, s kripke.StateSet) kripke.StateSet {
	sub := g.Restrict(s)

	sat := kripke.NewStateSet()
	for _, component := range kripke.SCCs(sub) {
		if len(component) > 1 {
			sat = sat.Union(component)
			continue
		}
		for name := range component {
			if hasSelfLoop(sub, name) {
				sat.Add(name)
			}
		}
	}
	if len(sat) == 0 {
		return sat
	}

	for {
		next := sat.Union(predecessors(sub, sat))
		if len(next) == len(sat) {
			return sat
		}
		sat = next
	}
}

// AF returns the states on all of whose paths s eventually holds: ¬EG ¬s.
func AF(g *kripke.Struct, s kripke.StateSet) kripke.StateSet {
	return NOT(g, EG(g, NOT(g, s)))
}

// AU returns the states satisfying A[s1 U s2], by the derived identity
// ¬E[¬s2 U (¬s1 ∧ ¬s2)] ∧ ¬EG ¬s2 rather than a separate fixpoint.
func AU(g *kripke.Struct, s1, s2 kripke.StateSet) kripke.StateSet {
	notS1 := NOT(g, s1)
	notS2 := NOT(g, s2)
	return AND(
		NOT(g, EU(g, notS2, AND(notS1, notS2))),
		NOT(g, EG(g, notS2)),
	)
}

// predecessors returns the union of the inverse-map neighbors of every state
// in s.
func predecessors(g *kripke.Struct, s kripke.StateSet) kripke.StateSet {
	preds := kripke.NewStateSet()
	for name := range s {
		for _, pred := range g.Predecessors(name) {
			preds.Add(pred)
		}
	}
	return preds
}

func hasSelfLoop(g *kripke.Struct, name string) bool {
	for _, succ := range g.Successors(name) {
		if succ == name {
			return true
		}
	}
	return false
}
