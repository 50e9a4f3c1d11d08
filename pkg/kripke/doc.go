// Package kripke implements Kripke structures: finite labeled transition
// systems used as the semantic model for temporal-logic formulas.
//
// A [Struct] owns an ordered atom list, a set of uniquely-labeled states, a
// start set, and the transition relation together with its inverse. The
// inverse map is maintained incrementally and is always the exact transpose
// of the forward map, which gives the CTL evaluator (package ctl) cheap
// backward reachability.
//
// # Labels
//
// State labels are bitmasks over the atom ordering: with n atoms, atom i owns
// bit (n-1-i). A label of 0b1100 over atoms (a, b, c, d) means {a, b}. Labels
// must be pairwise distinct across states; this is a deliberate constraint of
// this implementation, not of Kripke structures in general.
//
// # Building a structure
//
//	g := kripke.New()
//	g.SetAtoms([]string{"p", "q"})
//	g.AddState("s0", 0b10)
//	g.AddStateLabels("s1", []string{"q"})
//	g.SetStarts([]string{"s0"})
//	g.AddTransitions(map[string][]string{"s0": {"s1"}, "s1": {"s0"}})
//
// Batch mutations (AddStates, AddTransitions, RemoveStates,
// RemoveTransitions) are not transactional: entries processed before a
// failing entry remain applied.
//
// # Concurrency
//
// A Struct is safe for concurrent reads but not for concurrent mutation.
// [SCCs] and the evaluator's EG operator work on private snapshots and never
// mutate the caller's structure.
package kripke
