// Package pkg provides the core libraries for mctk explicit-state model
// checking.
//
// # Overview
//
// mctk answers CTL queries about finite transition systems exactly: given a
// Kripke structure and a formula, it computes the full set of states
// satisfying the formula. The pkg directory is organized into:
//
//  1. [kripke] - Kripke structures (states, labels, transitions, SCCs)
//  2. [ctl] - The CTL satisfaction-set evaluator and formula trees
//  3. [model] - JSON record format for structures (files and API payloads)
//  4. [render] - Graphviz DOT/SVG/PNG visualization
//  5. [cache] - Verdict cache backends (file, Redis, MongoDB, null)
//  6. [apperr] - Error codes at the CLI/API boundary
//  7. [observability] - Instrumentation hooks for checks and cache events
//
// # Architecture
//
// The typical data flow:
//
//	model file / API payload
//	         ↓
//	    [model] package (decode, validate, build)
//	         ↓
//	    [kripke] package (structure + inverse transitions + SCCs)
//	         ↓
//	    [ctl] package (fixpoint evaluation)
//	         ↓
//	    satisfaction set → verdict / rendering / cache
//
// # Quick Start
//
// Build a structure and check a formula:
//
//	g := kripke.New()
//	g.SetAtoms([]string{"ready", "done"})
//	g.AddStateLabels("s1", []string{"ready"})
//	g.AddStateLabels("s2", []string{"done"})
//	g.SetStarts([]string{"s1"})
//	g.AddTransitions(map[string][]string{"s1": {"s2"}, "s2": {"s2"}})
//
//	f := ctl.Unary(ctl.OpAF, ctl.Prop("done"))
//	sat, err := f.Eval(g)
//
// The evaluator never mutates the structure; every operator returns a fresh
// satisfaction set.
//
// [kripke]: https://pkg.go.dev/github.com/marcusm117/mctk/pkg/kripke
// [ctl]: https://pkg.go.dev/github.com/marcusm117/mctk/pkg/ctl
// [model]: https://pkg.go.dev/github.com/marcusm117/mctk/pkg/model
// [render]: https://pkg.go.dev/github.com/marcusm117/mctk/pkg/render
// [cache]: https://pkg.go.dev/github.com/marcusm117/mctk/pkg/cache
// [apperr]: https://pkg.go.dev/github.com/marcusm117/mctk/pkg/apperr
// [observability]: https://pkg.go.dev/github.com/marcusm117/mctk/pkg/observability
package pkg
