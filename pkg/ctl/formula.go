package ctl

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/marcusm117/mctk/pkg/kripke"
)

// Op identifies a CTL connective in a formula tree.
type Op string

// Formula operators. OpAtom leaves carry an atom name (or the reserved
// literals "True"/"False"); the remaining operators carry one or two
// sub-formulas.
const (
	OpAtom    Op = "atom"
	OpNot     Op = "not"
	OpAnd     Op = "and"
	OpOr      Op = "or"
	OpImplies Op = "implies"
	OpIff     Op = "iff"
	OpEX      Op = "EX"
	OpAX      Op = "AX"
	OpEF      Op = "EF"
	OpAG      Op = "AG"
	OpEG      Op = "EG"
	OpAF      Op = "AF"
	OpEU      Op = "EU"
	OpAU      Op = "AU"
)

// ErrMalformedFormula is returned by [Formula.Validate] and [Formula.Eval]
// when an operator has the wrong number of arguments or an unknown Op.
var ErrMalformedFormula = errors.New("malformed formula")

// Formula is a CTL expression tree. Trees are built by direct composition
// (see [Prop], [Unary], [Binary]) or decoded from their JSON record form:
//
//	{"op": "EU", "args": [{"op": "atom", "atom": "a"}, {"op": "atom", "atom": "b"}]}
//
// The JSON form exists so drivers can accept formula trees without a concrete
// CTL syntax parser; it is a structured record, not a surface syntax.
type Formula struct {
	Op   Op         `json:"op"`
	Atom string     `json:"atom,omitempty"`
	Args []*Formula `json:"args,omitempty"`
}

// Prop returns an atomic-proposition leaf.
func Prop(atom string) *Formula {
	return &Formula{Op: OpAtom, Atom: atom}
}

// Unary composes a one-argument connective (not, EX, AX, EF, AG, EG, AF).
func Unary(op Op, f *Formula) *Formula {
	return &Formula{Op: op, Args: []*Formula{f}}
}

// Binary composes a two-argument connective (and, or, implies, iff, EU, AU).
func Binary(op Op, left, right *Formula) *Formula {
	return &Formula{Op: op, Args: []*Formula{left, right}}
}

// arity returns the expected argument count for op, or -1 if op is unknown.
func arity(op Op) int {
	switch op {
	case OpAtom:
		return 0
	case OpNot, OpEX, OpAX, OpEF, OpAG, OpEG, OpAF:
		return 1
	case OpAnd, OpOr, OpImplies, OpIff, OpEU, OpAU:
		return 2
	}
	return -1
}

// Validate checks the tree for unknown operators and arity mismatches.
func (f *Formula) Validate() error {
	if f == nil {
		return fmt.Errorf("nil node: %w", ErrMalformedFormula)
	}
	want := arity(f.Op)
	if want < 0 {
		return fmt.Errorf("unknown operator %q: %w", f.Op, ErrMalformedFormula)
	}
	if len(f.Args) != want {
		return fmt.Errorf("operator %q wants %d args, has %d: %w", f.Op, want, len(f.Args), ErrMalformedFormula)
	}
	if f.Op == OpAtom && f.Atom == "" {
		return fmt.Errorf("atom leaf with empty name: %w", ErrMalformedFormula)
	}
	for _, arg := range f.Args {
		if err := arg.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Eval computes the satisfaction set of the formula on g, bottom-up.
// The structure is never mutated.
func (f *Formula) Eval(g *kripke.Struct) (kripke.StateSet, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.eval(g)
}

func (f *Formula) eval(g *kripke.Struct) (kripke.StateSet, error) {
	if f.Op == OpAtom {
		return SAT(g, f.Atom)
	}

	sub := make([]kripke.StateSet, len(f.Args))
	for i, arg := range f.Args {
		s, err := arg.eval(g)
		if err != nil {
			return nil, err
		}
		sub[i] = s
	}

	switch f.Op {
	case OpNot:
		return NOT(g, sub[0]), nil
	case OpAnd:
		return AND(sub[0], sub[1]), nil
	case OpOr:
		return OR(sub[0], sub[1]), nil
	case OpImplies:
		return IMPLIES(g, sub[0], sub[1]), nil
	case OpIff:
		return IFF(g, sub[0], sub[1]), nil
	case OpEX:
		return EX(g, sub[0]), nil
	case OpAX:
		return AX(g, sub[0]), nil
	case OpEF:
		return EF(g, sub[0]), nil
	case OpAG:
		return AG(g, sub[0]), nil
	case OpEG:
		return EG(g, sub[0]), nil
	case OpAF:
		return AF(g, sub[0]), nil
	case OpEU:
		return EU(g, sub[0], sub[1]), nil
	case OpAU:
		return AU(g, sub[0], sub[1]), nil
	}
	return nil, fmt.Errorf("unknown operator %q: %w", f.Op, ErrMalformedFormula)
}

// String renders the formula in conventional CTL notation, fully
// parenthesized for the binary boolean connectives.
func (f *Formula) String() string {
	if f == nil {
		return "<nil>"
	}
	switch f.Op {
	case OpAtom:
		return f.Atom
	case OpNot:
		return "!" + f.Args[0].String()
	case OpAnd:
		return fmt.Sprintf("(%s & %s)", f.Args[0], f.Args[1])
	case OpOr:
		return fmt.Sprintf("(%s | %s)", f.Args[0], f.Args[1])
	case OpImplies:
		return fmt.Sprintf("(%s -> %s)", f.Args[0], f.Args[1])
	case OpIff:
		return fmt.Sprintf("(%s <-> %s)", f.Args[0], f.Args[1])
	case OpEX, OpAX, OpEF, OpAG, OpEG, OpAF:
		return fmt.Sprintf("%s %s", f.Op, f.Args[0])
	case OpEU:
		return fmt.Sprintf("E[%s U %s]", f.Args[0], f.Args[1])
	case OpAU:
		return fmt.Sprintf("A[%s U %s]", f.Args[0], f.Args[1])
	}
	return string(f.Op)
}

// ParseJSON decodes and validates a formula record.
func ParseJSON(data []byte) (*Formula, error) {
	var f Formula
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode formula: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
