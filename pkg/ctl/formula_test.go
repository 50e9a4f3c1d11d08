package ctl

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/marcusm117/mctk/pkg/kripke"
)

func TestFormula_Validate(t *testing.T) {
	valid := Binary(OpEU, Prop("a"), Unary(OpEX, Prop("b")))
	if err := valid.Validate(); err != nil {
		t.Errorf("valid formula rejected: %v", err)
	}

	cases := []struct {
		name string
		f    *Formula
	}{
		{"unknown op", &Formula{Op: "EZ"}},
		{"unary with two args", &Formula{Op: OpNot, Args: []*Formula{Prop("a"), Prop("b")}}},
		{"binary with one arg", &Formula{Op: OpAnd, Args: []*Formula{Prop("a")}}},
		{"atom with args", &Formula{Op: OpAtom, Atom: "a", Args: []*Formula{Prop("b")}}},
		{"empty atom name", &Formula{Op: OpAtom}},
		{"nested malformed", Unary(OpEF, &Formula{Op: OpAU})},
	}
	for _, tc := range cases {
		if err := tc.f.Validate(); !errors.Is(err, ErrMalformedFormula) {
			t.Errorf("%s: expected ErrMalformedFormula, got %v", tc.name, err)
		}
	}
}

func TestFormula_String(t *testing.T) {
	cases := []struct {
		f    *Formula
		want string
	}{
		{Prop("a"), "a"},
		{Unary(OpNot, Prop("a")), "!a"},
		{Binary(OpAnd, Prop("a"), Prop("b")), "(a & b)"},
		{Binary(OpImplies, Prop("a"), Prop("b")), "(a -> b)"},
		{Binary(OpIff, Prop("a"), Prop("b")), "(a <-> b)"},
		{Unary(OpEX, Prop("a")), "EX a"},
		{Unary(OpAG, Unary(OpNot, Prop("crash"))), "AG !crash"},
		{Binary(OpEU, Prop("a"), Prop("b")), "E[a U b]"},
		{Binary(OpAU, Prop("a"), Unary(OpEF, Prop("b"))), "A[a U EF b]"},
	}
	for _, tc := range cases {
		if got := tc.f.String(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestParseJSON(t *testing.T) {
	raw := `{"op":"EU","args":[{"op":"atom","atom":"a"},{"op":"atom","atom":"b"}]}`
	f, err := ParseJSON([]byte(raw))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if f.String() != "E[a U b]" {
		t.Errorf("unexpected formula: %s", f)
	}

	if _, err := ParseJSON([]byte(`{"op":"bogus"}`)); !errors.Is(err, ErrMalformedFormula) {
		t.Errorf("expected ErrMalformedFormula, got %v", err)
	}
	if _, err := ParseJSON([]byte(`{not json`)); err == nil {
		t.Error("expected a decode error")
	}
}

func TestFormula_JSONRoundTrip(t *testing.T) {
	f := Binary(OpAU, Unary(OpEX, Prop("a")), Binary(OpOr, Prop("b"), Prop("c")))

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if back.String() != f.String() {
		t.Errorf("round trip changed the formula: %s vs %s", back, f)
	}
}

func TestFormula_Eval(t *testing.T) {
	g := newScenario(t)

	// EF (a & b) on the scenario: only s1 and s2 can reach the single state
	// satisfying both.
	f := Unary(OpEF, Binary(OpAnd, Prop("a"), Prop("b")))
	got, err := f.Eval(g)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	wantSet(t, f.String(), got, "s1", "s2")

	// The tree evaluator and the direct operators must agree.
	direct := AU(g, sat(t, g, "a"), sat(t, g, "b"))
	viaTree, err := Binary(OpAU, Prop("a"), Prop("b")).Eval(g)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !viaTree.Equal(direct) {
		t.Errorf("tree eval disagrees with direct AU: %v vs %v", viaTree.Sorted(), direct.Sorted())
	}

	if _, err := Prop("nope").Eval(g); !errors.Is(err, ErrUndefinedAtom) {
		t.Errorf("expected ErrUndefinedAtom, got %v", err)
	}

	var nilFormula *Formula
	if _, err := nilFormula.Eval(kripke.New()); !errors.Is(err, ErrMalformedFormula) {
		t.Errorf("expected ErrMalformedFormula for nil, got %v", err)
	}
}
