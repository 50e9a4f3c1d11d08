package render

import (
	"strings"
	"testing"

	"github.com/marcusm117/mctk/pkg/kripke"
)

func newGraph(t *testing.T) *kripke.Struct {
	t.Helper()

	g := kripke.New()
	if err := g.SetAtoms([]string{"p", "q"}); err != nil {
		t.Fatalf("SetAtoms: %v", err)
	}
	if err := g.AddStates(map[string]uint64{"s1": 0b10, "s2": 0b11, "s3": 0}); err != nil {
		t.Fatalf("AddStates: %v", err)
	}
	if err := g.SetStarts([]string{"s1"}); err != nil {
		t.Fatalf("SetStarts: %v", err)
	}
	err := g.AddTransitions(map[string][]string{
		"s1": {"s2"},
		"s2": {"s3", "s1"},
	})
	if err != nil {
		t.Fatalf("AddTransitions: %v", err)
	}
	return g
}

func TestToDOT_Basics(t *testing.T) {
	g := newGraph(t)
	dot := ToDOT(g, Options{Title: "demo"})

	for _, want := range []string{
		"digraph kripke {",
		"rankdir=LR;",
		`label="demo";`,
		`"s1" [label="s1", shape=doublecircle];`,
		`"s2" [label="s2"];`,
		`"s1" -> "s2";`,
		`"s2" -> "s1";`,
		`"s2" -> "s3";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in output:\n%s", want, dot)
		}
	}
}

func TestToDOT_HighlightAndLabels(t *testing.T) {
	g := newGraph(t)
	dot := ToDOT(g, Options{
		Highlight:  kripke.NewStateSet("s2"),
		ShowLabels: true,
	})

	if !strings.Contains(dot, `"s2" [label="s2\n{p,q}", style=filled, fillcolor=palegreen];`) {
		t.Errorf("highlighted labeled node missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="s3\n{}"`) {
		t.Errorf("empty label form missing:\n%s", dot)
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	g := newGraph(t)
	first := ToDOT(g, Options{})
	for i := 0; i < 10; i++ {
		if ToDOT(g, Options{}) != first {
			t.Fatal("output is not deterministic")
		}
	}
}
