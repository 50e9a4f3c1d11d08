package model

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/marcusm117/mctk/pkg/kripke"
)

const scenarioJSON = `{
  "Atoms": ["a", "b", "c", "d"],
  "States": {
    "s1": 8,
    "s2": 12,
    "s3": 6,
    "s4": 7,
    "s5": 4,
    "s6": 2,
    "s7": 1
  },
  "Starts": ["s1"],
  "Trans": {
    "s1": ["s2"],
    "s2": ["s3", "s4"],
    "s3": ["s4"],
    "s4": ["s7"],
    "s5": ["s6"],
    "s6": ["s7", "s5"],
    "s7": ["s5"]
  }
}`

func TestUnmarshalAndBuild(t *testing.T) {
	m, err := Unmarshal([]byte(scenarioJSON))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	g, err := m.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.StateCount() != 7 {
		t.Errorf("expected 7 states, got %d", g.StateCount())
	}
	if !slices.Equal(g.Starts(), []string{"s1"}) {
		t.Errorf("starts: %v", g.Starts())
	}
	label, err := g.StateLabel("s4")
	if err != nil {
		t.Fatalf("StateLabel: %v", err)
	}
	if label != 0b0111 {
		t.Errorf("s4 label: %#b", label)
	}
	if succ := g.Successors("s6"); !slices.Equal(succ, []string{"s7", "s5"}) {
		t.Errorf("s6 successors: %v", succ)
	}
}

func TestBuild_AtomListLabels(t *testing.T) {
	raw := `{
	  "Atoms": ["p", "q"],
	  "States": {"s1": ["p"], "s2": ["p", "q"], "s3": 0},
	  "Starts": ["s1"],
	  "Trans": {"s1": ["s2"], "s2": ["s3"]}
	}`
	m, err := Unmarshal([]byte(raw))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	g, err := m.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for name, want := range map[string]uint64{"s1": 0b10, "s2": 0b11, "s3": 0} {
		got, err := g.StateLabel(name)
		if err != nil {
			t.Fatalf("StateLabel(%s): %v", name, err)
		}
		if got != want {
			t.Errorf("label of %s: expected %#b, got %#b", name, want, got)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name     string
		m        *Model
		sentinel error
	}{
		{
			"duplicate label",
			&Model{
				Atoms:  []string{"a"},
				States: map[string]Label{"s1": MaskLabel(1), "s2": MaskLabel(1)},
			},
			kripke.ErrDuplicateLabel,
		},
		{
			"label overflow",
			&Model{
				Atoms:  []string{"a"},
				States: map[string]Label{"s1": MaskLabel(2)},
			},
			kripke.ErrLabelOverflow,
		},
		{
			"unknown atom in label",
			&Model{
				Atoms:  []string{"a"},
				States: map[string]Label{"s1": AtomsLabel("z")},
			},
			kripke.ErrUnknownAtom,
		},
		{
			"unknown start",
			&Model{
				Atoms:  []string{"a"},
				States: map[string]Label{"s1": MaskLabel(1)},
				Starts: []string{"s9"},
			},
			kripke.ErrUnknownState,
		},
		{
			"unknown transition target",
			&Model{
				Atoms:  []string{"a"},
				States: map[string]Label{"s1": MaskLabel(1)},
				Trans:  map[string][]string{"s1": {"s9"}},
			},
			kripke.ErrUnknownState,
		},
	}
	for _, tc := range cases {
		if _, err := tc.m.Build(); !errors.Is(err, tc.sentinel) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.sentinel, err)
		}
	}
}

func TestFromStruct_RoundTrip(t *testing.T) {
	m, err := Unmarshal([]byte(scenarioJSON))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	g, err := m.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	back := FromStruct(g)
	g2, err := back.Build()
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	if !g.StateNameSet().Equal(g2.StateNameSet()) {
		t.Error("state sets differ after round trip")
	}
	if !slices.Equal(g.Starts(), g2.Starts()) {
		t.Errorf("starts differ: %v vs %v", g.Starts(), g2.Starts())
	}
	for _, name := range g.StateNames() {
		l1, _ := g.StateLabel(name)
		l2, _ := g2.StateLabel(name)
		if l1 != l2 {
			t.Errorf("label of %s differs", name)
		}
		if !slices.Equal(g.Successors(name), g2.Successors(name)) {
			t.Errorf("successors of %s differ", name)
		}
	}
}

func TestReadWriteFile(t *testing.T) {
	m, err := Unmarshal([]byte(scenarioJSON))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.json")
	if err := WriteFile(m, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !slices.Equal(back.Atoms, m.Atoms) {
		t.Errorf("atoms differ: %v", back.Atoms)
	}
	if len(back.States) != len(m.States) {
		t.Errorf("state counts differ: %d vs %d", len(back.States), len(m.States))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"Atoms": 12}`)); err == nil {
		t.Error("expected a decode error")
	}
}
