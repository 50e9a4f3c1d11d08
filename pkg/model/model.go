// Package model provides the structured record format for Kripke structures.
//
// This is the serialization boundary between files or API payloads and
// [kripke.Struct]. The JSON keys match the format the model files have always
// used:
//
//	{
//	  "Atoms":  ["a", "b", "c", "d"],
//	  "States": {"s1": 8, "s2": ["a", "b"]},
//	  "Starts": ["s1"],
//	  "Trans":  {"s1": ["s2"], "s2": ["s1"]}
//	}
//
// State labels may be given either as an explicit bitmask integer or as a
// list of atom names; the canonical internal form is the bitmask, computed
// from the atom ordering. Construction applies atoms, then states, then
// starts, then transitions, since each field validates against the previous
// ones.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/marcusm117/mctk/pkg/kripke"
)

// Label is a state label in either of its two record forms: an explicit
// bitmask or a list of atom names. Exactly one form is populated after
// decoding.
type Label struct {
	Mask  uint64
	Atoms []string // nil unless the record used the atom-name form
}

// MaskLabel returns a Label in explicit-bitmask form.
func MaskLabel(mask uint64) Label { return Label{Mask: mask} }

// AtomsLabel returns a Label in atom-name form.
func AtomsLabel(atoms ...string) Label { return Label{Atoms: atoms} }

// UnmarshalJSON accepts either a JSON number (bitmask) or an array of atom
// names.
func (l *Label) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &l.Atoms)
	}
	l.Atoms = nil
	return json.Unmarshal(trimmed, &l.Mask)
}

// MarshalJSON emits the canonical bitmask form, unless the label was built in
// atom-name form, which round-trips as the name list.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.Atoms != nil {
		return json.Marshal(l.Atoms)
	}
	return json.Marshal(l.Mask)
}

// Model is the structured record for a Kripke structure.
type Model struct {
	Atoms  []string            `json:"Atoms"`
	States map[string]Label    `json:"States"`
	Starts []string            `json:"Starts"`
	Trans  map[string][]string `json:"Trans"`
}

// Build constructs a [kripke.Struct] from the record, applying the fields in
// order: atoms, states (sorted by name), starts, transitions. The first
// failing field aborts construction; because state insertion is a
// non-transactional batch, the error reports the exact offending entry.
func (m *Model) Build() (*kripke.Struct, error) {
	g := kripke.New()
	if err := g.SetAtoms(m.Atoms); err != nil {
		return nil, fmt.Errorf("atoms: %w", err)
	}
	for _, name := range slices.Sorted(maps.Keys(m.States)) {
		label := m.States[name]
		var err error
		if label.Atoms != nil {
			err = g.AddStateLabels(name, label.Atoms)
		} else {
			err = g.AddState(name, label.Mask)
		}
		if err != nil {
			return nil, fmt.Errorf("states: %w", err)
		}
	}
	if err := g.SetStarts(m.Starts); err != nil {
		return nil, fmt.Errorf("starts: %w", err)
	}
	if err := g.AddTransitions(m.Trans); err != nil {
		return nil, fmt.Errorf("trans: %w", err)
	}
	return g, nil
}

// FromStruct exports a structure back into record form with bitmask labels.
func FromStruct(g *kripke.Struct) *Model {
	states := make(map[string]Label)
	for name, mask := range g.States() {
		states[name] = MaskLabel(mask)
	}
	return &Model{
		Atoms:  g.Atoms(),
		States: states,
		Starts: g.Starts(),
		Trans:  g.Transitions(),
	}
}

// Marshal converts a model record to indented JSON bytes.
func Marshal(m *Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a model record.
func Unmarshal(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &m, nil
}

// ReadFile reads a JSON model file and returns the decoded record.
func ReadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

// WriteFile writes a model record to a JSON file with 0644 permissions.
func WriteFile(m *Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return write(m, f)
}

func write(m *Model, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

func read(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &m, nil
}
