package kripke

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrAtomsFrozen is returned by [Struct.SetAtoms] once any state exists.
	// The atom ordering defines the bit positions of every state label, so it
	// must not change under existing states.
	ErrAtomsFrozen = errors.New("atoms are frozen once states exist")

	// ErrDuplicateState is returned by [Struct.AddState] when a state with the
	// same name already exists. State names must be unique.
	ErrDuplicateState = errors.New("duplicate state name")

	// ErrDuplicateLabel is returned by [Struct.AddState] and
	// [Struct.SetStateLabel] when the label bitmask is already used by another
	// state. Labels must be pairwise distinct so that label-based lookups
	// cannot alias two states.
	ErrDuplicateLabel = errors.New("duplicate state label")

	// ErrUnknownAtom is returned when a label names an atom that is not part
	// of the atom ordering.
	ErrUnknownAtom = errors.New("unknown atom")

	// ErrUnknownState is returned when an operation names a state that does
	// not exist: a transition endpoint, a start state, or a label query.
	ErrUnknownState = errors.New("unknown state")

	// ErrLabelOverflow is returned when a label bitmask uses bit positions at
	// or above the atom count.
	ErrLabelOverflow = errors.New("label uses bits beyond the atom count")
)

// Struct is a Kripke structure: a finite labeled transition system over a
// fixed ordering of atomic propositions. Each state carries a label bitmask
// over the atom ordering, with bit (n-1-i) set iff atom i holds in that state.
//
// Both the forward transition relation and its transpose are maintained; the
// inverse map is updated atomically with every edge insertion and removal so
// it is always the exact transpose of the forward map. The CTL evaluator
// relies on this for backward reachability.
//
// The zero value is not usable - use New. Struct is not safe for concurrent
// mutation without external synchronization.
type Struct struct {
	atoms    []string
	atomIdx  map[string]int
	states   map[string]uint64
	byLabel  map[uint64]string // label -> owning state, for uniqueness checks
	starts   map[string]struct{}
	trans    map[string][]string // state -> successors
	transInv map[string][]string // state -> predecessors
}

// New creates an empty Kripke structure with no atoms, states, or transitions.
func New() *Struct {
	return &Struct{
		atomIdx:  make(map[string]int),
		states:   make(map[string]uint64),
		byLabel:  make(map[uint64]string),
		starts:   make(map[string]struct{}),
		trans:    make(map[string][]string),
		transInv: make(map[string][]string),
	}
}

// SetAtoms replaces the atom ordering. Returns ErrAtomsFrozen if any state
// exists, since existing labels are encoded against the current ordering.
func (k *Struct) SetAtoms(atoms []string) error {
	if len(k.states) > 0 {
		return ErrAtomsFrozen
	}
	k.atoms = slices.Clone(atoms)
	k.atomIdx = make(map[string]int, len(atoms))
	for i, a := range k.atoms {
		k.atomIdx[a] = i
	}
	return nil
}

// Atoms returns a copy of the atom ordering.
func (k *Struct) Atoms() []string { return slices.Clone(k.atoms) }

// AtomBit returns the label bitmask bit for the named atom, following the
// convention that atom i owns bit (n-1-i). The second result is false if the
// atom is not declared.
func (k *Struct) AtomBit(atom string) (uint64, bool) {
	i, ok := k.atomIdx[atom]
	if !ok {
		return 0, false
	}
	return 1 << (len(k.atoms) - 1 - i), true
}

// labelInRange reports whether the mask uses only bit positions below the
// atom count. With 64 or more atoms every uint64 mask is in range.
func (k *Struct) labelInRange(label uint64) bool {
	if len(k.atoms) >= 64 {
		return true
	}
	return label < 1<<uint(len(k.atoms))
}

// AddState adds a state with an explicit label bitmask.
// Returns ErrDuplicateState if the name is taken, ErrLabelOverflow if the
// mask uses bits beyond the atom count, or ErrDuplicateLabel if another
// state already carries this label.
func (k *Struct) AddState(name string, label uint64) error {
	if _, exists := k.states[name]; exists {
		return fmt.Errorf("state %q: %w", name, ErrDuplicateState)
	}
	if !k.labelInRange(label) {
		return fmt.Errorf("state %q label %#b: %w", name, label, ErrLabelOverflow)
	}
	if owner, used := k.byLabel[label]; used {
		return fmt.Errorf("state %q label %#b already used by %q: %w", name, label, owner, ErrDuplicateLabel)
	}
	k.states[name] = label
	k.byLabel[label] = name
	k.trans[name] = []string{}
	k.transInv[name] = []string{}
	return nil
}

// AddStateLabels adds a state labeled by a set of atom names instead of an
// explicit bitmask. Returns ErrUnknownAtom if any named atom is not declared,
// otherwise behaves like [Struct.AddState].
func (k *Struct) AddStateLabels(name string, atoms []string) error {
	label, err := k.LabelOf(atoms)
	if err != nil {
		return fmt.Errorf("state %q: %w", name, err)
	}
	return k.AddState(name, label)
}

// LabelOf converts a set of atom names to a label bitmask using the fixed
// atom ordering. Returns ErrUnknownAtom for any undeclared atom.
func (k *Struct) LabelOf(atoms []string) (uint64, error) {
	var label uint64
	for _, a := range atoms {
		bit, ok := k.AtomBit(a)
		if !ok {
			return 0, fmt.Errorf("atom %q: %w", a, ErrUnknownAtom)
		}
		label |= bit
	}
	return label, nil
}

// AddStates adds multiple states in sorted name order.
// The batch is not transactional: states added before a failing entry remain
// applied, and the error for the failing entry is returned.
func (k *Struct) AddStates(states map[string]uint64) error {
	for _, name := range slices.Sorted(maps.Keys(states)) {
		if err := k.AddState(name, states[name]); err != nil {
			return err
		}
	}
	return nil
}

// SetStateLabel replaces an existing state's label bitmask.
// The new label must satisfy the same range and uniqueness rules as at
// creation; relabeling a state with its current label is a no-op.
func (k *Struct) SetStateLabel(name string, label uint64) error {
	old, exists := k.states[name]
	if !exists {
		return fmt.Errorf("state %q: %w", name, ErrUnknownState)
	}
	if label == old {
		return nil
	}
	if !k.labelInRange(label) {
		return fmt.Errorf("state %q label %#b: %w", name, label, ErrLabelOverflow)
	}
	if owner, used := k.byLabel[label]; used {
		return fmt.Errorf("state %q label %#b already used by %q: %w", name, label, owner, ErrDuplicateLabel)
	}
	delete(k.byLabel, old)
	k.states[name] = label
	k.byLabel[label] = name
	return nil
}

// SetStateLabelAtoms replaces an existing state's label, given as atom names.
func (k *Struct) SetStateLabelAtoms(name string, atoms []string) error {
	label, err := k.LabelOf(atoms)
	if err != nil {
		return fmt.Errorf("state %q: %w", name, err)
	}
	return k.SetStateLabel(name, label)
}

// StateLabel returns the label bitmask of the named state.
func (k *Struct) StateLabel(name string) (uint64, error) {
	label, ok := k.states[name]
	if !ok {
		return 0, fmt.Errorf("state %q: %w", name, ErrUnknownState)
	}
	return label, nil
}

// StateLabelAtoms decodes the named state's label back into the atom names
// that hold there, in atom-ordering order. This is the inverse of the
// encoding applied by [Struct.AddStateLabels].
func (k *Struct) StateLabelAtoms(name string) ([]string, error) {
	label, err := k.StateLabel(name)
	if err != nil {
		return nil, err
	}
	atoms := []string{}
	for i, a := range k.atoms {
		if bit := uint64(1) << (len(k.atoms) - 1 - i); label&bit != 0 {
			atoms = append(atoms, a)
		}
	}
	return atoms, nil
}

// RemoveState removes a state and every transition incident to it, in both
// the forward and inverse maps, and drops it from the start set. Removing a
// name that does not exist is a no-op.
func (k *Struct) RemoveState(name string) {
	label, exists := k.states[name]
	if !exists {
		return
	}
	delete(k.states, name)
	delete(k.byLabel, label)
	delete(k.starts, name)

	for _, succ := range k.trans[name] {
		k.transInv[succ] = deleteAll(k.transInv[succ], name)
	}
	delete(k.trans, name)

	for _, pred := range k.transInv[name] {
		k.trans[pred] = deleteAll(k.trans[pred], name)
	}
	delete(k.transInv, name)
}

// RemoveStates removes each named state in order.
func (k *Struct) RemoveStates(names []string) {
	for _, name := range names {
		k.RemoveState(name)
	}
}

// HasState reports whether the named state exists.
func (k *Struct) HasState(name string) bool {
	_, ok := k.states[name]
	return ok
}

// StateCount returns the number of states.
func (k *Struct) StateCount() int { return len(k.states) }

// States returns a copy of the name -> label mapping.
func (k *Struct) States() map[string]uint64 {
	return maps.Clone(k.states)
}

// StateNames returns all state names in lexicographic order.
func (k *Struct) StateNames() []string {
	return slices.Sorted(maps.Keys(k.states))
}

// StateNameSet returns the set of all state names. This is the universal
// satisfaction set for the CTL evaluator.
func (k *Struct) StateNameSet() StateSet {
	s := make(StateSet, len(k.states))
	for name := range k.states {
		s.Add(name)
	}
	return s
}

// SetStarts replaces the start set wholesale. Returns ErrUnknownState if any
// name is not a current state; in that case the start set is unchanged.
func (k *Struct) SetStarts(starts []string) error {
	for _, name := range starts {
		if !k.HasState(name) {
			return fmt.Errorf("start state %q: %w", name, ErrUnknownState)
		}
	}
	k.starts = make(map[string]struct{}, len(starts))
	for _, name := range starts {
		k.starts[name] = struct{}{}
	}
	return nil
}

// Starts returns the start state names in lexicographic order.
func (k *Struct) Starts() []string {
	return slices.Sorted(maps.Keys(k.starts))
}

// StartSet returns the start states as a StateSet.
func (k *Struct) StartSet() StateSet {
	s := make(StateSet, len(k.starts))
	for name := range k.starts {
		s.Add(name)
	}
	return s
}

// AddTransitions inserts directed edges into both the forward and inverse
// maps. Each source and target must be an existing state; edges are validated
// one at a time, so edges inserted before a failing entry remain applied.
// Inserting an edge that already exists is a no-op.
func (k *Struct) AddTransitions(trans map[string][]string) error {
	for _, src := range slices.Sorted(maps.Keys(trans)) {
		if !k.HasState(src) {
			return fmt.Errorf("transition source %q: %w", src, ErrUnknownState)
		}
		for _, dst := range trans[src] {
			if !k.HasState(dst) {
				return fmt.Errorf("transition target %q: %w", dst, ErrUnknownState)
			}
			if slices.Contains(k.trans[src], dst) {
				continue
			}
			k.trans[src] = append(k.trans[src], dst)
			k.transInv[dst] = append(k.transInv[dst], src)
		}
	}
	return nil
}

// RemoveTransitions removes each named edge from both maps. Removing an edge
// that does not exist is a no-op; this matches the behavior callers rely on
// when pruning speculative edge sets.
func (k *Struct) RemoveTransitions(trans map[string][]string) {
	for src, dsts := range trans {
		for _, dst := range dsts {
			if !slices.Contains(k.trans[src], dst) {
				continue
			}
			k.trans[src] = deleteAll(k.trans[src], dst)
			k.transInv[dst] = deleteAll(k.transInv[dst], src)
		}
	}
}

// Transitions returns a deep copy of the forward transition map.
func (k *Struct) Transitions() map[string][]string {
	return cloneAdjacency(k.trans)
}

// InverseTransitions returns a deep copy of the inverse transition map.
func (k *Struct) InverseTransitions() map[string][]string {
	return cloneAdjacency(k.transInv)
}

// Successors returns the successor states of name. The returned slice is a
// read-only view; callers must not modify it.
func (k *Struct) Successors(name string) []string { return k.trans[name] }

// Predecessors returns the predecessor states of name. The returned slice is
// a read-only view; callers must not modify it.
func (k *Struct) Predecessors(name string) []string { return k.transInv[name] }

// ReverseAllTransitions swaps the forward and inverse maps in place. This is
// an O(1) reference swap; the SCC finder uses it on a snapshot to traverse
// the transpose graph without recomputing it.
func (k *Struct) ReverseAllTransitions() {
	k.trans, k.transInv = k.transInv, k.trans
}

// Clone returns an independent deep copy of the structure. Mutating the copy
// never affects the original; the evaluator and SCC finder operate on clones
// so the caller's structure is observably unchanged.
func (k *Struct) Clone() *Struct {
	return &Struct{
		atoms:    slices.Clone(k.atoms),
		atomIdx:  maps.Clone(k.atomIdx),
		states:   maps.Clone(k.states),
		byLabel:  maps.Clone(k.byLabel),
		starts:   maps.Clone(k.starts),
		trans:    cloneAdjacency(k.trans),
		transInv: cloneAdjacency(k.transInv),
	}
}

// Restrict returns a new structure containing only the states in keep and
// only the transitions whose endpoints are both in keep. Start states outside
// keep are dropped. The receiver is unchanged.
func (k *Struct) Restrict(keep StateSet) *Struct {
	sub := &Struct{
		atoms:    slices.Clone(k.atoms),
		atomIdx:  maps.Clone(k.atomIdx),
		states:   make(map[string]uint64, len(keep)),
		byLabel:  make(map[uint64]string, len(keep)),
		starts:   make(map[string]struct{}),
		trans:    make(map[string][]string, len(keep)),
		transInv: make(map[string][]string, len(keep)),
	}
	for name, label := range k.states {
		if !keep.Contains(name) {
			continue
		}
		sub.states[name] = label
		sub.byLabel[label] = name
		sub.trans[name] = []string{}
		sub.transInv[name] = []string{}
	}
	for name := range sub.states {
		for _, dst := range k.trans[name] {
			if !keep.Contains(dst) {
				continue
			}
			sub.trans[name] = append(sub.trans[name], dst)
			sub.transInv[dst] = append(sub.transInv[dst], name)
		}
	}
	for name := range k.starts {
		if keep.Contains(name) {
			sub.starts[name] = struct{}{}
		}
	}
	return sub
}

// deleteAll removes every occurrence of v from s.
func deleteAll(s []string, v string) []string {
	return slices.DeleteFunc(s, func(x string) bool { return x == v })
}

func cloneAdjacency(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}
