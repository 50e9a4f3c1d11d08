// Package render converts Kripke structures to Graphviz DOT and renders the
// result with [github.com/goccy/go-graphviz]. It is a driver-side concern:
// nothing in the model-checking core depends on it.
package render

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/marcusm117/mctk/pkg/kripke"
)

// Options configures DOT generation.
type Options struct {
	// Highlight fills the given states, typically a satisfaction set.
	Highlight kripke.StateSet

	// ShowLabels appends each state's atom names to its node label.
	ShowLabels bool

	// Title is rendered as the graph label when non-empty.
	Title string
}

// ToDOT converts a structure to Graphviz DOT. Start states get a double
// border; highlighted states are filled. States and edges are emitted in
// sorted order so the output is deterministic.
func ToDOT(g *kripke.Struct, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph kripke {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle, fontsize=12];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", opts.Title)
	}
	buf.WriteString("\n")

	starts := g.StartSet()
	for _, name := range g.StateNames() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(g, name, opts.ShowLabels))}
		if starts.Contains(name) {
			attrs = append(attrs, "shape=doublecircle")
		}
		if opts.Highlight.Contains(name) {
			attrs = append(attrs, "style=filled", "fillcolor=palegreen")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	trans := g.Transitions()
	for _, src := range g.StateNames() {
		for _, dst := range sortedCopy(trans[src]) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", src, dst)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(g *kripke.Struct, name string, showLabels bool) string {
	if !showLabels {
		return name
	}
	atoms, err := g.StateLabelAtoms(name)
	if err != nil || len(atoms) == 0 {
		return name + "\n{}"
	}
	return name + "\n{" + strings.Join(atoms, ",") + "}"
}

// Adjacency lists keep insertion order; sort a copy for stable output.
func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
