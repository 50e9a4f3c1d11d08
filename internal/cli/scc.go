package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcusm117/mctk/pkg/kripke"
	"github.com/marcusm117/mctk/pkg/model"
)

func (c *CLI) sccCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scc <model-file>",
		Short: "List the strongly connected components of a model",
		Long: `Scc partitions the model's transition graph into strongly connected
components. Components of more than one state, and single states with a
self-loop, are the cycles along which EG witnesses can loop forever.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			m, err := model.ReadFile(args[0])
			if err != nil {
				return err
			}
			g, err := m.Build()
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			comps := kripke.SCCs(g)
			prog.done(fmt.Sprintf("found %d component(s)", len(comps)))

			if asJSON {
				out := make([][]string, len(comps))
				for i, comp := range comps {
					out[i] = comp.Sorted()
				}
				return json.NewEncoder(os.Stdout).Encode(out)
			}

			for i, comp := range comps {
				names := comp.Sorted()
				kind := "trivial"
				if len(names) > 1 {
					kind = "cycle"
				} else if hasSelfLoop(g, names[0]) {
					kind = "self-loop"
				}
				printInfo("component %d (%s)", i+1, kind)
				printDetail("%s", strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit components as JSON")
	return cmd
}

// hasSelfLoop reports whether name has an edge to itself.
func hasSelfLoop(g *kripke.Struct, name string) bool {
	for _, succ := range g.Successors(name) {
		if succ == name {
			return true
		}
	}
	return false
}
