package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcusm117/mctk/pkg/model"
)

func (c *CLI) showCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "show <model-file>",
		Short: "Summarize a model file",
		Long: `Show prints the atoms, states, start states, and transitions of a model.
With --interactive it opens a browsable state list showing each state's
atom labels and outgoing transitions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.ReadFile(args[0])
			if err != nil {
				return err
			}
			g, err := m.Build()
			if err != nil {
				return err
			}

			if interactive {
				p := tea.NewProgram(newStateBrowser(g), tea.WithAltScreen())
				_, err := p.Run()
				return err
			}

			edges := 0
			for _, targets := range g.Transitions() {
				edges += len(targets)
			}

			fmt.Println(styleTitle.Render(args[0]))
			printKeyValue("Atoms", strings.Join(g.Atoms(), ", "))
			printKeyValue("States", fmt.Sprintf("%d", g.StateCount()))
			printKeyValue("Starts", strings.Join(g.Starts(), ", "))
			printKeyValue("Edges", fmt.Sprintf("%d", edges))

			for _, name := range g.StateNames() {
				atoms, err := g.StateLabelAtoms(name)
				if err != nil {
					return err
				}
				label := "{}"
				if len(atoms) > 0 {
					label = "{" + strings.Join(atoms, ",") + "}"
				}
				succ := g.Successors(name)
				if len(succ) > 0 {
					printDetail("%s %s -> %s", name, label, strings.Join(succ, ", "))
				} else {
					printDetail("%s %s", name, label)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse states interactively")
	return cmd
}
