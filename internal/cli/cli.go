// Package cli implements the mctk command-line interface.
//
// This package provides commands for inspecting Kripke structure model
// files, checking CTL formulas against them, computing strongly connected
// components, rendering models with Graphviz, and serving the same
// operations over HTTP. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
//   - show: Summarize a model file (optionally as an interactive browser)
//   - check: Evaluate a CTL formula and report its satisfaction set
//   - scc: List the strongly connected components of a model
//   - render: Generate DOT, SVG, or PNG visualizations
//   - serve: Expose check/scc as an HTTP API
//   - cache: Manage the verdict cache
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/marcusm117/mctk/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "mctk"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the root command with all subcommands attached.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "mctk checks CTL formulas against explicit-state models",
		Long:         `mctk is an explicit-state model checker: it loads a finite Kripke structure from a model file and computes the exact set of states satisfying a CTL formula.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.showCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.sccCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}
