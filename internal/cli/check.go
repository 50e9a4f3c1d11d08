package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcusm117/mctk/pkg/cache"
	"github.com/marcusm117/mctk/pkg/ctl"
	"github.com/marcusm117/mctk/pkg/kripke"
	"github.com/marcusm117/mctk/pkg/model"
	"github.com/marcusm117/mctk/pkg/observability"
)

// checkResult is the serialized outcome of a check, shared between the cache,
// the CLI's --json output, and the HTTP API.
type checkResult struct {
	Formula string   `json:"formula"`
	States  []string `json:"states"`
	Holds   bool     `json:"holds"`
}

func (c *CLI) checkCommand() *cobra.Command {
	var (
		formulaJSON string
		formulaFile string
		configPath  string
		noCache     bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "check <model-file>",
		Short: "Evaluate a CTL formula against a model",
		Long: `Check loads a Kripke structure from a model file, evaluates a CTL formula
given as a JSON record, and prints the exact set of states satisfying it.

The formula holds for the model when every start state is in that set.
Results are cached keyed on the model content and the formula, so repeated
checks of unchanged inputs are instant.`,
		Example: `  mctk check model.json --formula '{"op":"EF","args":[{"op":"atom","atom":"crash"}]}'
  mctk check model.json --formula-file safety.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			f, err := loadFormula(formulaJSON, formulaFile)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if noCache {
				cfg.Cache.Backend = "none"
			}
			store, err := openCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer store.Close()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read model: %w", err)
			}

			result, cached, err := runCheck(ctx, raw, f, store, cfg.Cache.ttl())
			if err != nil {
				return err
			}
			if cached {
				logger.Debug("cache hit", "formula", result.Formula)
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(result)
			}

			printKeyValue("Formula", result.Formula)
			printKeyValue("Satisfied", fmt.Sprintf("%d state(s)", len(result.States)))
			if len(result.States) > 0 {
				printDetail("%s", strings.Join(result.States, ", "))
			}
			if result.Holds {
				printSuccess("formula holds in every start state")
			} else {
				printError("formula does not hold in every start state")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formulaJSON, "formula", "f", "", "CTL formula as a JSON record")
	cmd.Flags().StringVar(&formulaFile, "formula-file", "", "file containing the formula record")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: user config dir)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the verdict cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("formula", "formula-file")

	return cmd
}

// loadFormula parses the formula from the inline flag or a file.
func loadFormula(inline, file string) (*ctl.Formula, error) {
	switch {
	case inline != "":
		return ctl.ParseJSON([]byte(inline))
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read formula: %w", err)
		}
		return ctl.ParseJSON(data)
	}
	return nil, fmt.Errorf("one of --formula or --formula-file is required")
}

// runCheck evaluates f against the model record in raw, consulting the
// verdict cache first. The bool result reports whether the answer came from
// the cache.
func runCheck(ctx context.Context, raw []byte, f *ctl.Formula, store cache.Cache, ttl time.Duration) (*checkResult, bool, error) {
	key := cache.CheckKey(cache.Hash(raw), f.String())

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		observability.CacheEvents().OnCacheHit(ctx, key)
		var res checkResult
		if err := json.Unmarshal(data, &res); err == nil {
			return &res, true, nil
		}
		// Corrupt entry: fall through and recompute.
	} else if err == nil {
		observability.CacheEvents().OnCacheMiss(ctx, key)
	}

	m, err := model.Unmarshal(raw)
	if err != nil {
		return nil, false, err
	}
	g, err := m.Build()
	if err != nil {
		return nil, false, err
	}

	res, err := evaluate(ctx, g, f)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := store.Set(ctx, key, data, ttl); err == nil {
			observability.CacheEvents().OnCacheSet(ctx, key, len(data))
		}
	}
	return res, false, nil
}

// evaluate computes the satisfaction set and the start-state verdict.
func evaluate(ctx context.Context, g *kripke.Struct, f *ctl.Formula) (*checkResult, error) {
	formula := f.String()
	observability.Checker().OnCheckStart(ctx, formula, g.StateCount())
	start := time.Now()

	sat, err := f.Eval(g)
	observability.Checker().OnCheckComplete(ctx, formula, len(sat), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	holds := true
	for _, s := range g.Starts() {
		if !sat.Contains(s) {
			holds = false
			break
		}
	}
	return &checkResult{Formula: formula, States: sat.Sorted(), Holds: holds}, nil
}
