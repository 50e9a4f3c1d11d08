package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (c *CLI) cacheCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the verdict cache",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: user config dir)")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg.Cache)
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached verdicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != "" && cfg.Cache.Backend != "file" {
				return fmt.Errorf("cache clear only supports the file backend (configured: %s)", cfg.Cache.Backend)
			}
			dir, err := cacheDir(cfg.Cache)
			if err != nil {
				return err
			}
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("cleared %s", dir)
			return nil
		},
	}

	cmd.AddCommand(pathCmd)
	cmd.AddCommand(clearCmd)
	return cmd
}
