package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pomorg/internal/cache"
	"pomorg/internal/config"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove the run cache",
	Long: `Remove the cache that lets organize and revert skip manifests they already
processed. The cache location comes from the settings that apply to dir
(default: the working directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	base := "."
	if len(args) > 0 && args[0] != "" {
		base = args[0]
	}
	if info, err := os.Stat(base); err != nil {
		return fmt.Errorf("failed to stat %q: %w", base, err)
	} else if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", base)
	}

	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Resolve(base)
	}
	if err != nil {
		return err
	}

	var c *cache.Cache
	if cfg.Cache.Dir != "" {
		c, err = cache.OpenDir(cfg.Cache.Dir)
	} else {
		c, err = cache.Open(cacheApp)
	}
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := c.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", c.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", c.Dir())
	return nil
}
