// Package cmd defines the CLI commands for the pigiame-crawler executable.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dryRun  bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pigiame-crawler",
		Short: "Harvests car listings from pigiame.co.ke",
		Long: `pigiame-crawler walks the paginated cars section of pigiame.co.ke,
fetches the discovered listing pages under a polite concurrency cap and
stores the normalized records in Postgres in fixed-size batches.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (defaults and SCRAPER_* env vars apply without one)")
	cmd.AddCommand(newScrapeCmd())
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
