package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "finsight - resilient market-data acquisition pipeline",
	Long: `finsight fetches per-symbol market data from an upstream provider,
survives rate limits and transient failures, and normalizes the raw
payloads into one canonical, analyzable record per symbol.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
