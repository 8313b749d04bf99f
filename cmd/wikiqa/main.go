package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kittclouds/wikiqa/cmd/wikiqa/commands"
	"github.com/kittclouds/wikiqa/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "wikiqa",
	Short: "wikiqa - Wikidata question answering over two storage engines",
	Long: `wikiqa stores Wikidata-style entities in a relational (SQLite) and a
document (JSON collection) backend, answers simple natural-language
questions against either, and compares their query latency.

Examples:
  wikiqa load --sample                        # Seed both backends with sample data
  wikiqa load entities.json                   # Import a JSON export
  wikiqa query "What is the capital of China?"
  wikiqa search beijing --limit 5
  wikiqa show Q148
  wikiqa stats
  wikiqa compare --iterations 10`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.Init()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&commands.ConfigFile, "config", "c", "", "Config file (TOML, YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&commands.JSONLogs, "json-logs", false, "Emit JSON logs instead of console output")
	rootCmd.PersistentFlags().StringVarP(&commands.BackendFlag, "backend", "b", commands.BackendAll,
		"Backend to use: relational, document or all")

	rootCmd.AddCommand(commands.LoadCmd)
	rootCmd.AddCommand(commands.QueryCmd)
	rootCmd.AddCommand(commands.SearchCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.StatsCmd)
	rootCmd.AddCommand(commands.CompareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
