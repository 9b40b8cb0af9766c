// Command surveyreport turns survey data and a codebook into frequency
// tables, cross-tabulations and bar charts.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	runlogPath string
)

var rootCmd = &cobra.Command{
	Use:   "surveyreport",
	Short: "Tabulate survey data into reports and charts",
	Long: `surveyreport reads a dataset and a variable table (the codebook), and
produces frequency tables, cross-tabulations and multi-item summaries.
Tables are appended to a text report; charts are written as PNG or SVG.

A job file (YAML) names the dataset, the variable table, the report and
the list of outputs to produce.

Examples:
  surveyreport run job.yaml            # Produce every output of a job
  surveyreport questions job.yaml      # List the questions in the codebook
  surveyreport inspect job.yaml q3     # Show how q3 is coded
  surveyreport serve job.yaml          # Serve tabulations over HTTP
  surveyreport mcp job.yaml            # Serve tabulations over MCP (stdio)`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return applyEnv(cmd) },
}

// envFlags maps flags to the environment variables that supply their
// default. Values from .env count; an explicit flag wins.
var envFlags = map[string]string{
	"runlog": "SURVEYREPORT_RUNLOG",
	"addr":   "SURVEYREPORT_ADDR",
}

// envFiles are the dotenv files read before a command runs. Nil means .env.
var envFiles []string

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&runlogPath, "runlog", "surveyreport.db", "Path to the run ledger (empty disables it)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyEnv loads the dotenv files, then fills every unchanged flag of
// envFlags from its environment variable.
func applyEnv(cmd *cobra.Command) error {
	_ = godotenv.Load(envFiles...)
	for name, key := range envFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		v := envOr(key, "")
		if v == "" {
			continue
		}
		if err := cmd.Flags().Set(name, v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// newLogger writes to stderr so stdout stays free for command output.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
