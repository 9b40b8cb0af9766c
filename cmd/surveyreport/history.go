package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/surveyreport/pkg/runlog"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently produced outputs",
	Long: `History reads the run ledger and lists the outputs produced by past
runs, newest first.

Examples:
  surveyreport history
  surveyreport history --limit 50 --json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyLimit int
	historyJSON  bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of outputs to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print entries as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if runlogPath == "" {
		return errors.New("history needs a run ledger (--runlog)")
	}
	l, err := runlog.Open(runlogPath)
	if err != nil {
		return err
	}
	defer l.Close()

	entries, err := l.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tKIND\tVARIABLE\tSTRAT\tTABLES\tREPORT\tIMAGES")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			e.ID,
			time.Unix(e.CreatedAt, 0).Format(time.DateTime),
			e.Kind, e.Variable, e.Strat, e.Tables, e.Report,
			strings.Join(e.Images, ","),
		)
	}
	return w.Flush()
}
