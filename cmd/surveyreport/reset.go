package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/surveyreport/pkg/report"
	"github.com/hazyhaar/surveyreport/pkg/runlog"
)

var resetCmd = &cobra.Command{
	Use:   "reset <report>",
	Short: "Empty a report file",
	Long: `Reset truncates a report so the next output starts a fresh file with
its byte-order mark. The run ledger forgets the outputs recorded against
the report.

Examples:
  surveyreport reset out/report.csv
  surveyreport reset out/report.csv --workbook out/report.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runReset,
}

var resetWorkbook string

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().StringVar(&resetWorkbook, "workbook", "", "Also delete this xlsx mirror")
}

func runReset(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	if err := report.New(args[0]).Reset(); err != nil {
		return err
	}
	if resetWorkbook != "" {
		if err := report.NewWorkbook(resetWorkbook).Reset(); err != nil {
			return err
		}
	}
	if runlogPath == "" {
		logger.Info("report reset", "report", args[0])
		return nil
	}

	l, err := runlog.Open(runlogPath)
	if err != nil {
		return err
	}
	defer l.Close()
	n, err := l.Forget(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("forget %s: %w", args[0], err)
	}
	logger.Info("report reset", "report", args[0], "forgotten", n)
	return nil
}
