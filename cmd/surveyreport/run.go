package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/surveyreport/pkg/artifact"
	"github.com/hazyhaar/surveyreport/pkg/dataset"
	"github.com/hazyhaar/surveyreport/pkg/job"
	"github.com/hazyhaar/surveyreport/pkg/output"
	"github.com/hazyhaar/surveyreport/pkg/render"
	"github.com/hazyhaar/surveyreport/pkg/runlog"
	"github.com/hazyhaar/surveyreport/pkg/vis"
)

var runCmd = &cobra.Command{
	Use:   "run <job.yaml>",
	Short: "Produce every output of a job",
	Long: `Run loads the job's dataset and variable table, then produces its
outputs in order. Each output appends its tables to the report and writes
its chart images (labelled, unlabelled and legend-only).

With --publish, the report and images are uploaded to the S3 bucket named
by the SURVEYREPORT_S3_* environment variables once the run succeeds.

Examples:
  surveyreport run job.yaml
  surveyreport run job.yaml --keep-going
  surveyreport run job.yaml --publish --run-id wave3`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	runKeepGoing bool
	runPublish   bool
	runID        string
	runShow      bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runKeepGoing, "keep-going", false, "Log failed outputs and continue with the next one")
	runCmd.Flags().BoolVar(&runPublish, "publish", false, "Upload the report and images to S3 after the run")
	runCmd.Flags().StringVar(&runID, "run-id", "", "Object prefix for published files (default: UTC timestamp)")
	runCmd.Flags().BoolVar(&runShow, "show", false, "Print each output's tables to stdout")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	j, err := job.Load(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, err := dataset.NewCache(4, j.DatasetOptions)
	if err != nil {
		return err
	}
	r := &job.Runner{
		Logger:    logger,
		Renderer:  render.Engine{},
		Cache:     cache,
		KeepGoing: runKeepGoing,
	}
	if runShow {
		r.Display = printResult
		for i := range j.Outputs {
			j.Outputs[i].Vis.Show = vis.Bool(true)
		}
	}
	if runlogPath != "" {
		l, err := runlog.Open(runlogPath)
		if err != nil {
			return err
		}
		defer l.Close()
		r.Recorder = l
	}

	start := time.Now()
	sum, err := r.Run(ctx, j)
	if sum != nil {
		logger.Info("run finished", "outputs", len(sum.Results), "failed", len(sum.Failures), "duration", time.Since(start))
	}
	if err != nil {
		return err
	}

	if runPublish {
		return publish(ctx, logger, args[0], j, sum)
	}
	return nil
}

func publish(ctx context.Context, logger *slog.Logger, jobPath string, j *job.Job, sum *job.Summary) error {
	cfg, err := artifact.ConfigFromEnv()
	if errors.Is(err, artifact.ErrNotConfigured) {
		return fmt.Errorf("--publish: %w (set SURVEYREPORT_S3_ENDPOINT)", err)
	}
	if err != nil {
		return err
	}
	store, err := artifact.NewS3Store(cfg)
	if err != nil {
		return err
	}
	id := runID
	if id == "" {
		id = time.Now().UTC().Format("20060102T150405Z")
	}
	keys, err := artifact.Publish(ctx, store, id, filepath.Dir(jobPath), producedFiles(j, sum))
	if err != nil {
		return err
	}
	logger.Info("published", "bucket", cfg.Bucket, "run", id, "objects", len(keys))
	return nil
}

// producedFiles lists the report, the workbook and every image of sum.
func producedFiles(j *job.Job, sum *job.Summary) []string {
	var files []string
	if j.Report != "" {
		files = append(files, j.Report)
	}
	if j.Workbook != "" {
		files = append(files, j.Workbook)
	}
	for _, res := range sum.Results {
		for _, p := range res.Images.All() {
			if p != "" {
				files = append(files, p)
			}
		}
	}
	return files
}

func printResult(res *output.Result) error {
	for _, rec := range res.Records {
		if _, err := fmt.Fprintf(os.Stdout, "%s\n%s\n", rec.Title, rec.Table.Round(rec.Decimals)); err != nil {
			return err
		}
	}
	return nil
}
