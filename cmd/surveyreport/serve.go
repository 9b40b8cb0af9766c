package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/surveyreport/pkg/api"
	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/dataset"
	"github.com/hazyhaar/surveyreport/pkg/job"
)

const version = "0.3.0"

var serveCmd = &cobra.Command{
	Use:   "serve <job.yaml>",
	Short: "Serve tabulations over HTTP",
	Long: `Serve loads the job's dataset and variable table and answers
tabulation requests over HTTP:

  GET  /v1/questions
  GET  /v1/questions/{variable}
  POST /v1/tabulate
  POST /v1/crosstab
  POST /v1/multibinary
  POST /v1/reload
  GET  /v1/health

SIGHUP re-reads the job file and its data. SIGINT or SIGTERM shut the
server down gracefully.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp <job.yaml>",
	Short: "Serve tabulations as MCP tools over stdio",
	Args:  cobra.ExactArgs(1),
	RunE:  runMCP,
}

var (
	serveAddr      string
	serveCacheSize int
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8420", "Listen address (default from SURVEYREPORT_ADDR)")
	serveCmd.Flags().IntVar(&serveCacheSize, "cache", 256, "Number of tables kept in memory")
	mcpCmd.Flags().IntVar(&serveCacheSize, "cache", 256, "Number of tables kept in memory")
}

// jobLoader re-reads the job file on every call so a reload picks up
// edits to it as well as to the data.
func jobLoader(path string) api.Loader {
	return func() (*dataset.Frame, *codebook.QuestionSet, error) {
		j, err := job.Load(path)
		if err != nil {
			return nil, nil, err
		}
		qs, err := j.Questions()
		if err != nil {
			return nil, nil, err
		}
		frame, err := j.Frame(nil)
		if err != nil {
			return nil, nil, err
		}
		return frame, qs, nil
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ws, err := api.NewWorkspace(jobLoader(args[0]), serveCacheSize)
	if err != nil {
		return err
	}
	rows, questions, _, _ := ws.Status()
	logger.Info("workspace loaded", "rows", rows, "questions", questions)

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           api.NewRouter(ws, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// SIGHUP: reload the job and its data.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading workspace")
			if err := ws.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
				continue
			}
			rows, questions, _, _ := ws.Status()
			logger.Info("workspace reloaded", "rows", rows, "questions", questions)
		}
	}()

	errc := make(chan error, 1)
	go func() {
		logger.Info("surveyreport listening", "addr", serveAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ws, err := api.NewWorkspace(jobLoader(args[0]), serveCacheSize)
	if err != nil {
		return err
	}
	srv := server.NewMCPServer("surveyreport", version, server.WithToolCapabilities(true))
	api.RegisterMCPTools(srv, ws, logger)

	logger.Info("mcp server ready on stdio")
	return server.ServeStdio(srv)
}
