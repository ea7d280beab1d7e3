package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ucscGenomeBrowser/kent-sub001/internal/config"
	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/encode"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/handler"
	"go.uber.org/zap"
)

const VERSION = "0.1.0"

// Exit codes
const (
	exitOK     = 0
	exitIssues = 1
	exitError  = 2
)

// errIssuesFound makes the command exit non-zero without an error message;
// the report has already been printed.
var errIssuesFound = errors.New("validation issues found")

func main() {
	defer logger.Sync() // Make sure that the buffered is flushed.

	err := newRootCmd(config.Load()).Execute()
	switch {
	case err == nil:
		os.Exit(exitOK)
	case errors.Is(err, errIssuesFound):
		os.Exit(exitIssues)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitError)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "racv",
		Short:         "Validate and export ENCODE controlled vocabulary and metaDb files",
		Version:       VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	root.PersistentFlags().StringVar(&cfg.RegistryPath, "registry", cfg.RegistryPath, "data type registry YAML (built-in when empty)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		return logger.InitLogger(level)
	}

	root.AddCommand(
		newValidateCmd(&cfg),
		newMdbCmd(&cfg),
		newCvToDbCmd(&cfg),
		newServeCmd(&cfg),
	)
	return root
}

func loadRegistry(cfg *config.Config) (*encode.Registry, error) {
	if cfg.RegistryPath == "" {
		return encode.DefaultRegistry()
	}
	logger.Info("Loading data type registry", zap.String("path", cfg.RegistryPath))
	return encode.LoadRegistry(cfg.RegistryPath)
}

// cvPath takes the file from the first argument, else from the config.
func cvPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.CvPath
}

func NewRouter(dbctx *handler.DBContext, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Pages
	mux.HandleFunc("GET /terms/{type}", dbctx.TermsPage)
	mux.HandleFunc("GET /report/{run_id}", dbctx.ReportPage)

	// API routes
	mux.HandleFunc("GET /api/v1/health", dbctx.HealthCheck)
	mux.HandleFunc("GET /api/v1/types", dbctx.TypesHandler)
	mux.HandleFunc("GET /api/v1/terms/{type}", dbctx.TermsHandler)
	mux.HandleFunc("GET /api/v1/terms/{type}/{term}", dbctx.TermHandler)
	mux.HandleFunc("POST /api/v1/validate", dbctx.ValidateHandler)
	mux.HandleFunc("GET /api/v1/runs/{run_id}", dbctx.RunHandler)
	mux.HandleFunc("POST /api/v1/mdb/summary", dbctx.MdbSummaryHandler)

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}
