package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ucscGenomeBrowser/kent-sub001/internal/config"
	"github.com/ucscGenomeBrowser/kent-sub001/internal/util"
	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/db"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/handler"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/middle"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the vocabulary, validation and metaDb API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, watch)
		},
	}
	cmd.Flags().StringVar(&cfg.CvPath, "cv", cfg.CvPath, "controlled vocabulary to serve")
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database for exports and runs")
	cmd.Flags().StringVar(&cfg.Listen, "listen", cfg.Listen, "address to listen on")
	cmd.Flags().StringVar(&cfg.ProtocolPath, "protocol-path", cfg.ProtocolPath, "directory of protocol documents")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the vocabulary when the file changes")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, watch bool) error {
	logger.Info("Start:", zap.String("Version", VERSION))

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	store, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Open database on", zap.String("DB_LOC", cfg.DBPath))

	var opts []cv.Option
	if cfg.ProtocolPath != "" {
		if !util.DirExists(cfg.ProtocolPath) {
			logger.Warn("Protocol path is not a directory, protocol checks will fail", zap.String("path", cfg.ProtocolPath))
		}
		opts = append(opts, cv.WithProtocolPath(cfg.ProtocolPath))
	}
	vocab := handler.NewVocabulary(cfg.CvPath, opts...)
	vocab.OnLoad = handler.ExportOnLoad(context.WithoutCancel(ctx), store)
	if !util.PathExists(cfg.CvPath) {
		logger.Warn("No controlled vocabulary found, vocabulary routes are unavailable", zap.String("path", cfg.CvPath))
	} else if err := vocab.Load(); err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middle.NewMetrics(promReg)

	dbctx := &handler.DBContext{
		Store:        store,
		Registry:     reg,
		Metrics:      metrics,
		Vocab:        vocab,
		ProtocolPath: cfg.ProtocolPath,
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	mwLog := middle.CreateMiddlewareLogger(level)
	h := middle.Chain(NewRouter(dbctx, promReg),
		middle.RequestIDMiddleware(mwLog),
		middle.LoggingMiddleware(mwLog),
		metrics.Middleware,
	)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	if watch {
		w, err := handler.NewWatcher(vocab)
		if err != nil {
			return err
		}
		defer w.Close()
		logger.Info("Watching controlled vocabulary", zap.String("path", cfg.CvPath))
		g.Go(func() error {
			w.Run(ctx)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Server starting on", zap.String("addr", cfg.Listen))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Error starting server:", zap.String("error message", err.Error()))
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
