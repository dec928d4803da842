package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/replaylens/replaylens/internal/analysis"
	"github.com/replaylens/replaylens/internal/api"
	"github.com/replaylens/replaylens/internal/config"
	"github.com/replaylens/replaylens/internal/lichess"
	"github.com/replaylens/replaylens/internal/logger"
	"github.com/replaylens/replaylens/internal/progress"
	"github.com/replaylens/replaylens/internal/research"
	"github.com/replaylens/replaylens/internal/services"
	"github.com/replaylens/replaylens/internal/stats"
	"github.com/replaylens/replaylens/internal/store"
	"github.com/replaylens/replaylens/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Replaylens Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("lichess_base_url=%s", cfg.LichessBaseURL)
	log.Debug("eval_depth=%d", cfg.EvalDepth)
	log.Debug("eval_concurrency=%d", cfg.EvalConcurrency())
	log.Debug("eval_cache_size=%d", cfg.EvalCacheSize)
	log.Debug("analysis_worker_count=%d", cfg.AnalysisWorkerCount)
	log.Debug("analysis_queue_size=%d", cfg.AnalysisQueueSize)

	var collector stats.Collector = stats.Noop{}
	if cfg.MetricsEnabled {
		collector = stats.NewPrometheus(nil)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open report archive: %v", err)
		return err
	}
	defer func() {
		log.Debug("closing report archive")
		st.Close()
	}()

	client, err := lichess.NewCaching(lichess.New(cfg, collector), cfg.EvalCacheSize, collector)
	if err != nil {
		log.Error("failed to build eval cache: %v", err)
		return err
	}

	if cfg.ResearchEnabled {
		log.Warn("RESEARCH_ENABLED is set but no browser session transport is configured; research falls back to share URLs")
	}

	tracker := progress.NewTracker()
	pool := worker.NewPool(cfg.AnalysisWorkerCount, cfg.AnalysisQueueSize)
	analyzer := analysis.NewAnalyzer(client, cfg.EvalDepth, cfg.EvalConcurrency(), collector)

	srv := &api.Server{
		Analysis: services.NewAnalysisService(client, analyzer, st, tracker, pool),
		Stats:    services.NewStatsService(client),
		Research: services.NewResearchService(client, research.NewResearcher(nil)),
		Store:    st,
		Version:  version,
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	pool.Stop()

	log.Info("===========================================")
	log.Info("Replaylens Server Stopped")
	log.Info("===========================================")
	return nil
}
