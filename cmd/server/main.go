package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/sentiflow-vader/config"
	"github.com/spacesedan/sentiflow-vader/internal/logging"
	"github.com/spacesedan/sentiflow-vader/internal/monitoring"
	"github.com/spacesedan/sentiflow-vader/internal/pipeline"
	"github.com/spacesedan/sentiflow-vader/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.FromEnv()
	logging.InitLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		slog.Error("[Main] Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer p.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	translatorHealthy := &atomic.Bool{}
	if p.Translator != nil {
		translatorHealthy.Store(true)
		go monitoring.MonitorTranslatorHealth(ctx, p.Translator, translatorHealthy)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           server.NewServer(p.Engine, p.Processor, translatorHealthy, cfg.MaxUploadBytes).SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("[Main] HTTP server listening", slog.String("address", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] HTTP server failed", slog.String("error", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Warn("[Main] Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
}
