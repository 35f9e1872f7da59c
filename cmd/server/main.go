package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZuzanaOchmanova/self-assessment/internal/assessment"
	"github.com/ZuzanaOchmanova/self-assessment/internal/httpapi"
	"github.com/ZuzanaOchmanova/self-assessment/internal/platform/cache"
	"github.com/ZuzanaOchmanova/self-assessment/internal/platform/config"
	"github.com/ZuzanaOchmanova/self-assessment/internal/platform/database"
	"github.com/ZuzanaOchmanova/self-assessment/internal/report"
	"github.com/ZuzanaOchmanova/self-assessment/internal/results"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	content, err := assessment.Load(cfg.Content.Dir)
	if err != nil {
		slog.Error("failed to load assessment content", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	srv := &httpapi.Server{
		Content: content,
		Renderer: report.NewChromiumRenderer(cfg.Report.ChromePath,
			time.Duration(cfg.Report.TimeoutSeconds)*time.Second),
		ReportTTL: time.Duration(cfg.Cache.ReportTTL) * time.Minute,
		Hub:       httpapi.NewHub(),
	}

	// Persistence is best-effort: without a reachable database the service
	// still scores and renders, holding results in memory only.
	db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		slog.Warn("database unavailable, falling back to in-memory results", "error", err)
		srv.Store = results.NewMemoryStore()
	} else {
		defer db.Close()
		store, err := results.NewPostgresStore(ctx, db.Pool)
		if err != nil {
			slog.Error("failed to initialize result store", "error", err)
			os.Exit(1)
		}
		srv.DB = db
		srv.Store = store
	}

	if !cfg.Cache.Disabled {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			slog.Warn("cache unavailable, report caching disabled", "error", err)
		} else {
			defer c.Close()
			srv.Cache = c
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // PDF rendering can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
