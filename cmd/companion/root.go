package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/brightpixel/companion/internal/api"
	"github.com/brightpixel/companion/internal/auth"
	"github.com/brightpixel/companion/internal/companion"
	"github.com/brightpixel/companion/internal/config"
	"github.com/brightpixel/companion/internal/llm"
	"github.com/brightpixel/companion/internal/seo"
	"github.com/brightpixel/companion/internal/store"
	"github.com/brightpixel/companion/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Companion - client relationship and AI deliverable service",
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(newLogHandler(cfg.Log))
	slog.SetDefault(logger)
	slog.Info("configuration loaded")

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	completer := llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.Model)
	slog.Info("language model initialized", "model", cfg.LLM.Model)

	fetcher := seo.NewClient(cfg.SEO.DataForSEOLogin, cfg.SEO.DataForSEOPassword, cfg.SEO.PageSpeedAPIKey)
	orchestrator := companion.NewOrchestrator(db, completer, fetcher)
	sessions := auth.NewSessions(db, cfg.Session.Secret)

	handler := api.NewHandler(db, orchestrator, sessions, completer, Version)
	router := api.NewRouter(handler, sessions)
	slog.Info("router initialized")

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	var wg sync.WaitGroup
	staleTasks := worker.NewStaleTaskCoordinator(db,
		time.Duration(cfg.Worker.StaleTaskInterval),
		time.Duration(cfg.Worker.StaleTaskAge))
	startWorker(ctx, &wg, "stale-tasks", staleTasks.Run)

	sessionPurge := worker.NewSessionPurgeCoordinator(db,
		time.Duration(cfg.Worker.SessionPurge))
	startWorker(ctx, &wg, "session-purge", sessionPurge.Run)

	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called
		// gracefully. Anything else is an actual server failure.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	wg.Wait()

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func newLogHandler(cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.NewJSONHandler(os.Stdout, opts)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects context
// cancellation. Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}

func main() {
	rootCmd.AddCommand(userCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
