package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/lastik/internal/api"
	"github.com/erazemk/lastik/internal/config"
	"github.com/erazemk/lastik/internal/session"
)

func cmdServe(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("serve", &cfg, stdout)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.DurationVar(&cfg.AlertInterval, "interval", cfg.AlertInterval, "")
	fs.DurationVar(&cfg.AlertInterval, "i", cfg.AlertInterval, "")
	if code, ok := parseFlags(fs, cfg, args, stderr); !ok {
		return code
	}

	closeLog, err := setupLogger(stdout, stderr, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer closeLog()

	s, err := openSession(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session", "error", err)
		return exitError
	}
	defer s.Close()

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(s))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watchExpired(ctx, s, cfg.AlertInterval)

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		select {
		case sig := <-quit:
			slog.Info("shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
			return
		}
		cancel()

		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "store", cfg.Store)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		return exitError
	}

	slog.Info("server stopped, closing store")
	return exitOK
}

// watchExpired logs overdue hotel entries now and then every interval until
// ctx is done. A non-positive interval disables it.
func watchExpired(ctx context.Context, s *session.Session, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		alertExpired(s, s.Now())
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func alertExpired(s *session.Session, now time.Time) int {
	expired := s.Expired(now)
	for _, e := range expired {
		slog.Warn("hotel entry overdue",
			"entry", e.ID,
			"customer", e.CustomerName,
			"plate", e.PlateNumber,
			"retrieval_date", e.RetrievalDate.Format(time.DateOnly),
			"days_overdue", int(now.Sub(e.RetrievalDate).Hours()/24),
		)
	}
	return len(expired)
}
