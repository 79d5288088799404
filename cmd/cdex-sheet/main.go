// Command cdex-sheet serves a local stand-in for the equipment spreadsheet:
// the values API the client reads from and the script endpoint it posts
// writes to, backed by SQLite.
//
//	cdex-sheet -config config/cdex-sheet.yaml
//
// Point the client at it with api_base = "http://localhost:8090" and
// script_url = "http://localhost:8090/exec".
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/sheets"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/sheetserver"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/sheetserver/sqlite"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", os.Getenv("CDEX_SHEET_CONFIG"), "YAML config path (optional, environment only when empty)")
	flag.Parse()

	cfg, err := sheetserver.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cdex-sheet: %v\n", err)
		return 1
	}
	log := setupLogger(cfg.Env)
	log.Info("starting cdex-sheet", slog.String("env", cfg.Env))

	store, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to open storage", slog.String("error", err.Error()))
		return 1
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !cfg.SkipSeed {
		seeded, err := store.Seed(ctx, sheets.FallbackEquipment(), sheets.FallbackCheckouts())
		if err != nil {
			log.Error("failed to seed storage", slog.String("error", err.Error()))
			return 1
		}
		if seeded {
			log.Info("seeded empty storage with the built-in catalog")
		}
	}
	log.Info("storage ready", slog.String("path", cfg.StoragePath))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      sheetserver.NewServer(cfg, store, log).Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server failed", slog.String("error", err.Error()))
			return 1
		}
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down gracefully", slog.String("error", err.Error()))
		return 1
	}
	log.Info("server stopped")
	return 0
}

// setupLogger writes text in dev and JSON elsewhere.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
