package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/config"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/connectivity"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/prefs"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/sheets"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/state"
	"github.com/TCU-DCDA/cdex-inventory-app/internal/ui"
)

// Options configure the CDEx application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/cdex/prefs.toml
	PollEvery  time.Duration // zero uses the configured interval
	Offline    bool          // never probe; treat the network as down
}

const (
	uiTick        = time.Second
	shutdownGrace = 5 * time.Second
)

// Run boots the CDEx TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}

	logger, closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("preferences unreadable, using defaults", slog.String("error", err.Error()))
	}

	// The client reports fallbacks to the coordinator, which is built after it.
	var coord *state.Coordinator
	client, err := sheets.NewClient(cfg.Sheets, sheets.Options{
		Logger: logger,
		OnFallback: func(table string, err error) {
			if coord != nil {
				coord.NoteFallback(table, err)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("init sheets client: %w", err)
	}
	if !client.IsConfigured() {
		logger.Warn("sheet credentials not configured, running on built-in data")
	}

	var conn connectivity.Provider
	if opts.Offline {
		conn = connectivity.NewStatic(false)
	} else {
		prober := connectivity.NewProber(cfg.ProbeAddr, 0)
		prober.Probe(ctx)
		prober.Start(ctx)
		conn = prober
	}

	coord = state.New(client, conn, state.Options{Logger: logger})
	defer coord.Close()
	defer waitForWrites(coord, logger)

	if err := coord.Initialize(ctx); err != nil {
		logger.Warn("initial load incomplete", slog.String("error", err.Error()))
	}

	StartPoller(ctx, coord, cfg.PollInterval)

	uiOpts := ui.Options{
		Context:     ctx,
		Coordinator: coord,
		Config:      &cfg,
		PollTick:    uiTick,
		ThemeName:   userPrefs.Theme,
		Tab:         userPrefs.Tab,
		PrefsPath:   opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// setupLogging points the default slog logger at the log file. The terminal
// belongs to the UI, so nothing is logged to stderr while it runs.
func setupLogging(path string) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	return logger, func() { _ = f.Close() }, nil
}

// waitForWrites gives queued sheet writes a bounded chance to go out before
// the process exits.
func waitForWrites(coord *state.Coordinator, logger *slog.Logger) {
	pending := coord.Snapshot().PendingWrites
	if pending == 0 {
		return
	}
	done := make(chan struct{})
	go func() {
		coord.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		logger.Warn("exiting with sheet writes still pending", slog.Int("pending", pending))
	}
}
