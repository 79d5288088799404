package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/cdex/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional)")
	poll := flag.Duration("poll", 0, "sheet refresh interval (optional, defaults to 30s)")
	offline := flag.Bool("offline", false, "start offline and work from built-in data")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Offline:    *offline,
	}
	if *poll > 0 {
		opts.PollEvery = max(*poll, 5*time.Second)
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "cdex: %v\n", err)
		return 1
	}
	return 0
}
