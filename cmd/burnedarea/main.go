// Command burnedarea is the CLI entrypoint for the burned area mapper.
//
// It parses flags, validates configuration, and either runs environment
// diagnostics (--check) or the full scene stack processing pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NGenetzky/espa-burned-area/internal/check"
	"github.com/NGenetzky/espa-burned-area/internal/config"
	"github.com/NGenetzky/espa-burned-area/internal/display"
	"github.com/NGenetzky/espa-burned-area/internal/logging"
	"github.com/NGenetzky/espa-burned-area/internal/pipeline"
)

// commit is injected at build time via -ldflags. The version string lives in
// the config package so --version and the usage text stay in sync with it.
var commit = "unknown"

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "burnedarea: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "burnedarea: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "burnedarea: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	log.Info("=== Burned Area v%s (%s) ===", config.Version(), commit)
	log.Info("Scenes: %s", cfg.SceneList)
	log.Info("In:     %s", cfg.InputDir)
	log.Info("Out:    %s", cfg.OutputDir)
	log.Info("Models: %s", cfg.ModelDir)
	log.Info("Workers: %d, burn threshold: %d%%", cfg.Workers, cfg.BurnThreshold)
	if cfg.DeleteSrc {
		log.Warn("Source band rasters will be removed after resampling")
	}
	log.Info("")

	// Fail fast if the boosted regression classifier is unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		log.Error("Run with --check for full diagnostics")
		return 1
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can stop between scenes without leaving partial output.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current scenes…")
		cancel()
	}()

	// Phase 4: Run the pipeline (resolve → summaries → regression →
	// threshold → annual products → archive).
	stats := pipeline.Run(ctx, &cfg, log)

	if !stats.OK {
		return 1
	}
	return 0
}
