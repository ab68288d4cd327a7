package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/NGenetzky/espa-burned-area/internal/annual"
	"github.com/NGenetzky/espa-burned-area/internal/archive"
	"github.com/NGenetzky/espa-burned-area/internal/config"
	"github.com/NGenetzky/espa-burned-area/internal/display"
	"github.com/NGenetzky/espa-burned-area/internal/inventory"
	"github.com/NGenetzky/espa-burned-area/internal/logging"
	"github.com/NGenetzky/espa-burned-area/internal/model"
	"github.com/NGenetzky/espa-burned-area/internal/pool"
	"github.com/NGenetzky/espa-burned-area/internal/regression"
	"github.com/NGenetzky/espa-burned-area/internal/summary"
	"github.com/NGenetzky/espa-burned-area/internal/threshold"
)

// Run is the top-level stack entry point. It drives the stages in strict
// order and returns aggregate stats; OK reports whether the run can exit
// zero.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats
	start := time.Now()

	err := run(ctx, cfg, log, &stats)
	stats.Elapsed = time.Since(start)
	stats.OK = err == nil
	if err != nil {
		log.Error("Burned area processing failed: %v", err)
	}
	logSummary(log, &stats)
	return stats
}

func run(ctx context.Context, cfg *config.Config, log *logging.Logger, stats *RunStats) error {
	if err := validatePaths(cfg, log); err != nil {
		return err
	}

	// External tools resolve relative descriptor paths against the
	// process working directory, so the whole run executes from the
	// output directory. The switch is undone on every exit path.
	restore, err := enterWorkDir(cfg.OutputDir, log)
	if err != nil {
		return err
	}
	defer restore()

	var stack *inventory.Stack
	if err := stats.timeStage("resolve", func() error {
		stack, err = resolveStack(cfg, log, stats)
		return err
	}); err != nil {
		return err
	}

	var manifest *inventory.Manifest
	if err := stats.timeStage("seasonal summaries", func() error {
		manifest, err = newSummaryProcessor(cfg, log).Process(ctx, stack)
		return err
	}); err != nil {
		return err
	}
	stats.ScenesAccepted = len(manifest.Rows)

	ok, err := reloadFilteredList(cfg, log, stack)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	regScenes := stack.RegressionScenes()
	if len(regScenes) == 0 {
		log.Warn("No scenes beyond the first stack year (%d); seasonal summaries "+
			"are complete, no burn products to generate", stack.StartYear)
		return nil
	}

	modelFile, err := model.Lookup(cfg.ModelDir, stack.Path, stack.Row)
	if err != nil {
		return err
	}
	log.Info("Using model %s", modelFile)

	if err := stats.timeStage("regression", func() error {
		return runRegression(ctx, cfg, log, stats, regScenes, modelFile)
	}); err != nil {
		return err
	}

	manifest, err = inventory.ReadManifest(filepath.Join(cfg.InputDir, summary.StackFile))
	if err != nil {
		return err
	}
	years := stack.ProductYears()

	if err := stats.timeStage("threshold", func() error {
		th := &threshold.Thresholder{
			OutputDir: cfg.OutputDir,
			Threshold: cfg.BurnThreshold,
			Workers:   cfg.Workers,
			Log:       log,
		}
		return th.Run(ctx, manifest, years)
	}); err != nil {
		return err
	}

	if err := stats.timeStage("annual summaries", func() error {
		s := &annual.Summarizer{OutputDir: cfg.OutputDir, Log: log}
		return s.Run(ctx, manifest, years)
	}); err != nil {
		return err
	}

	return stats.timeStage("packaging", func() error {
		zipPath, err := archive.CreateZip(cfg.OutputDir, stack.Path, stack.Row)
		if err != nil {
			return err
		}
		fi, err := os.Stat(zipPath)
		if err != nil {
			return fmt.Errorf("packaging: %w", err)
		}
		log.Success("Delivery archive: %s (%s)", zipPath, display.FormatBytes(fi.Size()))
		return nil
	})
}

// validatePaths checks the run layout and absolutizes the configured
// paths so the working-directory switch cannot break them. The output
// directory is created when missing.
func validatePaths(cfg *config.Config, log *logging.Logger) error {
	for _, p := range []*string{&cfg.SceneList, &cfg.InputDir, &cfg.OutputDir, &cfg.ModelDir} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", *p, err)
		}
		*p = abs
	}
	if cfg.BinDir != "" {
		abs, err := filepath.Abs(cfg.BinDir)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", cfg.BinDir, err)
		}
		cfg.BinDir = abs
	}

	if _, err := os.Stat(cfg.SceneList); err != nil {
		return fmt.Errorf("scene list: %w", err)
	}
	if err := requireDir(cfg.InputDir); err != nil {
		return fmt.Errorf("input dir: %w", err)
	}
	if err := requireDir(cfg.ModelDir); err != nil {
		return fmt.Errorf("model dir: %w", err)
	}
	if _, err := os.Stat(cfg.OutputDir); err != nil {
		log.Warn("Output directory does not exist: %s. Creating ...", cfg.OutputDir)
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("output dir: %w", err)
		}
	}
	return nil
}

func requireDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// enterWorkDir switches the process working directory to dir and returns
// the restore func.
func enterWorkDir(dir string, log *logging.Logger) (func(), error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("workdir: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return nil, fmt.Errorf("workdir: %w", err)
	}
	log.Info("Changing directories for burned area processing: %s", dir)
	return func() {
		if err := os.Chdir(prev); err != nil {
			log.Warn("Could not restore working directory %s: %v", prev, err)
		}
	}, nil
}

func resolveStack(cfg *config.Config, log *logging.Logger, stats *RunStats) (*inventory.Stack, error) {
	entries, err := inventory.ReadSceneList(cfg.SceneList)
	if err != nil {
		return nil, err
	}
	stats.ScenesListed = len(entries)
	log.Info("Number of scenes in the list: %d", len(entries))

	stack, err := inventory.Resolve(entries)
	if err != nil {
		return nil, err
	}
	log.Info("Processing burned area products for path/row %03d/%03d, years %d - %d",
		stack.Path, stack.Row, stack.StartYear, stack.EndYear)
	return stack, nil
}

func newSummaryProcessor(cfg *config.Config, log *logging.Logger) *summary.Processor {
	return &summary.Processor{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		DeleteSrc: cfg.DeleteSrc,
		FillValue: cfg.FillValue,
		Acceptance: summary.Acceptance{
			ExcludeL1G:        cfg.ExcludeL1G,
			ExcludeRMSE:       cfg.ExcludeRMSE,
			MaxRMSE:           cfg.MaxRMSE,
			ExcludeCloudCover: cfg.ExcludeCloudCover,
			MaxCloudCover:     cfg.MaxCloudCover,
		},
		Log: log,
	}
}

// reloadFilteredList replaces the stack's scene set with the filtered
// list the summary stage wrote. Path, row and the year range keep their
// values from the original resolve. Returns false when no scene
// survived, which ends the run as a warned success.
func reloadFilteredList(cfg *config.Config, log *logging.Logger, stack *inventory.Stack) (bool, error) {
	listPath := filepath.Join(cfg.OutputDir, summary.FilteredListFile)
	entries, err := inventory.ReadSceneList(listPath)
	if errors.Is(err, inventory.ErrEmptyList) {
		log.Warn("No scenes left after metadata filtering; seasonal summary "+
			"products (if any) are in %s", cfg.InputDir)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	log.Info("Number of scenes in the list after filtering: %d", len(entries))

	scenes := make([]inventory.SceneFile, 0, len(entries))
	for _, e := range entries {
		sf, err := inventory.NewSceneFile(e)
		if err != nil {
			return false, err
		}
		scenes = append(scenes, sf)
	}
	stack.Scenes = scenes
	return true, nil
}

// runRegression fans the eligible scenes out over the worker pool. The
// batch always drains; failures are reported afterwards.
func runRegression(ctx context.Context, cfg *config.Config, log *logging.Logger, stats *RunStats, scenes []inventory.SceneFile, modelFile string) error {
	stats.RegressionJobs = len(scenes)
	log.Stage("Running boosted regression for %d scenes via %d workers",
		len(scenes), cfg.Workers)

	runner := &regression.Runner{
		OutputDir: cfg.OutputDir,
		ModelFile: modelFile,
		BinDir:    cfg.BinDir,
		FillValue: cfg.FillValue,
		Verbose:   cfg.Verbose,
		Log:       log,
	}
	results := pool.Run(cfg.Workers, scenes, func(s inventory.SceneFile) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return runner.RunScene(ctx, s)
	})

	failures := pool.Failures(results)
	stats.FailedJobs = len(failures)
	for _, r := range failures {
		log.Error("Boosted regression failed for %s: %v", r.Item.Base, r.Err)
	}
	if len(failures) > 0 {
		return fmt.Errorf("boosted regression failed for %d of %d scenes",
			len(failures), len(scenes))
	}
	return nil
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Scenes: %d listed, %d accepted, %d regression jobs, %d failed",
		stats.ScenesListed, stats.ScenesAccepted, stats.RegressionJobs, stats.FailedJobs)
	for _, st := range stats.Stages {
		log.Info("  %-18s %s", st.Name, display.FormatDuration(st.Elapsed))
	}
	log.Info("Total scene processing time = %s", display.FormatHours(stats.Elapsed))
	if stats.OK {
		log.Success("Success running burned area processing")
	}
}
