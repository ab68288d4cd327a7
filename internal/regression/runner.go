package regression

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NGenetzky/espa-burned-area/internal/inventory"
	"github.com/NGenetzky/espa-burned-area/internal/logging"
)

var (
	// ErrConfigDir means the shared config directory could not be created.
	ErrConfigDir = errors.New("config dir")

	// ErrExec means the classifier process failed for a scene.
	ErrExec = errors.New("classifier failed")
)

// Runner carries the per-stack settings shared by every scene job. One
// Runner serves all workers; RunScene is safe for concurrent use.
type Runner struct {
	OutputDir string
	ModelFile string
	BinDir    string
	FillValue int
	Verbose   bool
	Log       *logging.Logger
}

// RunScene generates the job descriptor for one scene, runs the
// classifier against it and removes the descriptor. Removal is
// unconditional so a failed scene never leaves its descriptor behind for
// the next run to trip over.
func (r *Runner) RunScene(ctx context.Context, scene inventory.SceneFile) error {
	r.Log.Info("Running boosted regression for %s", scene.Base)

	cfgDir := scene.ConfigDir()
	if err := ensureConfigDir(cfgDir); err != nil {
		return err
	}

	job := JobConfig{
		InputBaseFile:        scene.ReflBase(),
		InputMaskFile:        scene.MaskFile(),
		InputFillValue:       r.FillValue,
		SeasonalSummariesDir: scene.Dir,
		OutputImgFile:        scene.ProbabilityFile(r.OutputDir),
		LoadModelXML:         r.ModelFile,
	}

	cfgPath := filepath.Join(cfgDir, descriptorName(scene.Base))
	defer os.Remove(cfgPath)
	if err := job.Write(cfgPath); err != nil {
		return fmt.Errorf("scene %s: %w", scene.Base, err)
	}

	res := Execute(ctx, r.BinDir, cfgPath, cfgDir)
	if res.Output != "" {
		r.Log.Debug(r.Verbose, "classifier output for %s:\n%s", scene.Base, res.Output)
	}
	if res.Err != nil {
		return fmt.Errorf("%w: scene %s: %v%s", ErrExec, scene.Base, res.Err, outputTail(res.Output))
	}
	return nil
}

// ensureConfigDir creates the shared config directory. Workers race on
// the first scenes of a stack, so a failed create is re-checked with a
// stat before it is treated as fatal.
func ensureConfigDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fi, statErr := os.Stat(dir)
		if statErr != nil || !fi.IsDir() {
			return fmt.Errorf("%w: %s: %v", ErrConfigDir, dir, err)
		}
	}
	return nil
}
