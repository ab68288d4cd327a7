// Package threshold turns the classifier's burn probability rasters into
// per-scene burn classifications. A look is classified burned when it is
// usable and its probability meets the configured percentage; obscured or
// out-of-scene looks carry nodata.
package threshold

import (
	"context"
	"fmt"

	"github.com/NGenetzky/espa-burned-area/internal/inventory"
	"github.com/NGenetzky/espa-burned-area/internal/logging"
	"github.com/NGenetzky/espa-burned-area/internal/pool"
	"github.com/NGenetzky/espa-burned-area/internal/raster"
)

// Thresholder classifies one stack's probability rasters.
type Thresholder struct {
	OutputDir string
	Threshold int // Burn probability cutoff in percent.
	Workers   int
	Log       *logging.Logger
}

// Run classifies every scene of the given years through the worker pool,
// one task per year. The batch drains fully before the first failure is
// reported.
func (t *Thresholder) Run(ctx context.Context, manifest *inventory.Manifest, years []int) error {
	t.Log.Stage("Thresholding burn probabilities at %d%% for %d years", t.Threshold, len(years))
	results := pool.Run(t.Workers, years, func(year int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return t.thresholdYear(year, manifest.RowsForYear(year))
	})
	for _, r := range pool.Failures(results) {
		t.Log.Error("Threshold failed for %d: %v", r.Item, r.Err)
	}
	return pool.FirstError(results)
}

func (t *Thresholder) thresholdYear(year int, rows []inventory.ManifestRow) error {
	for _, row := range rows {
		scene, err := inventory.NewSceneFile(row.File)
		if err != nil {
			return fmt.Errorf("threshold %d: %w", year, err)
		}
		if err := t.thresholdScene(scene); err != nil {
			return fmt.Errorf("threshold %d: %w", year, err)
		}
	}
	return nil
}

// thresholdScene writes one scene's burn classification: 1 burned,
// 0 unburned, nodata where the look is unusable or outside the scene.
func (t *Thresholder) thresholdScene(scene inventory.SceneFile) error {
	prob, err := raster.Read(scene.ProbabilityFile(t.OutputDir))
	if err != nil {
		return err
	}
	mask, err := raster.Read(scene.MaskFile())
	if err != nil {
		return err
	}
	if mask.Cols != prob.Cols || mask.Rows != prob.Rows {
		return fmt.Errorf("scene %s: mask is %dx%d, probability is %dx%d",
			scene.Base, mask.Cols, mask.Rows, prob.Cols, prob.Rows)
	}

	out := raster.New(prob.Cols, prob.Rows, prob.NoData)
	cutoff := int16(t.Threshold)
	for i, p := range prob.Data {
		if mask.Data[i] != 1 || p == prob.NoData {
			continue
		}
		if p >= cutoff {
			out.Data[i] = 1
		} else {
			out.Data[i] = 0
		}
	}
	return out.Write(scene.ClassFile(t.OutputDir))
}
