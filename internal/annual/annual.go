// Package annual rolls the per-scene burn products up into the per-year
// rasters that ship in the delivery archive: maximum burn probability,
// burn count, first-burn day of year and good-looks count.
package annual

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/NGenetzky/espa-burned-area/internal/inventory"
	"github.com/NGenetzky/espa-burned-area/internal/logging"
	"github.com/NGenetzky/espa-burned-area/internal/raster"
)

// MaxProbFile names the per-year maximum burn probability product.
func MaxProbFile(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("max_burn_prob_%d.img", year))
}

// BurnCountFile names the per-year burn count product.
func BurnCountFile(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("burn_count_%d.img", year))
}

// BurnedAreaFile names the per-year first-burn day-of-year product.
func BurnedAreaFile(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("burned_area_%d.img", year))
}

// GoodLooksFile names the per-year usable-observation count product.
func GoodLooksFile(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("good_looks_count_%d.img", year))
}

// Summarizer builds the annual burn products for one stack.
type Summarizer struct {
	OutputDir string
	Log       *logging.Logger
}

// Run summarizes the given years in order. Years run sequentially; each
// one streams every scene of the year through four accumulators, so the
// stage is memory-bound rather than CPU-bound.
func (s *Summarizer) Run(ctx context.Context, manifest *inventory.Manifest, years []int) error {
	s.Log.Stage("Building annual burn summaries for %d years", len(years))
	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows := manifest.RowsForYear(year)
		if len(rows) == 0 {
			s.Log.Warn("No scenes for %d, skipping annual summary", year)
			continue
		}
		if err := s.summarizeYear(year, rows); err != nil {
			return fmt.Errorf("annual summary %d: %w", year, err)
		}
	}
	return nil
}

// summarizeYear accumulates one year's scenes in acquisition order. The
// first-burn day of year relies on that order: the earliest burned look
// wins and later looks never overwrite it.
func (s *Summarizer) summarizeYear(year int, rows []inventory.ManifestRow) error {
	ordered := make([]inventory.ManifestRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].DOY < ordered[j].DOY })

	var (
		maxProb   *raster.Grid
		burnCount *raster.Grid
		firstDOY  *raster.Grid
		goodLooks *raster.Grid
	)

	for _, row := range ordered {
		scene, err := inventory.NewSceneFile(row.File)
		if err != nil {
			return err
		}
		prob, err := raster.Read(scene.ProbabilityFile(s.OutputDir))
		if err != nil {
			return err
		}
		class, err := raster.Read(scene.ClassFile(s.OutputDir))
		if err != nil {
			return err
		}
		mask, err := raster.Read(scene.MaskFile())
		if err != nil {
			return err
		}

		if maxProb == nil {
			maxProb = raster.New(prob.Cols, prob.Rows, prob.NoData)
			burnCount = zeroGrid(prob.Cols, prob.Rows, prob.NoData)
			firstDOY = zeroGrid(prob.Cols, prob.Rows, prob.NoData)
			goodLooks = zeroGrid(prob.Cols, prob.Rows, prob.NoData)
		}
		if prob.Cols != maxProb.Cols || prob.Rows != maxProb.Rows ||
			class.Cols != maxProb.Cols || class.Rows != maxProb.Rows ||
			mask.Cols != maxProb.Cols || mask.Rows != maxProb.Rows {
			return fmt.Errorf("scene %s does not match the %dx%d stack grid",
				scene.Base, maxProb.Cols, maxProb.Rows)
		}

		for i := range prob.Data {
			if mask.Data[i] != 1 {
				continue
			}
			goodLooks.Data[i]++
			if p := prob.Data[i]; p != prob.NoData {
				if maxProb.Data[i] == maxProb.NoData || p > maxProb.Data[i] {
					maxProb.Data[i] = p
				}
			}
			if class.Data[i] == 1 {
				burnCount.Data[i]++
				if firstDOY.Data[i] == 0 {
					firstDOY.Data[i] = int16(row.DOY)
				}
			}
		}
	}

	for path, g := range map[string]*raster.Grid{
		MaxProbFile(s.OutputDir, year):    maxProb,
		BurnCountFile(s.OutputDir, year):  burnCount,
		BurnedAreaFile(s.OutputDir, year): firstDOY,
		GoodLooksFile(s.OutputDir, year):  goodLooks,
	} {
		if err := g.Write(path); err != nil {
			return err
		}
	}
	return nil
}

// zeroGrid returns a grid of zeroes; counts and first-burn days start at
// zero rather than nodata.
func zeroGrid(cols, rows int, nodata int16) *raster.Grid {
	g := raster.New(cols, rows, nodata)
	for i := range g.Data {
		g.Data[i] = 0
	}
	return g
}
