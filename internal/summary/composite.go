package summary

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/NGenetzky/espa-burned-area/internal/indices"
	"github.com/NGenetzky/espa-burned-area/internal/inventory"
	"github.com/NGenetzky/espa-burned-area/internal/pool"
	"github.com/NGenetzky/espa-burned-area/internal/raster"
)

// SummaryFile names the seasonal mean product for one index.
func SummaryFile(dir string, year int, season inventory.Season, index string) string {
	return filepath.Join(dir, fmt.Sprintf("seasonal_summary_%d_%s_%s.img", year, season, index))
}

// SummaryCountFile names the good-looks count product for one season.
// The count is index-independent: every index raster of a scene carries
// the same usable-look pattern.
func SummaryCountFile(dir string, year int, season inventory.Season) string {
	return filepath.Join(dir, fmt.Sprintf("seasonal_summary_%d_%s_count.img", year, season))
}

// compositeTask identifies one year and season composite job.
type compositeTask struct {
	Year   int
	Season inventory.Season
}

// seasonalComposites writes the per-season index means and good-looks
// counts for every year in the stack range. Every year and season
// combination produces output, even when no scene falls into it; the
// classifier's lookback expects the full product set.
func (p *Processor) seasonalComposites(ctx context.Context, stack *inventory.Stack, scenes []inventory.SceneFile, cols, rows int) error {
	byTask := make(map[compositeTask][]inventory.SceneFile)
	for _, s := range scenes {
		t := compositeTask{Year: s.ID.Year, Season: inventory.SeasonForDOY(s.ID.DOY)}
		byTask[t] = append(byTask[t], s)
	}

	var tasks []compositeTask
	for _, year := range stack.AllYears() {
		for _, season := range inventory.Seasons {
			tasks = append(tasks, compositeTask{Year: year, Season: season})
		}
	}

	p.Log.Stage("Compositing %d season summaries", len(tasks))
	results := pool.Run(p.Workers, tasks, func(t compositeTask) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return p.compositeOne(t, byTask[t], cols, rows)
	})
	for _, r := range pool.Failures(results) {
		p.Log.Error("Composite failed for %d %s: %v", r.Item.Year, r.Item.Season, r.Err)
	}
	return pool.FirstError(results)
}

// compositeOne builds one season's mean rasters and the shared count
// raster. Means are the integer mean of the usable looks; cells with no
// usable look stay nodata (count 0).
func (p *Processor) compositeOne(t compositeTask, scenes []inventory.SceneFile, cols, rows int) error {
	nodata := p.nodata()
	count := raster.New(cols, rows, nodata)
	for i := range count.Data {
		count.Data[i] = 0
	}

	for ni, name := range indices.Names {
		sum := make([]int32, cols*rows)
		looks := make([]int32, cols*rows)

		for _, s := range scenes {
			g, err := raster.Read(s.IndexFile(name))
			if err != nil {
				return fmt.Errorf("composite %d %s: %w", t.Year, t.Season, err)
			}
			if g.Cols != cols || g.Rows != rows {
				return fmt.Errorf("composite %d %s: %s is %dx%d, want %dx%d",
					t.Year, t.Season, s.IndexFile(name), g.Cols, g.Rows, cols, rows)
			}
			for i, v := range g.Data {
				if v == g.NoData {
					continue
				}
				sum[i] += int32(v)
				looks[i]++
			}
		}

		mean := raster.New(cols, rows, nodata)
		for i, n := range looks {
			if n > 0 {
				mean.Data[i] = int16(sum[i] / n)
			}
		}
		if err := mean.Write(SummaryFile(p.InputDir, t.Year, t.Season, name)); err != nil {
			return fmt.Errorf("composite %d %s: %w", t.Year, t.Season, err)
		}

		// The look pattern is identical across indices; record it once.
		if ni == 0 {
			for i, n := range looks {
				count.Data[i] = int16(n)
			}
		}
	}

	if err := count.Write(SummaryCountFile(p.InputDir, t.Year, t.Season)); err != nil {
		return fmt.Errorf("composite %d %s: %w", t.Year, t.Season, err)
	}
	return nil
}
