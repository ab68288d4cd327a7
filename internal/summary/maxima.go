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

// MaximaFile names the annual maximum product for one index.
func MaximaFile(dir string, year int, index string) string {
	return filepath.Join(dir, fmt.Sprintf("annual_max_%d_%s.img", year, index))
}

// annualMaxima writes the per-year index maxima for every year in the
// stack range, one pool task per year.
func (p *Processor) annualMaxima(ctx context.Context, stack *inventory.Stack, scenes []inventory.SceneFile, cols, rows int) error {
	byYear := make(map[int][]inventory.SceneFile)
	for _, s := range scenes {
		byYear[s.ID.Year] = append(byYear[s.ID.Year], s)
	}

	years := stack.AllYears()
	p.Log.Stage("Computing annual maxima for %d years", len(years))
	results := pool.Run(p.Workers, years, func(year int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return p.maximaOne(year, byYear[year], cols, rows)
	})
	for _, r := range pool.Failures(results) {
		p.Log.Error("Annual maxima failed for %d: %v", r.Item, r.Err)
	}
	return pool.FirstError(results)
}

// maximaOne builds one year's per-pixel maximum raster for each index.
// Cells with no usable look all year stay nodata.
func (p *Processor) maximaOne(year int, scenes []inventory.SceneFile, cols, rows int) error {
	nodata := p.nodata()
	for _, name := range indices.Names {
		out := raster.New(cols, rows, nodata)

		for _, s := range scenes {
			g, err := raster.Read(s.IndexFile(name))
			if err != nil {
				return fmt.Errorf("maxima %d: %w", year, err)
			}
			if g.Cols != cols || g.Rows != rows {
				return fmt.Errorf("maxima %d: %s is %dx%d, want %dx%d",
					year, s.IndexFile(name), g.Cols, g.Rows, cols, rows)
			}
			for i, v := range g.Data {
				if v == g.NoData {
					continue
				}
				if out.Data[i] == nodata || v > out.Data[i] {
					out.Data[i] = v
				}
			}
		}

		if err := out.Write(MaximaFile(p.InputDir, year, name)); err != nil {
			return fmt.Errorf("maxima %d: %w", year, err)
		}
	}
	return nil
}
