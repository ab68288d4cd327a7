package summary

import (
	"context"
	"fmt"
	"os"

	"github.com/NGenetzky/espa-burned-area/internal/indices"
	"github.com/NGenetzky/espa-burned-area/internal/inventory"
	"github.com/NGenetzky/espa-burned-area/internal/pool"
	"github.com/NGenetzky/espa-burned-area/internal/raster"
)

// Bands lists the surface reflectance bands carried through resampling.
// The thermal band is not used for burned area work.
var Bands = []int{1, 2, 3, 4, 5, 7}

// cfmask codes in the source quality raster.
const (
	qaClear  = 0
	qaWater  = 1
	qaShadow = 2
	qaSnow   = 3
	qaCloud  = 4
	qaFill   = 255
)

// stackDims returns the maximum grid size over the accepted scenes, read
// from each scene's band 1 header. Scenes in one stack usually agree,
// but reprocessed products can differ by a few cells at the edges.
func (p *Processor) stackDims(scenes []inventory.SceneFile) (cols, rows int, err error) {
	for _, s := range scenes {
		c, r, _, err := raster.ReadHeader(s.SrcBandFile(1))
		if err != nil {
			return 0, 0, fmt.Errorf("scene %s: %w", s.Base, err)
		}
		if c > cols {
			cols = c
		}
		if r > rows {
			rows = r
		}
	}
	return cols, rows, nil
}

// resampleScenes aligns every accepted scene to the stack grid through
// the worker pool. The batch drains fully before the first failure is
// reported.
func (p *Processor) resampleScenes(ctx context.Context, scenes []inventory.SceneFile, cols, rows int) error {
	p.Log.Stage("Resampling %d scenes to the stack grid", len(scenes))
	results := pool.Run(p.Workers, scenes, func(s inventory.SceneFile) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return p.resampleScene(s, cols, rows)
	})
	for _, r := range pool.Failures(results) {
		p.Log.Error("Resample failed for %s: %v", r.Item.Base, r.Err)
	}
	return pool.FirstError(results)
}

// resampleScene pads one scene's band rasters to the stack grid, derives
// the usability mask from the cfmask raster and writes the per-scene
// spectral index rasters. With delete-src the source rasters are removed
// afterwards; the metadata sidecar always stays.
func (p *Processor) resampleScene(s inventory.SceneFile, cols, rows int) error {
	if err := os.MkdirAll(s.ReflDir(), 0o755); err != nil {
		return fmt.Errorf("scene %s: %w", s.Base, err)
	}
	if err := os.MkdirAll(s.MaskDir(), 0o755); err != nil {
		return fmt.Errorf("scene %s: %w", s.Base, err)
	}

	bands := make(map[int]*raster.Grid, len(Bands))
	for _, b := range Bands {
		src, err := raster.Read(s.SrcBandFile(b))
		if err != nil {
			return fmt.Errorf("scene %s: %w", s.Base, err)
		}
		g := padGrid(src, cols, rows, p.nodata())
		if err := g.Write(s.BandFile(b)); err != nil {
			return fmt.Errorf("scene %s: %w", s.Base, err)
		}
		bands[b] = g
	}

	qa, err := raster.Read(s.SrcQAFile())
	if err != nil {
		return fmt.Errorf("scene %s: %w", s.Base, err)
	}
	mask := maskFromQA(padGrid(qa, cols, rows, p.nodata()), p.nodata())
	if err := mask.Write(s.MaskFile()); err != nil {
		return fmt.Errorf("scene %s: %w", s.Base, err)
	}

	for _, name := range indices.Names {
		g, err := indices.Compute(name, bands)
		if err != nil {
			return fmt.Errorf("scene %s: %w", s.Base, err)
		}
		applyMask(g, mask)
		if err := g.Write(s.IndexFile(name)); err != nil {
			return fmt.Errorf("scene %s: %w", s.Base, err)
		}
	}

	if p.DeleteSrc {
		p.removeSource(s)
	}
	return nil
}

// padGrid places src in the top-left corner of a cols x rows grid filled
// with nodata. Source cells beyond the target bounds are dropped, which
// cannot happen when the target is the stack-wide maximum.
func padGrid(src *raster.Grid, cols, rows int, nodata int16) *raster.Grid {
	if src.Cols == cols && src.Rows == rows {
		return src
	}
	g := raster.New(cols, rows, nodata)
	copyCols := src.Cols
	if copyCols > cols {
		copyCols = cols
	}
	copyRows := src.Rows
	if copyRows > rows {
		copyRows = rows
	}
	for y := 0; y < copyRows; y++ {
		copy(g.Data[y*cols:y*cols+copyCols], src.Data[y*src.Cols:y*src.Cols+copyCols])
	}
	return g
}

// maskFromQA converts a padded cfmask raster into the usability mask:
// 1 for clear and water looks, 0 for cloud, shadow and snow, nodata
// outside the scene. Unknown codes count as obscured.
func maskFromQA(qa *raster.Grid, nodata int16) *raster.Grid {
	m := raster.New(qa.Cols, qa.Rows, nodata)
	for i, v := range qa.Data {
		switch {
		case v == qa.NoData || v == nodata || v == qaFill:
			m.Data[i] = nodata
		case v == qaClear || v == qaWater:
			m.Data[i] = 1
		default:
			m.Data[i] = 0
		}
	}
	return m
}

// applyMask sets index cells to nodata wherever the look is not usable,
// so every downstream consumer can treat nodata as "no good look".
func applyMask(g, mask *raster.Grid) {
	for i, m := range mask.Data {
		if m != 1 {
			g.Data[i] = g.NoData
		}
	}
}

// removeSource deletes the scene's source band and quality rasters with
// their header sidecars. Failures only warn; the aligned copies are
// already on disk.
func (p *Processor) removeSource(s inventory.SceneFile) {
	paths := make([]string, 0, 2*(len(Bands)+1))
	for _, b := range Bands {
		paths = append(paths, s.SrcBandFile(b))
	}
	paths = append(paths, s.SrcQAFile())
	for _, path := range paths {
		for _, target := range []string{path, raster.HdrPath(path)} {
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				p.Log.Warn("Could not remove source %s: %v", target, err)
			}
		}
	}
}
