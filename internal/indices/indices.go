// Package indices computes the spectral index rasters consumed by the
// seasonal summaries: normalized band ratios scaled by 1000 into int16,
// with nodata passed through from either input band.
package indices

import (
	"fmt"

	"github.com/NGenetzky/espa-burned-area/internal/raster"
)

// Scale converts the unit-range ratio values to the stored int16 range.
const Scale = 1000

// Names lists the per-scene index products, in generation order.
var Names = []string{"ndvi", "ndmi", "nbr", "nbr2"}

// bandsFor maps each index to the two reflectance bands it divides,
// numerator-side first.
var bandsFor = map[string][2]int{
	"ndvi": {4, 3},
	"ndmi": {4, 5},
	"nbr":  {4, 7},
	"nbr2": {5, 7},
}

// Compute builds the named index from the given band grids. The bands map
// is keyed by Landsat band number.
func Compute(name string, bands map[int]*raster.Grid) (*raster.Grid, error) {
	pair, ok := bandsFor[name]
	if !ok {
		return nil, fmt.Errorf("unknown spectral index %q", name)
	}
	a, b := bands[pair[0]], bands[pair[1]]
	if a == nil || b == nil {
		return nil, fmt.Errorf("index %s needs bands %d and %d", name, pair[0], pair[1])
	}
	if a.Cols != b.Cols || a.Rows != b.Rows {
		return nil, fmt.Errorf("index %s: band %d is %dx%d but band %d is %dx%d",
			name, pair[0], a.Cols, a.Rows, pair[1], b.Cols, b.Rows)
	}
	return normalizedDiff(a, b), nil
}

// NDVI is (band4 - band3) / (band4 + band3).
func NDVI(b3, b4 *raster.Grid) *raster.Grid { return normalizedDiff(b4, b3) }

// NDMI is (band4 - band5) / (band4 + band5).
func NDMI(b4, b5 *raster.Grid) *raster.Grid { return normalizedDiff(b4, b5) }

// NBR is (band4 - band7) / (band4 + band7).
func NBR(b4, b7 *raster.Grid) *raster.Grid { return normalizedDiff(b4, b7) }

// NBR2 is (band5 - band7) / (band5 + band7).
func NBR2(b5, b7 *raster.Grid) *raster.Grid { return normalizedDiff(b5, b7) }

// normalizedDiff computes (a-b)/(a+b) scaled by Scale. Cells that are
// nodata in either input stay nodata; a zero denominator yields 0, matching
// the legacy divide handling.
func normalizedDiff(a, b *raster.Grid) *raster.Grid {
	out := raster.New(a.Cols, a.Rows, a.NoData)
	for i := range a.Data {
		av, bv := a.Data[i], b.Data[i]
		if av == a.NoData || bv == b.NoData {
			continue
		}
		sum := int32(av) + int32(bv)
		if sum == 0 {
			out.Data[i] = 0
			continue
		}
		diff := float64(int32(av)-int32(bv)) / float64(sum)
		out.Data[i] = int16(diff * Scale)
	}
	return out
}
