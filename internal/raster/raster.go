// Package raster reads and writes the flat binary grids the pipeline and
// the external classifier exchange: int16 little-endian .img payloads with
// an ENVI-style text .hdr sidecar. Projection and geolocation metadata are
// not handled here; grids carry only dimensions and the nodata value.
package raster

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Grid is a single-band int16 raster in row-major order.
type Grid struct {
	Cols   int
	Rows   int
	NoData int16
	Data   []int16
}

// New returns a grid with every cell set to nodata.
func New(cols, rows int, nodata int16) *Grid {
	g := &Grid{
		Cols:   cols,
		Rows:   rows,
		NoData: nodata,
		Data:   make([]int16, cols*rows),
	}
	for i := range g.Data {
		g.Data[i] = nodata
	}
	return g
}

// At returns the cell at column x, row y.
func (g *Grid) At(x, y int) int16 { return g.Data[y*g.Cols+x] }

// Set stores v at column x, row y.
func (g *Grid) Set(x, y int, v int16) { g.Data[y*g.Cols+x] = v }

// HdrPath returns the sidecar header path for an .img payload path.
func HdrPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".hdr"
}

// Write stores the payload at path and its header sidecar alongside.
func (g *Grid) Write(path string) error {
	if len(g.Data) != g.Cols*g.Rows {
		return fmt.Errorf("raster %s: %d cells for %dx%d grid", path, len(g.Data), g.Cols, g.Rows)
	}
	buf := make([]byte, 2*len(g.Data))
	for i, v := range g.Data {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("raster: %w", err)
	}

	hdr := fmt.Sprintf(`ENVI
samples = %d
lines = %d
bands = 1
data type = 2
interleave = bsq
byte order = 0
data ignore value = %d
`, g.Cols, g.Rows, g.NoData)
	if err := os.WriteFile(HdrPath(path), []byte(hdr), 0644); err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	return nil
}

// ReadHeader parses only the .hdr sidecar for path, returning the grid
// dimensions and nodata value without touching the payload.
func ReadHeader(path string) (cols, rows int, nodata int16, err error) {
	hdr, err := os.ReadFile(HdrPath(path))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("raster: %w", err)
	}
	nodata = -9999
	for _, line := range strings.Split(string(hdr), "\n") {
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.ToLower(key))
		val = strings.TrimSpace(val)
		switch key {
		case "samples":
			if cols, err = strconv.Atoi(val); err != nil {
				return 0, 0, 0, fmt.Errorf("raster %s: samples %q", path, val)
			}
		case "lines":
			if rows, err = strconv.Atoi(val); err != nil {
				return 0, 0, 0, fmt.Errorf("raster %s: lines %q", path, val)
			}
		case "data type":
			if val != "2" {
				return 0, 0, 0, fmt.Errorf("raster %s: unsupported data type %s (need 2, int16)", path, val)
			}
		case "byte order":
			if val != "0" {
				return 0, 0, 0, fmt.Errorf("raster %s: unsupported byte order %s", path, val)
			}
		case "data ignore value":
			n, aerr := strconv.Atoi(val)
			if aerr != nil {
				return 0, 0, 0, fmt.Errorf("raster %s: data ignore value %q", path, val)
			}
			nodata = int16(n)
		}
	}
	if cols <= 0 || rows <= 0 {
		return 0, 0, 0, fmt.Errorf("raster %s: header missing samples/lines", path)
	}
	return cols, rows, nodata, nil
}

// Read loads a grid written by Write (or by any tool producing int16 BSQ
// ENVI rasters with a little-endian byte order).
func Read(path string) (*Grid, error) {
	cols, rows, nodata, err := ReadHeader(path)
	if err != nil {
		return nil, err
	}
	g := &Grid{Cols: cols, Rows: rows, NoData: nodata}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	want := 2 * g.Cols * g.Rows
	if len(raw) != want {
		return nil, fmt.Errorf("raster %s: payload is %d bytes, want %d for %dx%d",
			path, len(raw), want, g.Cols, g.Rows)
	}
	g.Data = make([]int16, g.Cols*g.Rows)
	for i := range g.Data {
		g.Data[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return g, nil
}
