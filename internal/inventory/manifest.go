package inventory

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Season buckets an acquisition by day of year.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
)

// Seasons lists the composite order used for summary products.
var Seasons = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// SeasonForDOY maps a day of year onto its season within the same calendar
// year. Late-December acquisitions bucket with that year's winter.
func SeasonForDOY(doy int) Season {
	switch {
	case doy >= 60 && doy <= 151:
		return SeasonSpring
	case doy >= 152 && doy <= 243:
		return SeasonSummer
	case doy >= 244 && doy <= 334:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// ManifestRow describes one accepted scene in the stack manifest.
type ManifestRow struct {
	Scene      string
	File       string
	Sensor     string
	Path       int
	Row        int
	Year       int
	DOY        int
	Season     Season
	Level      string // Geometric correction level (L1T, L1G, ...).
	CloudCover float64
	RMSE       float64
}

// Manifest is the accepted-scene table written to input_stack.csv by the
// seasonal summary stage and consumed by the threshold stage.
type Manifest struct {
	Rows []ManifestRow
}

var manifestHeader = []string{
	"scene", "file", "sensor", "path", "row", "year", "doy", "season",
	"level", "cloud_cover", "rmse",
}

// WriteCSV writes the manifest to path, overwriting any previous run.
func (m *Manifest) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(manifestHeader); err != nil {
		f.Close()
		return fmt.Errorf("manifest: %w", err)
	}
	for _, r := range m.Rows {
		rec := []string{
			r.Scene,
			r.File,
			r.Sensor,
			strconv.Itoa(r.Path),
			strconv.Itoa(r.Row),
			strconv.Itoa(r.Year),
			strconv.Itoa(r.DOY),
			string(r.Season),
			r.Level,
			strconv.FormatFloat(r.CloudCover, 'f', 2, 64),
			strconv.FormatFloat(r.RMSE, 'f', 2, 64),
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("manifest: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("manifest: %w", err)
	}
	return f.Close()
}

// ReadManifest loads a manifest written by WriteCSV.
func ReadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(manifestHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("manifest %s: missing header", path)
	}
	for i, name := range manifestHeader {
		if records[0][i] != name {
			return nil, fmt.Errorf("manifest %s: unexpected header column %q", path, records[0][i])
		}
	}

	m := &Manifest{}
	for _, rec := range records[1:] {
		row := ManifestRow{
			Scene:  rec[0],
			File:   rec[1],
			Sensor: rec[2],
			Level:  rec[8],
			Season: Season(rec[7]),
		}
		if row.Path, err = strconv.Atoi(rec[3]); err != nil {
			return nil, fmt.Errorf("manifest %s: path %q: %w", path, rec[3], err)
		}
		if row.Row, err = strconv.Atoi(rec[4]); err != nil {
			return nil, fmt.Errorf("manifest %s: row %q: %w", path, rec[4], err)
		}
		if row.Year, err = strconv.Atoi(rec[5]); err != nil {
			return nil, fmt.Errorf("manifest %s: year %q: %w", path, rec[5], err)
		}
		if row.DOY, err = strconv.Atoi(rec[6]); err != nil {
			return nil, fmt.Errorf("manifest %s: doy %q: %w", path, rec[6], err)
		}
		if row.CloudCover, err = strconv.ParseFloat(rec[9], 64); err != nil {
			return nil, fmt.Errorf("manifest %s: cloud_cover %q: %w", path, rec[9], err)
		}
		if row.RMSE, err = strconv.ParseFloat(rec[10], 64); err != nil {
			return nil, fmt.Errorf("manifest %s: rmse %q: %w", path, rec[10], err)
		}
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}

// RowsForYear returns the manifest rows for one acquisition year.
func (m *Manifest) RowsForYear(year int) []ManifestRow {
	var out []ManifestRow
	for _, r := range m.Rows {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}
