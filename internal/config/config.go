// Package config holds runtime configuration: defaults, an optional YAML
// settings overlay, CLI flag parsing, and validation. Defaults match the
// legacy processing scripts so existing operator setups keep working.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Fill value marking nodata cells in every raster the pipeline touches.
const DefaultFillValue = -9999

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid from a YAML settings file, and then mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Required paths.
	SceneList string // Text file listing scene metadata paths, one per line.
	InputDir  string // Directory holding the scene stack.
	OutputDir string // Product directory; created when missing.
	ModelDir  string // Directory holding boosted regression models.

	// Processing.
	Workers       int  // Worker pool size. Default: 1.
	DeleteSrc     bool // Remove source band rasters after resampling.
	FillValue     int  // Raster nodata value. Default: -9999.
	BurnThreshold int  // Burn probability cutoff in percent. Default: 75.

	// Scene acceptance. Scenes failing an enabled filter are dropped from
	// the stack before any processing.
	ExcludeL1G        bool    // Default: true. Drop systematic-only (L1G) scenes.
	ExcludeRMSE       bool    // Default: true. Drop scenes above MaxRMSE.
	MaxRMSE           float64 // Geometric RMSE limit in meters. Default: 10.
	ExcludeCloudCover bool    // Default: true. Drop scenes above MaxCloudCover.
	MaxCloudCover     float64 // Cloud cover limit in percent. Default: 80.

	// Classifier.
	BinDir string // Directory containing predict_burned_area. Default: $BIN, else PATH.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Default: "burned_area.log". Empty disables the file sink.
	CheckOnly bool      // Run --check diagnostics and exit.

	// Settings overlay (populated during flag parsing).
	SettingsFile string // --settings path, recorded for diagnostics.
}

// DefaultConfig returns a Config with all defaults matching the legacy
// processing scripts. Used as the base before the settings overlay and
// [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		Workers:           1,
		DeleteSrc:         false,
		FillValue:         DefaultFillValue,
		BurnThreshold:     75,
		ExcludeL1G:        true,
		ExcludeRMSE:       true,
		MaxRMSE:           10.0,
		ExcludeCloudCover: true,
		MaxCloudCover:     80.0,
		BinDir:            os.Getenv("BIN"),
		Verbose:           false,
		ColorMode:         ColorAuto,
		LogFile:           "burned_area.log",
		CheckOnly:         false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks value ranges and, outside CheckOnly mode, that the four
// required paths were given. Path existence is checked later by the
// pipeline so diagnostics can report all of them at once.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if c.BurnThreshold < 1 || c.BurnThreshold > 100 {
		return fmt.Errorf("burn threshold must be in 1..100 percent (got %d)", c.BurnThreshold)
	}
	if c.MaxCloudCover < 0 || c.MaxCloudCover > 100 {
		return fmt.Errorf("max cloud cover must be in 0..100 percent (got %g)", c.MaxCloudCover)
	}
	if c.MaxRMSE <= 0 {
		return fmt.Errorf("max RMSE must be positive (got %g)", c.MaxRMSE)
	}

	if c.CheckOnly {
		return nil
	}
	if c.SceneList == "" || c.InputDir == "" || c.OutputDir == "" || c.ModelDir == "" {
		return errors.New("need --scene-list, --input-dir, --output-dir and --model-dir")
	}
	return nil
}
