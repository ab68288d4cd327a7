package config

// This file implements the optional YAML settings overlay (--settings).
// The overlay is applied between DefaultConfig and flag parsing, so
// explicit flags always win over file values. Fields are pointers so an
// absent key leaves the default untouched (false/0 are legal values).

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileSettings mirrors the operator-tunable subset of Config.
type fileSettings struct {
	Workers           *int     `yaml:"workers"`
	DeleteSrc         *bool    `yaml:"delete_src"`
	FillValue         *int     `yaml:"fill_value"`
	BurnThreshold     *int     `yaml:"burn_threshold"`
	ExcludeL1G        *bool    `yaml:"exclude_l1g"`
	ExcludeRMSE       *bool    `yaml:"exclude_rmse"`
	MaxRMSE           *float64 `yaml:"max_rmse"`
	ExcludeCloudCover *bool    `yaml:"exclude_cloud_cover"`
	MaxCloudCover     *float64 `yaml:"max_cloud_cover"`
	BinDir            *string  `yaml:"bin_dir"`
	LogFile           *string  `yaml:"log_file"`
	Color             *string  `yaml:"color"`
}

// LoadSettings reads path and overlays its values onto cfg. Unknown keys
// are rejected so typos surface instead of silently doing nothing.
func LoadSettings(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("settings file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var fs fileSettings
	if err := dec.Decode(&fs); err != nil {
		return fmt.Errorf("settings file %s: %w", path, err)
	}

	if fs.Workers != nil {
		cfg.Workers = *fs.Workers
	}
	if fs.DeleteSrc != nil {
		cfg.DeleteSrc = *fs.DeleteSrc
	}
	if fs.FillValue != nil {
		cfg.FillValue = *fs.FillValue
	}
	if fs.BurnThreshold != nil {
		cfg.BurnThreshold = *fs.BurnThreshold
	}
	if fs.ExcludeL1G != nil {
		cfg.ExcludeL1G = *fs.ExcludeL1G
	}
	if fs.ExcludeRMSE != nil {
		cfg.ExcludeRMSE = *fs.ExcludeRMSE
	}
	if fs.MaxRMSE != nil {
		cfg.MaxRMSE = *fs.MaxRMSE
	}
	if fs.ExcludeCloudCover != nil {
		cfg.ExcludeCloudCover = *fs.ExcludeCloudCover
	}
	if fs.MaxCloudCover != nil {
		cfg.MaxCloudCover = *fs.MaxCloudCover
	}
	if fs.BinDir != nil {
		cfg.BinDir = *fs.BinDir
	}
	if fs.LogFile != nil {
		cfg.LogFile = *fs.LogFile
	}
	if fs.Color != nil {
		cfg.ColorMode = ColorMode(strings.ToLower(*fs.Color))
	}
	cfg.SettingsFile = path
	return nil
}

// settingsPathFromArgs pre-scans argv for --settings so the overlay can be
// applied before the full flag parse (flags must override file values).
func settingsPathFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--settings" || a == "-settings":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--settings="):
			return strings.TrimPrefix(a, "--settings=")
		case strings.HasPrefix(a, "-settings="):
			return strings.TrimPrefix(a, "-settings=")
		}
	}
	return ""
}
