package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into paths, processing, scene acceptance, display, and
// utility. Keep-style flags (e.g. --keep-l1g) are applied after Parse so
// Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// version is shown in --version and help; override at build time with -ldflags "-X ...config.version=...".
var version = "2.0.0-dev"

// Version returns the build version string.
func Version() string { return version }

// ParseFlags parses args (usually os.Args[1:]) into cfg. On --help or
// --version it prints and exits. The --settings overlay is applied before
// the flag parse so explicit flags win over file values.
func ParseFlags(cfg *Config, args []string) error {
	if path := settingsPathFromArgs(args); path != "" {
		if err := LoadSettings(cfg, path); err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet("burnedarea", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	// Keep/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var kept keepFlags

	definePathFlags(fs, cfg)
	defineProcessingFlags(fs, cfg)
	defineAcceptanceFlags(fs, cfg, &kept)
	defineDisplayFlags(fs, cfg, &kept)
	defineUtilityFlags(fs, cfg, &kept)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyKeepFlags(cfg, &kept)

	if kept.showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if kept.showVersion {
		fmt.Fprintln(os.Stdout, "burnedarea v"+version)
		os.Exit(0)
	}

	cfg.SceneList = strings.TrimSpace(cfg.SceneList)
	cfg.InputDir = NormalizeDirArg(cfg.InputDir)
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	cfg.ModelDir = NormalizeDirArg(cfg.ModelDir)
	cfg.BinDir = NormalizeDirArg(cfg.BinDir)
	return nil
}

// keepFlags holds boolean flags that are applied after Parse.
// These either invert an acceptance default (e.g. keepL1G -> ExcludeL1G=false)
// or trigger exit (showHelp, showVersion).
type keepFlags struct {
	keepL1G     bool
	keepRMSE    bool
	keepCloudy  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// definePathFlags registers -s/--scene-list, -i/--input-dir, -o/--output-dir, -m/--model-dir.
func definePathFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.SceneList, "scene-list", cfg.SceneList, "File listing scene metadata paths, one per line")
	fs.StringVar(&cfg.SceneList, "s", cfg.SceneList, "Same as --scene-list")
	fs.StringVar(&cfg.InputDir, "input-dir", cfg.InputDir, "Directory holding the scene stack")
	fs.StringVar(&cfg.InputDir, "i", cfg.InputDir, "Same as --input-dir")
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Directory for burn products (created if missing)")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --output-dir")
	fs.StringVar(&cfg.ModelDir, "model-dir", cfg.ModelDir, "Directory holding boosted regression models")
	fs.StringVar(&cfg.ModelDir, "m", cfg.ModelDir, "Same as --model-dir")
}

// defineProcessingFlags registers -p/--workers, --delete-src, --burn-threshold, --bin-dir.
func defineProcessingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Worker pool size")
	fs.IntVar(&cfg.Workers, "p", cfg.Workers, "Same as --workers")
	fs.BoolVar(&cfg.DeleteSrc, "delete-src", cfg.DeleteSrc, "Delete source band rasters after resampling")
	fs.IntVar(&cfg.BurnThreshold, "burn-threshold", cfg.BurnThreshold, "Burn probability cutoff in percent")
	fs.StringVar(&cfg.BinDir, "bin-dir", cfg.BinDir, "Directory containing predict_burned_area (default: $BIN, else PATH)")
}

// defineAcceptanceFlags registers keep/limit flags for the scene filters.
func defineAcceptanceFlags(fs *flag.FlagSet, cfg *Config, k *keepFlags) {
	fs.BoolVar(&k.keepL1G, "keep-l1g", false, "Keep systematic-only (L1G) scenes")
	fs.BoolVar(&k.keepRMSE, "keep-poor-rmse", false, "Keep scenes above the RMSE limit")
	fs.Float64Var(&cfg.MaxRMSE, "max-rmse", cfg.MaxRMSE, "Geometric RMSE limit in meters")
	fs.BoolVar(&k.keepCloudy, "keep-cloudy", false, "Keep scenes above the cloud cover limit")
	fs.Float64Var(&cfg.MaxCloudCover, "max-cloud-cover", cfg.MaxCloudCover, "Cloud cover limit in percent")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log-file, --settings.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, k *keepFlags) {
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Color output: auto | always | never")
	fs.BoolVar(&k.noColor, "no-color", false, "Same as --color never")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run environment diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path (empty disables)")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log-file")
	fs.StringVar(&cfg.SettingsFile, "settings", cfg.SettingsFile, "YAML settings overlay (applied before flags)")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, k *keepFlags) {
	fs.BoolVar(&k.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&k.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&k.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&k.showHelp, "h", false, "Same as --help")
}

// applyKeepFlags copies keep-style flag values into cfg (e.g. keepL1G -> ExcludeL1G=false).
func applyKeepFlags(cfg *Config, k *keepFlags) {
	if k.keepL1G {
		cfg.ExcludeL1G = false
	}
	if k.keepRMSE {
		cfg.ExcludeRMSE = false
	}
	if k.keepCloudy {
		cfg.ExcludeCloudCover = false
	}
	if k.noColor {
		cfg.ColorMode = ColorNever
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "burnedarea v" + version + " - burned area detection over a Landsat scene stack"},
		{"", ""},
		{"  burnedarea [OPTIONS] -s <scene_list> -i <input_dir> -o <output_dir> -m <model_dir>", ""},
		{"", ""},
		{"Inputs & outputs", ""},
		{"  -s, --scene-list <file>", "Scene metadata paths, one per line"},
		{"  -i, --input-dir <dir>", "Directory holding the scene stack"},
		{"  -o, --output-dir <dir>", "Product directory (created if missing)"},
		{"  -m, --model-dir <dir>", "Boosted regression model directory"},
		{"", ""},
		{"Processing", ""},
		{"  -p, --workers <n>", "Worker pool size (default: 1)"},
		{"  --delete-src", "Delete source band rasters after resampling"},
		{"  --burn-threshold <pct>", "Burn probability cutoff (default: 75)"},
		{"  --bin-dir <dir>", "predict_burned_area location (default: $BIN, else PATH)"},
		{"", ""},
		{"Scene acceptance", ""},
		{"  --keep-l1g", "Keep systematic-only (L1G) scenes"},
		{"  --keep-poor-rmse", "Keep scenes above the RMSE limit"},
		{"  --max-rmse <m>", "Geometric RMSE limit (default: 10)"},
		{"  --keep-cloudy", "Keep scenes above the cloud cover limit"},
		{"  --max-cloud-cover <pct>", "Cloud cover limit (default: 80)"},
		{"", ""},
		{"Display", ""},
		{"  --color <auto|always|never>", "Color output (default: auto)"},
		{"  --no-color", "Same as --color never"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --settings <file>", "YAML settings overlay (applied before flags)"},
		{"  -l, --log-file <path>", "Log file (default: burned_area.log; empty disables)"},
		{"  -c, --check", "Environment diagnostics (classifier, paths)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so the ColorMode enum works with flag.Var.

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
