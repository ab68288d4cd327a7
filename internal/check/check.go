// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for the external classifier and the
// run's directory layout.
package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/NGenetzky/espa-burned-area/internal/config"
	"github.com/NGenetzky/espa-burned-area/internal/regression"
)

// ErrClassifierNotFound is returned by CheckDeps when predict_burned_area
// cannot be resolved.
var ErrClassifierNotFound = errors.New("predict_burned_area not found")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// CheckDeps is the pre-pipeline validation: the classifier must resolve
// inside the configured bin dir, or on PATH when no bin dir is set.
func CheckDeps(cfg *config.Config) error {
	_, err := resolveClassifier(cfg)
	return err
}

// RunCheck runs the --check flow: classifier resolution and version
// banner, existence and writability of the run directories, and the
// settings file parse. Returns true when every check passes.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkClassifier(cfg, log)
	ok = checkLayout(cfg, log) && ok
	ok = checkSettings(cfg, log) && ok
	return ok
}

// resolveClassifier locates predict_burned_area for cfg.
func resolveClassifier(cfg *config.Config) (string, error) {
	if cfg.BinDir != "" {
		path := filepath.Join(cfg.BinDir, regression.ClassifierName)
		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			return "", fmt.Errorf("%w in %s", ErrClassifierNotFound, cfg.BinDir)
		}
		return path, nil
	}
	path, err := exec.LookPath(regression.ClassifierName)
	if err != nil {
		return "", fmt.Errorf("%w on PATH", ErrClassifierNotFound)
	}
	return path, nil
}

// checkClassifier verifies the classifier resolves and logs its version
// banner when it prints one.
func checkClassifier(cfg *config.Config, log Logger) bool {
	path, err := resolveClassifier(cfg)
	if err != nil {
		log.Error("%v", err)
		return false
	}

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		log.Warn("%s found but --version failed: %v", path, err)
		return true
	}
	banner := strings.TrimSpace(string(out))
	if idx := strings.Index(banner, "\n"); idx > 0 {
		banner = banner[:idx]
	}
	log.Success("classifier: %s (%s)", banner, path)
	return true
}

// checkLayout verifies the four run paths: the scene list must be a
// readable file, the input and output directories must be writable (the
// stages write products into both), and the model directory must exist.
func checkLayout(cfg *config.Config, log Logger) bool {
	ok := true

	if fi, err := os.Stat(cfg.SceneList); err != nil || fi.IsDir() {
		log.Error("Scene list missing: %s", cfg.SceneList)
		ok = false
	} else {
		log.Success("Scene list: %s", cfg.SceneList)
	}

	for _, d := range []struct {
		label string
		path  string
		write bool
	}{
		{"Input dir", cfg.InputDir, true},
		{"Output dir", cfg.OutputDir, true},
		{"Model dir", cfg.ModelDir, false},
	} {
		fi, err := os.Stat(d.path)
		if err != nil || !fi.IsDir() {
			log.Error("%s missing: %s", d.label, d.path)
			ok = false
			continue
		}
		if d.write && !dirWritable(d.path) {
			log.Error("%s not writable: %s", d.label, d.path)
			ok = false
			continue
		}
		log.Success("%s: %s", d.label, d.path)
	}
	return ok
}

// checkSettings reports whether the settings file (when one is
// configured) parses cleanly.
func checkSettings(cfg *config.Config, log Logger) bool {
	if cfg.SettingsFile == "" {
		log.Info("Settings file: none")
		return true
	}
	scratch := config.DefaultConfig()
	if err := config.LoadSettings(&scratch, cfg.SettingsFile); err != nil {
		log.Error("Settings file: %v", err)
		return false
	}
	log.Success("Settings file: %s", cfg.SettingsFile)
	return true
}

// dirWritable probes dir with a throwaway temp file.
func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".check_*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
