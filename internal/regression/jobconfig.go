package regression

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// JobConfig describes one classifier invocation. The classifier reads it
// from a flat KEY=VALUE file, so the field set and line order here are
// fixed by its parser.
type JobConfig struct {
	InputBaseFile        string // reflectance stem, bands resolved as <stem>_sr_bandN.img
	InputMaskFile        string
	InputFillValue       int
	SeasonalSummariesDir string
	OutputImgFile        string
	LoadModelXML         string
}

// Write validates the referenced inputs and writes the descriptor to path,
// one KEY=VALUE line per field.
func (c *JobConfig) Write(path string) error {
	if err := c.validate(); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "INPUT_BASE_FILE=%s\n", c.InputBaseFile)
	fmt.Fprintf(&b, "INPUT_MASK_FILE=%s\n", c.InputMaskFile)
	fmt.Fprintf(&b, "INPUT_FILL_VALUE=%d\n", c.InputFillValue)
	fmt.Fprintf(&b, "SEASONAL_SUMMARIES_DIR=%s\n", c.SeasonalSummariesDir)
	fmt.Fprintf(&b, "OUTPUT_IMG_FILE=%s\n", c.OutputImgFile)
	fmt.Fprintf(&b, "LOAD_MODEL_XML=%s\n", c.LoadModelXML)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing job config: %w", err)
	}
	return nil
}

// validate stats every input the classifier will open, so a bad scene
// fails here with a readable message instead of inside the external
// process.
func (c *JobConfig) validate() error {
	if err := requireDir(c.SeasonalSummariesDir); err != nil {
		return fmt.Errorf("seasonal summaries dir: %w", err)
	}
	if err := requireFile(c.InputBaseFile + "_sr_band1.img"); err != nil {
		return fmt.Errorf("reflectance band 1: %w", err)
	}
	if err := requireFile(c.InputMaskFile); err != nil {
		return fmt.Errorf("mask file: %w", err)
	}
	if err := requireFile(c.LoadModelXML); err != nil {
		return fmt.Errorf("model file: %w", err)
	}
	if err := requireDir(filepath.Dir(c.OutputImgFile)); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	return nil
}

func requireFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func requireDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// descriptorName returns a collision-safe file name for one scene's
// descriptor. Concurrent workers share the config directory, so the name
// carries a random component alongside the scene base.
func descriptorName(base string) string {
	return fmt.Sprintf("temp_%s_%s.config", base, uuid.NewString())
}
