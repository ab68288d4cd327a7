package summary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NGenetzky/espa-burned-area/internal/inventory"
	"github.com/NGenetzky/espa-burned-area/internal/logging"
)

const (
	// FilteredListFile is the post-filter scene list, written to the
	// output directory and re-read by the regression stage.
	FilteredListFile = "input_list.txt"

	// StackFile is the accepted-scene manifest, written to the input
	// directory and consumed by the threshold and annual stages.
	StackFile = "input_stack.csv"
)

// Processor generates the seasonal summary products for one stack.
type Processor struct {
	InputDir   string
	OutputDir  string
	Workers    int
	DeleteSrc  bool
	FillValue  int
	Acceptance Acceptance
	Log        *logging.Logger
}

// Process filters the stack by acquisition metadata, aligns the accepted
// scenes to the stack-wide grid, and writes the seasonal composites and
// annual maxima. The filtered scene list and the manifest land in the
// output and input directories for the later stages.
func (p *Processor) Process(ctx context.Context, stack *inventory.Stack) (*inventory.Manifest, error) {
	accepted, manifest := p.filterScenes(stack)
	p.Log.Info("%d of %d scenes accepted for seasonal summaries",
		len(accepted), len(stack.Scenes))

	if err := p.writeFilteredList(accepted); err != nil {
		return nil, err
	}
	if err := manifest.WriteCSV(filepath.Join(p.InputDir, StackFile)); err != nil {
		return nil, err
	}
	if len(accepted) == 0 {
		return manifest, nil
	}

	cols, rows, err := p.stackDims(accepted)
	if err != nil {
		return nil, err
	}
	p.Log.Info("Stack grid is %dx%d", cols, rows)

	if err := p.resampleScenes(ctx, accepted, cols, rows); err != nil {
		return nil, err
	}
	if err := p.seasonalComposites(ctx, stack, accepted, cols, rows); err != nil {
		return nil, err
	}
	if err := p.annualMaxima(ctx, stack, accepted, cols, rows); err != nil {
		return nil, err
	}
	return manifest, nil
}

// filterScenes applies the acceptance rules to every scene. Scenes with
// unreadable metadata are excluded the same way rule failures are: with
// a warning, never an abort.
func (p *Processor) filterScenes(stack *inventory.Stack) ([]inventory.SceneFile, *inventory.Manifest) {
	var accepted []inventory.SceneFile
	manifest := &inventory.Manifest{}

	for _, scene := range stack.Scenes {
		md, err := ReadMetadata(scene.MetadataFile())
		if err != nil {
			p.Log.Warn("Excluding %s: %v", scene.Base, err)
			continue
		}
		if reason := p.Acceptance.reject(md); reason != "" {
			p.Log.Warn("Excluding %s: %s", scene.Base, reason)
			continue
		}
		accepted = append(accepted, scene)
		manifest.Rows = append(manifest.Rows, inventory.ManifestRow{
			Scene:      scene.Base,
			File:       scene.ListPath,
			Sensor:     scene.ID.Sensor,
			Path:       scene.ID.Path,
			Row:        scene.ID.Row,
			Year:       scene.ID.Year,
			DOY:        scene.ID.DOY,
			Season:     inventory.SeasonForDOY(scene.ID.DOY),
			Level:      md.Level,
			CloudCover: md.CloudCover,
			RMSE:       md.RMSE,
		})
	}
	return accepted, manifest
}

// writeFilteredList writes the accepted scene paths, one per line, to
// the output directory. An empty file is still written so downstream
// stages see an authoritative (if empty) list.
func (p *Processor) writeFilteredList(accepted []inventory.SceneFile) error {
	var b strings.Builder
	for _, s := range accepted {
		b.WriteString(s.ListPath)
		b.WriteByte('\n')
	}
	path := filepath.Join(p.OutputDir, FilteredListFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("filtered scene list: %w", err)
	}
	return nil
}

func (p *Processor) nodata() int16 { return int16(p.FillValue) }
