package annual

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NGenetzky/espa-burned-area/internal/inventory"
	"github.com/NGenetzky/espa-burned-area/internal/logging"
	"github.com/NGenetzky/espa-burned-area/internal/raster"
)

func writeGrid(t *testing.T, path string, cols, rows int, vals []int16) {
	t.Helper()
	g := raster.New(cols, rows, -9999)
	copy(g.Data, vals)
	require.NoError(t, g.Write(path))
}

// burnScene lays out one scene's mask, probability and classification
// rasters and returns its manifest row.
func burnScene(t *testing.T, inputDir, outputDir, base string, mask, prob, class []int16) inventory.ManifestRow {
	t.Helper()
	scene, err := inventory.NewSceneFile(filepath.Join(inputDir, base+".xml"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(scene.MaskDir(), 0o755))

	writeGrid(t, scene.MaskFile(), len(mask), 1, mask)
	writeGrid(t, scene.ProbabilityFile(outputDir), len(prob), 1, prob)
	writeGrid(t, scene.ClassFile(outputDir), len(class), 1, class)

	return inventory.ManifestRow{
		Scene:  scene.Base,
		File:   scene.ListPath,
		Year:   scene.ID.Year,
		DOY:    scene.ID.DOY,
		Season: inventory.SeasonForDOY(scene.ID.DOY),
	}
}

func TestSummarizeYear(t *testing.T) {
	inputDir, outputDir := t.TempDir(), t.TempDir()

	// Two 2003 looks, DOY 201 and 233. Listed out of order to prove the
	// first-burn day comes from acquisition order, not manifest order.
	late := burnScene(t, inputDir, outputDir, "LT50350322003233LGS01",
		[]int16{1, 1, 1, 0},
		[]int16{95, 40, 80, 99},
		[]int16{1, 0, 1, -9999})
	early := burnScene(t, inputDir, outputDir, "LT50350322003201LGS01",
		[]int16{1, 1, -9999, 1},
		[]int16{90, 30, -9999, 20},
		[]int16{1, 0, -9999, 0})

	s := &Summarizer{OutputDir: outputDir, Log: &logging.Logger{}}
	m := &inventory.Manifest{Rows: []inventory.ManifestRow{late, early}}
	require.NoError(t, s.Run(context.Background(), m, []int{2003}))

	maxProb, err := raster.Read(MaxProbFile(outputDir, 2003))
	require.NoError(t, err)
	assert.Equal(t, []int16{95, 40, 80, 20}, maxProb.Data)

	burnCount, err := raster.Read(BurnCountFile(outputDir, 2003))
	require.NoError(t, err)
	assert.Equal(t, []int16{2, 0, 1, 0}, burnCount.Data)

	firstDOY, err := raster.Read(BurnedAreaFile(outputDir, 2003))
	require.NoError(t, err)
	assert.Equal(t, []int16{201, 0, 233, 0}, firstDOY.Data)

	goodLooks, err := raster.Read(GoodLooksFile(outputDir, 2003))
	require.NoError(t, err)
	assert.Equal(t, []int16{2, 2, 1, 1}, goodLooks.Data)
}

func TestRunSkipsEmptyYear(t *testing.T) {
	outputDir := t.TempDir()
	s := &Summarizer{OutputDir: outputDir, Log: &logging.Logger{}}

	require.NoError(t, s.Run(context.Background(), &inventory.Manifest{}, []int{2003}))
	assert.NoFileExists(t, MaxProbFile(outputDir, 2003))
}

func TestRunMissingClassification(t *testing.T) {
	inputDir, outputDir := t.TempDir(), t.TempDir()
	row := burnScene(t, inputDir, outputDir, "LT50350322003233LGS01",
		[]int16{1}, []int16{95}, []int16{1})
	require.NoError(t, os.Remove(filepath.Join(outputDir, row.Scene+"_burn_class.img")))

	s := &Summarizer{OutputDir: outputDir, Log: &logging.Logger{}}
	m := &inventory.Manifest{Rows: []inventory.ManifestRow{row}}
	err := s.Run(context.Background(), m, []int{2003})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annual summary 2003")
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Summarizer{OutputDir: t.TempDir(), Log: &logging.Logger{}}
	err := s.Run(ctx, &inventory.Manifest{}, []int{2003})
	assert.ErrorIs(t, err, context.Canceled)
}
