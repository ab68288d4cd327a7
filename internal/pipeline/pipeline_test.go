package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/NGenetzky/espa-burned-area/internal/annual"
	"github.com/NGenetzky/espa-burned-area/internal/archive"
	"github.com/NGenetzky/espa-burned-area/internal/config"
	"github.com/NGenetzky/espa-burned-area/internal/inventory"
	"github.com/NGenetzky/espa-burned-area/internal/logging"
	"github.com/NGenetzky/espa-burned-area/internal/raster"
	"github.com/NGenetzky/espa-burned-area/internal/summary"
)

// classifierStub emulates predict_burned_area: it reads OUTPUT_IMG_FILE
// from the job descriptor and writes a 2x2 probability raster there
// (90, 90, 10, 10).
const classifierStub = `#!/bin/sh
cfg=""
while [ $# -gt 0 ]; do
  case "$1" in
    --config_file) cfg="$2"; shift 2 ;;
    *) shift ;;
  esac
done
out=$(sed -n 's/^OUTPUT_IMG_FILE=//p' "$cfg")
printf '\132\000\132\000\012\000\012\000' > "$out"
cat > "${out%.img}.hdr" <<EOF
ENVI
samples = 2
lines = 2
bands = 1
data type = 2
interleave = bsq
byte order = 0
data ignore value = -9999
EOF
`

func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub classifier needs /bin/sh")
	}
	binDir := t.TempDir()
	path := filepath.Join(binDir, "predict_burned_area")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return binDir
}

func writeGrid(t *testing.T, path string, cols, rows int, vals []int16) {
	t.Helper()
	g := raster.New(cols, rows, -9999)
	copy(g.Data, vals)
	if err := g.Write(path); err != nil {
		t.Fatal(err)
	}
}

func writeScene(t *testing.T, inputDir, base string, qa []int16) inventory.SceneFile {
	t.Helper()
	scene, err := inventory.NewSceneFile(filepath.Join(inputDir, base+".xml"))
	if err != nil {
		t.Fatal(err)
	}

	sidecar := `<scene_metadata>
  <global_metadata>
    <acquisition_date>2002-07-20</acquisition_date>
    <correction_level>L1T</correction_level>
    <cloud_cover>10.00</cloud_cover>
    <geometric_rmse>4.00</geometric_rmse>
  </global_metadata>
</scene_metadata>`
	if err := os.WriteFile(scene.MetadataFile(), []byte(sidecar), 0o644); err != nil {
		t.Fatal(err)
	}

	bandVals := map[int]int16{1: 50, 2: 60, 3: 100, 4: 500, 5: 300, 7: 200}
	for _, b := range summary.Bands {
		vals := make([]int16, 4)
		for i := range vals {
			vals[i] = bandVals[b]
		}
		writeGrid(t, scene.SrcBandFile(b), 2, 2, vals)
	}
	writeGrid(t, scene.SrcQAFile(), 2, 2, qa)
	return scene
}

// fixtureConfig lays out a two-year stack (2002 context, 2003 regression
// target), the scene list, the model and the stub classifier.
func fixtureConfig(t *testing.T) (*config.Config, inventory.SceneFile) {
	t.Helper()
	inputDir := t.TempDir()

	a := writeScene(t, inputDir, "LT50350322002201LGS01", []int16{0, 0, 0, 0})
	b := writeScene(t, inputDir, "LT50350322003233LGS01", []int16{0, 0, 4, 255})

	sceneList := filepath.Join(t.TempDir(), "sr_files.txt")
	list := a.ListPath + "\n" + b.ListPath + "\n"
	if err := os.WriteFile(sceneList, []byte(list), 0o644); err != nil {
		t.Fatal(err)
	}

	modelDir := t.TempDir()
	model := filepath.Join(modelDir, "burned_area_model_035_032.xml")
	if err := os.WriteFile(model, []byte("<model/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.SceneList = sceneList
	cfg.InputDir = inputDir
	cfg.OutputDir = t.TempDir()
	cfg.ModelDir = modelDir
	cfg.BinDir = writeStub(t, classifierStub)
	cfg.Workers = 2
	cfg.LogFile = ""
	return &cfg, b
}

func TestRunEndToEnd(t *testing.T) {
	cfg, target := fixtureConfig(t)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	stats := Run(context.Background(), cfg, &logging.Logger{})

	if !stats.OK {
		t.Fatal("expected a successful run")
	}
	if stats.ScenesListed != 2 || stats.ScenesAccepted != 2 {
		t.Errorf("scene counts = %d listed, %d accepted, want 2, 2",
			stats.ScenesListed, stats.ScenesAccepted)
	}
	if stats.RegressionJobs != 1 || stats.FailedJobs != 0 {
		t.Errorf("job counts = %d regression, %d failed, want 1, 0",
			stats.RegressionJobs, stats.FailedJobs)
	}

	if after, err := os.Getwd(); err != nil || after != cwd {
		t.Errorf("working directory = %q, want %q restored", after, cwd)
	}

	// The classification combines stub probabilities (90, 90, 10, 10)
	// with the mask derived from cfmask (clear, clear, cloud, fill).
	class, err := raster.Read(target.ClassFile(cfg.OutputDir))
	if err != nil {
		t.Fatal(err)
	}
	wantClass := []int16{1, 1, -9999, -9999}
	if !int16SliceEqual(class.Data, wantClass) {
		t.Errorf("burn class = %v, want %v", class.Data, wantClass)
	}

	firstDOY, err := raster.Read(annual.BurnedAreaFile(cfg.OutputDir, 2003))
	if err != nil {
		t.Fatal(err)
	}
	wantDOY := []int16{233, 233, 0, 0}
	if !int16SliceEqual(firstDOY.Data, wantDOY) {
		t.Errorf("first-burn DOY = %v, want %v", firstDOY.Data, wantDOY)
	}

	zipPath := filepath.Join(cfg.OutputDir, archive.ZipName(35, 32))
	if _, err := os.Stat(zipPath); err != nil {
		t.Errorf("delivery archive missing: %v", err)
	}

	// Seasonal summaries cover both years even though only 2003 gets
	// burn products.
	if _, err := os.Stat(summary.MaximaFile(cfg.InputDir, 2002, "nbr")); err != nil {
		t.Errorf("annual maxima missing for the context year: %v", err)
	}
}

func TestRunSingleYearStackShortCircuits(t *testing.T) {
	cfg, _ := fixtureConfig(t)

	// Rewrite the list to only the 2002 scene: no regression-eligible
	// scene remains, so the run warns and succeeds after the summaries.
	entries, err := inventory.ReadSceneList(cfg.SceneList)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.SceneList, []byte(entries[0]+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stats := Run(context.Background(), cfg, &logging.Logger{})
	if !stats.OK {
		t.Fatal("expected a warned success")
	}
	if stats.RegressionJobs != 0 {
		t.Errorf("regression jobs = %d, want 0", stats.RegressionJobs)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, archive.ZipName(35, 32))); err == nil {
		t.Error("no delivery archive expected for a single-year stack")
	}
	if _, err := os.Stat(summary.SummaryFile(cfg.InputDir, 2002, inventory.SeasonSummer, "ndvi")); err != nil {
		t.Errorf("seasonal summaries should still be produced: %v", err)
	}
}

func TestRunAllScenesFilteredShortCircuits(t *testing.T) {
	cfg, _ := fixtureConfig(t)
	cfg.MaxCloudCover = 5 // Both fixture scenes report 10% cloud cover.

	stats := Run(context.Background(), cfg, &logging.Logger{})
	if !stats.OK {
		t.Fatal("expected a warned success")
	}
	if stats.ScenesAccepted != 0 {
		t.Errorf("accepted = %d, want 0", stats.ScenesAccepted)
	}
}

func TestRunMissingModel(t *testing.T) {
	cfg, _ := fixtureConfig(t)
	if err := os.Remove(filepath.Join(cfg.ModelDir, "burned_area_model_035_032.xml")); err != nil {
		t.Fatal(err)
	}

	stats := Run(context.Background(), cfg, &logging.Logger{})
	if stats.OK {
		t.Fatal("expected a failed run")
	}
}

func TestRunClassifierFailure(t *testing.T) {
	cfg, _ := fixtureConfig(t)
	cfg.BinDir = writeStub(t, "#!/bin/sh\necho boom >&2\nexit 1\n")

	stats := Run(context.Background(), cfg, &logging.Logger{})
	if stats.OK {
		t.Fatal("expected a failed run")
	}
	if stats.FailedJobs != 1 {
		t.Errorf("failed jobs = %d, want 1", stats.FailedJobs)
	}
}

func TestRunMissingSceneList(t *testing.T) {
	cfg, _ := fixtureConfig(t)
	cfg.SceneList = filepath.Join(t.TempDir(), "absent.txt")

	stats := Run(context.Background(), cfg, &logging.Logger{})
	if stats.OK {
		t.Fatal("expected a failed run")
	}
}

func TestValidatePathsCreatesOutputDir(t *testing.T) {
	cfg, _ := fixtureConfig(t)
	cfg.OutputDir = filepath.Join(t.TempDir(), "fresh", "out")

	if err := validatePaths(cfg, &logging.Logger{}); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(cfg.OutputDir)
	if err != nil || !fi.IsDir() {
		t.Errorf("output dir was not created: %v", err)
	}
}

func TestEnterWorkDirRestore(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	restore, err := enterWorkDir(dir, &logging.Logger{})
	if err != nil {
		t.Fatal(err)
	}
	inside, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if !samePath(t, inside, dir) {
		t.Errorf("working directory = %q, want %q", inside, dir)
	}

	restore()
	after, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if after != cwd {
		t.Errorf("working directory = %q, want %q restored", after, cwd)
	}
}

func int16SliceEqual(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// samePath compares paths after symlink resolution; t.TempDir may sit
// behind a symlinked temp root.
func samePath(t *testing.T, a, b string) bool {
	t.Helper()
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		t.Fatal(err)
	}
	return ra == rb
}
