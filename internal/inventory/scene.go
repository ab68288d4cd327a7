package inventory

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrParse reports a malformed scene identifier.
var ErrParse = errors.New("unparseable scene identifier")

// SceneID holds the fields encoded at fixed offsets in a Landsat scene
// identifier. For LT50350322002237LGS01: sensor LT5, path 035, row 032,
// year 2002, day-of-year 237. Trailing station/version characters are
// carried in Name but not decoded.
type SceneID struct {
	Name   string
	Sensor string
	Path   int
	Row    int
	Year   int
	DOY    int
}

// minIDLen covers the fields we decode (sensor through day-of-year).
const minIDLen = 16

// ParseSceneID decodes name at fixed offsets. Only length and digit checks
// are applied; sensor codes and ground-station suffixes are passed through.
func ParseSceneID(name string) (SceneID, error) {
	if len(name) < minIDLen {
		return SceneID{}, fmt.Errorf("%w: %q is shorter than %d characters", ErrParse, name, minIDLen)
	}
	path, err := numericField(name, 3, 6, "path")
	if err != nil {
		return SceneID{}, err
	}
	row, err := numericField(name, 6, 9, "row")
	if err != nil {
		return SceneID{}, err
	}
	year, err := numericField(name, 9, 13, "year")
	if err != nil {
		return SceneID{}, err
	}
	doy, err := numericField(name, 13, 16, "day-of-year")
	if err != nil {
		return SceneID{}, err
	}
	return SceneID{
		Name:   name,
		Sensor: name[0:3],
		Path:   path,
		Row:    row,
		Year:   year,
		DOY:    doy,
	}, nil
}

// numericField decodes name[lo:hi] as an unsigned decimal integer.
func numericField(name string, lo, hi int, label string) (int, error) {
	n := 0
	for _, c := range name[lo:hi] {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %s field %q in %q is not numeric", ErrParse, label, name[lo:hi], name)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// SceneFile is one scene-list entry resolved against the stack layout. The
// listed path is the scene's metadata sidecar; band rasters sit alongside
// it, and the resample stage populates the refl/ and mask/ subdirectories.
type SceneFile struct {
	ListPath string // Path as listed (the metadata sidecar).
	Dir      string // Directory containing the scene.
	Base     string // File name without extension (the scene identifier).
	ID       SceneID
}

// NewSceneFile parses one scene-list entry.
func NewSceneFile(entry string) (SceneFile, error) {
	base := filepath.Base(entry)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	id, err := ParseSceneID(base)
	if err != nil {
		return SceneFile{}, err
	}
	return SceneFile{
		ListPath: entry,
		Dir:      filepath.Dir(entry),
		Base:     base,
		ID:       id,
	}, nil
}

// MetadataFile is the scene's XML metadata sidecar (the listed path).
func (s SceneFile) MetadataFile() string { return s.ListPath }

// ReflDir holds the aligned reflectance and index rasters.
func (s SceneFile) ReflDir() string { return filepath.Join(s.Dir, "refl") }

// MaskDir holds the per-scene usability masks.
func (s SceneFile) MaskDir() string { return filepath.Join(s.Dir, "mask") }

// ConfigDir is the shared directory for regression job descriptors.
func (s SceneFile) ConfigDir() string { return filepath.Join(s.Dir, "config") }

// ReflBase is the aligned reflectance base path (no extension); band and
// index raster names hang off it.
func (s SceneFile) ReflBase() string { return filepath.Join(s.ReflDir(), s.Base) }

// MaskFile is the aligned usability mask raster.
func (s SceneFile) MaskFile() string {
	return filepath.Join(s.MaskDir(), s.Base+"_mask.img")
}

// SrcBandFile is the source surface-reflectance raster for band b.
func (s SceneFile) SrcBandFile(b int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_sr_band%d.img", s.Base, b))
}

// SrcQAFile is the source cfmask quality raster.
func (s SceneFile) SrcQAFile() string {
	return filepath.Join(s.Dir, s.Base+"_cfmask.img")
}

// BandFile is the aligned surface-reflectance raster for band b.
func (s SceneFile) BandFile(b int) string {
	return fmt.Sprintf("%s_sr_band%d.img", s.ReflBase(), b)
}

// IndexFile is the aligned spectral index raster (e.g. "nbr").
func (s SceneFile) IndexFile(index string) string {
	return fmt.Sprintf("%s_%s.img", s.ReflBase(), index)
}

// ProbabilityFile is the classifier output raster under outputDir.
func (s SceneFile) ProbabilityFile(outputDir string) string {
	return filepath.Join(outputDir, s.Base+"_burn_probability.img")
}

// ClassFile is the thresholded burn classification raster under outputDir.
func (s SceneFile) ClassFile(outputDir string) string {
	return filepath.Join(outputDir, s.Base+"_burn_class.img")
}
