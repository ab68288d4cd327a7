package inventory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSceneID(t *testing.T) {
	tests := []struct {
		name  string
		scene string
		want  SceneID
	}{
		{
			name:  "TM scene",
			scene: "LT50350322002237LGS01",
			want:  SceneID{Name: "LT50350322002237LGS01", Sensor: "LT5", Path: 35, Row: 32, Year: 2002, DOY: 237},
		},
		{
			name:  "ETM+ scene",
			scene: "LE70350322003245EDC00",
			want:  SceneID{Name: "LE70350322003245EDC00", Sensor: "LE7", Path: 35, Row: 32, Year: 2003, DOY: 245},
		},
		{
			name:  "minimum length without station suffix",
			scene: "LT50350321999001",
			want:  SceneID{Name: "LT50350321999001", Sensor: "LT5", Path: 35, Row: 32, Year: 1999, DOY: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSceneID(tt.scene)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSceneID_Errors(t *testing.T) {
	tests := []struct {
		name  string
		scene string
	}{
		{"empty", ""},
		{"too short", "LT5035032"},
		{"one short of day-of-year", "LT5035032200223"},
		{"path not numeric", "LT5O350322002237LGS01"},
		{"row not numeric", "LT5035O322002237LGS01"},
		{"year not numeric", "LT5035032200Z237LGS01"},
		{"day-of-year not numeric", "LT503503220022x7LGS01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSceneID(tt.scene)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestNewSceneFile_Layout(t *testing.T) {
	entry := "/data/p035r032/LT50350322002237LGS01.xml"
	s, err := NewSceneFile(entry)
	require.NoError(t, err)

	assert.Equal(t, entry, s.ListPath)
	assert.Equal(t, "/data/p035r032", s.Dir)
	assert.Equal(t, "LT50350322002237LGS01", s.Base)
	assert.Equal(t, 2002, s.ID.Year)

	assert.Equal(t, filepath.Join(s.Dir, "refl", s.Base), s.ReflBase())
	assert.Equal(t, filepath.Join(s.Dir, "config"), s.ConfigDir())
	assert.Equal(t, filepath.Join(s.Dir, "mask", s.Base+"_mask.img"), s.MaskFile())
	assert.Equal(t, filepath.Join(s.Dir, s.Base+"_sr_band4.img"), s.SrcBandFile(4))
	assert.Equal(t, filepath.Join(s.Dir, s.Base+"_cfmask.img"), s.SrcQAFile())
	assert.Equal(t, filepath.Join(s.Dir, "refl", s.Base+"_sr_band7.img"), s.BandFile(7))
	assert.Equal(t, filepath.Join(s.Dir, "refl", s.Base+"_nbr.img"), s.IndexFile("nbr"))
	assert.Equal(t, "/out/LT50350322002237LGS01_burn_probability.img", s.ProbabilityFile("/out"))
	assert.Equal(t, "/out/LT50350322002237LGS01_burn_class.img", s.ClassFile("/out"))
}

func TestNewSceneFile_BadName(t *testing.T) {
	_, err := NewSceneFile("/data/notes.txt")
	assert.ErrorIs(t, err, ErrParse)
}
