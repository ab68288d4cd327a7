package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonForDOY(t *testing.T) {
	tests := []struct {
		doy  int
		want Season
	}{
		{1, SeasonWinter},
		{59, SeasonWinter},
		{60, SeasonSpring},
		{151, SeasonSpring},
		{152, SeasonSummer},
		{243, SeasonSummer},
		{244, SeasonFall},
		{334, SeasonFall},
		{335, SeasonWinter},
		{366, SeasonWinter},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeasonForDOY(tt.doy), "doy %d", tt.doy)
	}
}

func TestManifest_WriteRead(t *testing.T) {
	m := &Manifest{Rows: []ManifestRow{
		{
			Scene: "LT50350322002237LGS01", File: "/stack/LT50350322002237LGS01.xml",
			Sensor: "LT5", Path: 35, Row: 32, Year: 2002, DOY: 237,
			Season: SeasonSummer, Level: "L1T", CloudCover: 12.5, RMSE: 4.25,
		},
		{
			Scene: "LE70350322003245EDC00", File: "/stack/LE70350322003245EDC00.xml",
			Sensor: "LE7", Path: 35, Row: 32, Year: 2003, DOY: 245,
			Season: SeasonFall, Level: "L1T", CloudCover: 0, RMSE: 6,
		},
	}}

	path := filepath.Join(t.TempDir(), "input_stack.csv")
	require.NoError(t, m.WriteCSV(path))

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.Rows, got.Rows)
}

func TestManifest_RowsForYear(t *testing.T) {
	m := &Manifest{Rows: []ManifestRow{
		{Scene: "a", Year: 2002},
		{Scene: "b", Year: 2003},
		{Scene: "c", Year: 2002},
	}}
	rows := m.RowsForYear(2002)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Scene)
	assert.Equal(t, "c", rows[1].Scene)
	assert.Empty(t, m.RowsForYear(1999))
}

func TestReadManifest_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadManifest(filepath.Join(dir, "absent.csv"))
		assert.Error(t, err)
	})

	t.Run("wrong header", func(t *testing.T) {
		path := filepath.Join(dir, "bad.csv")
		bad := "a,b,c,d,e,f,g,h,i,j,k\n"
		require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))
		_, err := ReadManifest(path)
		assert.ErrorContains(t, err, "unexpected header")
	})
}
