package inventory

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// MinYear is the earliest acquisition year the workflow accepts. TM data
// before 1984 is not usable for burned area work.
const MinYear = 1984

// ErrYearRange reports a scene year before MinYear or an inverted range.
var ErrYearRange = errors.New("scene year out of range")

// ErrEmptyList reports a scene list with no entries.
var ErrEmptyList = errors.New("scene list is empty")

// Stack is the resolved temporal stack for one path/row tile.
type Stack struct {
	Path      int
	Row       int
	StartYear int
	EndYear   int
	Scenes    []SceneFile
}

// ReadSceneList reads one entry per line from path. Blank lines and
// surrounding whitespace are ignored.
func ReadSceneList(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene list: %w", err)
	}
	var entries []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyList, path)
	}
	return entries, nil
}

// Resolve parses every entry into a Stack. Path and row come from the
// first entry only; later entries never override them. The year range is
// the min/max over all scenes.
func Resolve(entries []string) (*Stack, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyList
	}
	scenes := make([]SceneFile, 0, len(entries))
	for _, e := range entries {
		sf, err := NewSceneFile(e)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sf)
	}

	st := &Stack{
		Path:      scenes[0].ID.Path,
		Row:       scenes[0].ID.Row,
		StartYear: scenes[0].ID.Year,
		EndYear:   scenes[0].ID.Year,
		Scenes:    scenes,
	}
	for _, s := range scenes[1:] {
		if s.ID.Year < st.StartYear {
			st.StartYear = s.ID.Year
		}
		if s.ID.Year > st.EndYear {
			st.EndYear = s.ID.Year
		}
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

// Validate checks the year constraints. Path/row agreement across scenes is
// deliberately not checked; the first entry wins.
func (st *Stack) Validate() error {
	for _, s := range st.Scenes {
		if s.ID.Year < MinYear {
			return fmt.Errorf("%w: %s acquired %d, before %d", ErrYearRange, s.Base, s.ID.Year, MinYear)
		}
	}
	if st.EndYear < st.StartYear {
		return fmt.Errorf("%w: end year %d before start year %d", ErrYearRange, st.EndYear, st.StartYear)
	}
	return nil
}

// RegressionScenes returns the scenes eligible for the classifier: every
// scene acquired after the first stack year. First-year scenes only provide
// prior-year context for the seasonal summaries.
func (st *Stack) RegressionScenes() []SceneFile {
	var out []SceneFile
	for _, s := range st.Scenes {
		if s.ID.Year > st.StartYear {
			out = append(out, s)
		}
	}
	return out
}

// ScenesForYear returns the scenes acquired in year, in list order.
func (st *Stack) ScenesForYear(year int) []SceneFile {
	var out []SceneFile
	for _, s := range st.Scenes {
		if s.ID.Year == year {
			out = append(out, s)
		}
	}
	return out
}

// ProductYears returns the years covered by per-year burn products:
// every stack year after the first.
func (st *Stack) ProductYears() []int {
	var out []int
	for y := st.StartYear + 1; y <= st.EndYear; y++ {
		out = append(out, y)
	}
	return out
}

// AllYears returns every year in the stack range, first year included.
func (st *Stack) AllYears() []int {
	var out []int
	for y := st.StartYear; y <= st.EndYear; y++ {
		out = append(out, y)
	}
	return out
}

// Tile returns the "PPP_RRR" label used in product and archive names.
func (st *Stack) Tile() string {
	return fmt.Sprintf("%03d_%03d", st.Path, st.Row)
}
