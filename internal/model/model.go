// Package model locates the boosted regression model for a path/row tile.
package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound reports a missing model file for the tile.
var ErrNotFound = errors.New("regression model not found")

// Name returns the model file name for a tile. Models are trained and
// published per path/row.
func Name(path, row int) string {
	return fmt.Sprintf("burned_area_model_%03d_%03d.xml", path, row)
}

// Lookup resolves the tile's model file under dir. A missing file is
// ErrNotFound naming the expected path, so operators can see exactly what
// to publish.
func Lookup(dir string, path, row int) (string, error) {
	p := filepath.Join(dir, Name(path, row))
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: expected %s", ErrNotFound, p)
		}
		return "", fmt.Errorf("model: %w", err)
	}
	return p, nil
}
