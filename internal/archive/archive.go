// Package archive bundles the annual burn products into the tile's
// delivery zip.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ErrPackaging reports a failed or empty delivery archive.
var ErrPackaging = errors.New("packaging failed")

// patterns lists the product families that ship in the archive. The
// wildcards pick up the .hdr sidecars alongside the .img payloads.
var patterns = []string{
	"burned_area_*",
	"burn_count_*",
	"good_looks_count_*",
	"max_burn_prob_*",
}

// ZipName returns the delivery archive name for a tile.
func ZipName(path, row int) string {
	return fmt.Sprintf("burned_area_%03d_%03d.zip", path, row)
}

// CreateZip rebuilds the delivery archive in dir and returns its path.
// Any previous archive is removed first so it is neither appended to nor
// swept up by its own product glob.
func CreateZip(dir string, path, row int) (string, error) {
	zipPath := filepath.Join(dir, ZipName(path, row))
	if err := os.Remove(zipPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	var files []string
	for _, pat := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPackaging, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return "", fmt.Errorf("%w: no annual products found in %s", ErrPackaging, dir)
	}

	f, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	zw := zip.NewWriter(f)
	for _, file := range files {
		if err := addFile(zw, file); err != nil {
			zw.Close()
			f.Close()
			os.Remove(zipPath)
			return "", fmt.Errorf("%w: %s: %v", ErrPackaging, file, err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPackaging, err)
	}

	if _, err := os.Stat(zipPath); err != nil {
		return "", fmt.Errorf("%w: archive missing after create: %v", ErrPackaging, err)
	}
	return zipPath, nil
}

// addFile stores one product under its base name.
func addFile(zw *zip.Writer, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return nil
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
