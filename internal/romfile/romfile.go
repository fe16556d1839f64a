// Package romfile loads a ROM image from disk, transparently unpacking a
// single-file .7z archive when the path has that extension. Plain .gb
// images are read as-is.
package romfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/tenfold-systems/dmgcore/internal/coreerr"
)

// Load reads path and returns the raw ROM bytes, unpacking a .7z archive
// and returning the first non-directory file within it; file names inside
// the archive are not inspected.
func Load(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".7z") {
		return loadFromArchive(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coreerr.ErrOpenFile, err)
	}
	return data, nil
}

func loadFromArchive(path string) ([]byte, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coreerr.ErrOpenFile, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", coreerr.ErrOpenFile, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", coreerr.ErrOpenFile, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: archive %s contains no files", coreerr.ErrOpenFile, path)
}
