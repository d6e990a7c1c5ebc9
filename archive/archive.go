// Package archive gives access to files stored inside zip archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/multierr"
)

// ErrNotFound is returned when requested entry is absent from archive.
var ErrNotFound = errors.New("entry not found in archive")

// member keeps archive open for as long as entry is being read.
type member struct {
	io.ReadCloser
	arc *zip.ReadCloser
}

func (m *member) Close() error {
	return multierr.Append(m.ReadCloser.Close(), m.arc.Close())
}

// Open returns reader for a single regular file inside zip archive. Name is a
// slash separated path relative to the archive root. Closing returned reader
// closes the archive. Names with path traversal components ("..") or
// absolute paths are refused to prevent Zip Slip attacks.
func Open(archive, name string) (io.ReadCloser, error) {
	if !isSafePath(name) {
		return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
	}

	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() || f.FileHeader.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			r.Close()
			return nil, err
		}
		return &member{ReadCloser: rc, arc: r}, nil
	}
	r.Close()
	return nil, fmt.Errorf("%s in %s: %w", name, archive, ErrNotFound)
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
