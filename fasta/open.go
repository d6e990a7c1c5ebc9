package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/multierr"

	"unaligned/archive"
)

// enough for any matcher filetype knows about
const sniffLen = 262

// readCloser closes all underlying closers in order.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() (err error) {
	for _, c := range r.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// openReader opens sequence file transparently decompressing gzip content
// (detected by magic number, not by extension).
func openReader(name string) (io.ReadCloser, error) {
	rc, err := openSource(name)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(rc)
	head, _ := br.Peek(sniffLen)
	if !filetype.Is(head, "gz") {
		return &readCloser{Reader: br, closers: []io.Closer{rc}}, nil
	}

	gr, err := gzip.NewReader(br)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return &readCloser{Reader: gr, closers: []io.Closer{gr, rc}}, nil
}

// openSource opens regular file. When name does not exist but one of its
// parent components is a zip archive the remainder of the name is treated as
// path inside that archive: "contigs.zip/assembly/b.fa".
func openSource(name string) (io.ReadCloser, error) {
	f, openErr := os.Open(name)
	if openErr == nil {
		return f, nil
	}

	var inner string
	for head := filepath.Clean(name); ; {
		dir, file := filepath.Split(head)
		dir = strings.TrimSuffix(dir, string(filepath.Separator))
		if len(dir) == 0 || len(file) == 0 {
			break
		}
		inner = path.Join(file, inner)
		head = dir

		fi, err := os.Stat(head)
		if err != nil {
			continue
		}
		if fi.Mode().IsRegular() && isZip(head) {
			return archive.Open(head, inner)
		}
		break
	}
	return nil, openErr
}

func isZip(name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, _ := io.ReadFull(f, head)
	return filetype.Is(head[:n], "zip")
}
