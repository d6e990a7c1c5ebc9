package fasta

import (
	"context"
	"io"
	"iter"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// File is a sequence file on disk. It is read from the beginning on every
// Records call and never kept in memory.
type File struct {
	path string
}

// Open checks that sequence file is readable and returns restartable source
// for it.
func Open(path string) (*File, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	if err := rc.Close(); err != nil {
		return nil, err
	}
	return &File{path: path}, nil
}

func (f *File) Path() string {
	return f.path
}

// Records yields records in file order. Open errors are passed through as is,
// parsing errors are reported as *FormatError. Iteration stops after the first
// error.
func (f *File) Records(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		rc, err := openReader(f.path)
		if err != nil {
			yield(Record{}, err)
			return
		}
		defer rc.Close()

		scan(ctx, rc, f.path, yield)
	}
}

func scan(ctx context.Context, r io.Reader, path string, yield func(Record, error) bool) {
	sc := seqio.NewScanner(biofasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		if err := ctx.Err(); err != nil {
			yield(Record{}, err)
			return
		}
		s := sc.Seq().(*linear.Seq)
		if !yield(Record{ID: recordID(s), Seq: letters(s.Seq)}, nil) {
			return
		}
	}
	if err := sc.Error(); err != nil {
		yield(Record{}, &FormatError{Path: path, Err: err})
	}
}

// recordID returns first word of the header. Parser splits header at the very
// first blank, so "> id desc" leaves identifier in the description.
func recordID(s *linear.Seq) string {
	if len(s.ID) != 0 {
		return s.ID
	}
	if f := strings.Fields(s.Desc); len(f) > 0 {
		return f[0]
	}
	return ""
}

func letters(l alphabet.Letters) []byte {
	b := make([]byte, len(l))
	for i, c := range l {
		b[i] = byte(c)
	}
	return b
}
