// Package fasta reads and writes nucleotide sequences in FASTA format.
package fasta

import (
	"context"
	"fmt"
	"iter"
)

// Record is a single named sequence.
type Record struct {
	ID  string
	Seq []byte
}

func (r Record) Len() int {
	return len(r.Seq)
}

// Source produces sequence records. Every call to Records starts from the
// first record again.
type Source interface {
	Records(ctx context.Context) iter.Seq2[Record, error]
}

// FormatError reports sequence file which could not be parsed.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed sequence file %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
