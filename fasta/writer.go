package fasta

import (
	"bufio"
	"io"
)

// Writer emits two line records: header line with identifier and a single
// unwrapped sequence line. Sequence may be empty.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Write(id string, seq []byte) error {
	w.w.WriteByte('>')
	w.w.WriteString(id)
	w.w.WriteByte('\n')
	w.w.Write(seq)
	return w.w.WriteByte('\n')
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}
