// Package extract cuts unaligned flanks out of sequence records.
package extract

import (
	"unaligned/alignment"
	"unaligned/fasta"
)

// Fragment is an unaligned part of the record. Seq shares memory with the
// record it was cut from.
type Fragment struct {
	ID   string
	Seq  []byte
	Side Side
}

func newFragment(rec fasta.Record, side Side, seq []byte) Fragment {
	return Fragment{ID: rec.ID + "_" + side.String(), Seq: seq, Side: side}
}

// Flanks returns parts of the record before and after the interval, left one
// first. Left flank exists when interval starts past the first position,
// right one when it ends before the last. Bounds are clamped to the record,
// negative end counts from the end of the record.
func Flanks(rec fasta.Record, iv alignment.Interval) []Fragment {
	var (
		out []Fragment
		n   = rec.Len()
	)
	if iv.Start > 1 {
		out = append(out, newFragment(rec, SideLeft, rec.Seq[:min(iv.Start-1, n)]))
	}
	if end := iv.End(); end < n {
		if end < 0 {
			end = max(end+n, 0)
		}
		out = append(out, newFragment(rec, SideRight, rec.Seq[end:]))
	}
	return out
}
