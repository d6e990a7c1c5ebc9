package fasta

import (
	"context"
	"iter"
)

// Cache keeps records of the underlying source in memory after the first
// complete pass. Incomplete passes (error or early stop) are discarded and
// the next pass goes to the source again.
type Cache struct {
	src     Source
	records []Record
	loaded  bool
}

func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

func (c *Cache) Records(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		if c.loaded {
			for _, rec := range c.records {
				if err := ctx.Err(); err != nil {
					yield(Record{}, err)
					return
				}
				if !yield(rec, nil) {
					return
				}
			}
			return
		}

		var records []Record
		for rec, err := range c.src.Records(ctx) {
			if err != nil {
				yield(Record{}, err)
				return
			}
			records = append(records, rec)
			if !yield(rec, nil) {
				return
			}
		}
		c.records, c.loaded = records, true
	}
}
