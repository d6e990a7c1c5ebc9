package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"unaligned/alignment"
	"unaligned/fasta"
	"unaligned/state"
)

type stats struct {
	intervals int
	skipped   int
	visited   int // records, all passes
	fragments int
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("extract")

	input, alignments, output := cmd.String("input"), cmd.String("alignments"), cmd.String("output")

	seqs, err := fasta.Open(input)
	if err != nil {
		return fmt.Errorf("unable to open input sequences: %w", err)
	}
	var src fasta.Source = seqs
	if env.Cfg.Extract.CacheRecords {
		src = fasta.NewCache(seqs)
	}

	af, err := os.Open(alignments)
	if err != nil {
		return fmt.Errorf("unable to open alignments: %w", err)
	}
	defer af.Close()

	// Store inputs for debugging
	if env.Rpt != nil {
		for _, f := range []struct{ name, path string }{{"input", seqs.Path()}, {"alignments", alignments}} {
			if err := env.Rpt.StoreCopy(f.name+"-"+filepath.Base(f.path), f.path); err != nil {
				log.Warn("Unable to store file in report", zap.String("file", f.path), zap.Error(err))
			}
		}
	}

	log.Info("Processing", zap.String("input", seqs.Path()),
		zap.String("alignments", alignments), zap.String("output", output), zap.Bool("cache", env.Cfg.Extract.CacheRecords))

	var st stats
	defer func(start time.Time) {
		if err != nil {
			return
		}
		log.Info("Processing completed",
			zap.Int("intervals", st.intervals),
			zap.Int("skipped", st.skipped),
			zap.Int("records", st.visited),
			zap.Int("fragments", st.fragments),
			zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	of, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("unable to create output: %w", err)
	}
	out := fasta.NewWriter(of)
	defer func() {
		err = multierr.Append(err, out.Flush())
		err = multierr.Append(err, of.Close())
		if env.Rpt != nil {
			env.Rpt.Store("result-"+filepath.Base(output), output)
		}
	}()

	st, err = process(ctx, src, af, out, log)
	return err
}

// process does the actual work independently of CLI framework. For every
// interval it goes over all records of the source writing flanks in order.
func process(ctx context.Context, src fasta.Source, alignments io.Reader, out *fasta.Writer, log *zap.Logger) (st stats, err error) {
	sc := alignment.NewScanner(alignments, log.Named("alignments"))
	defer func() {
		st.skipped = sc.Skipped()
	}()

	for sc.Next() {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		iv := sc.Interval()
		st.intervals++

		for rec, err := range src.Records(ctx) {
			if err != nil {
				return st, err
			}
			st.visited++

			for _, f := range Flanks(rec, iv) {
				if err := out.Write(f.ID, f.Seq); err != nil {
					return st, fmt.Errorf("unable to write fragment %s: %w", f.ID, err)
				}
				st.fragments++
				log.Debug("Fragment extracted", zap.Stringer("side", f.Side), zap.String("id", f.ID))
			}
		}
	}
	return st, sc.Err()
}
