// Package alignment reads alignment intervals: one "start length" pair per
// line, start is 1-based.
package alignment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Interval is a 1-based inclusive region of a sequence covered by alignment.
type Interval struct {
	Start  int
	Length int
}

// End returns last aligned position.
func (iv Interval) End() int {
	return iv.Start + iv.Length - 1
}

// Scanner yields intervals lazily. Blank lines are ignored, lines which
// cannot be parsed are logged and skipped.
type Scanner struct {
	r       *bufio.Reader
	log     *zap.Logger
	iv      Interval
	lines   int
	skipped int
	done    bool
	err     error
}

func NewScanner(r io.Reader, log *zap.Logger) *Scanner {
	return &Scanner{r: bufio.NewReader(r), log: log}
}

// Next advances to the next valid interval. It returns false at the end of
// input or on read error. Lines are not limited in length.
func (s *Scanner) Next() bool {
	for !s.done {
		raw, err := s.r.ReadString('\n')
		if err != nil {
			s.done = true
			if !errors.Is(err, io.EOF) {
				s.err = fmt.Errorf("unable to read alignments: %w", err)
				return false
			}
			if len(raw) == 0 {
				return false
			}
		}
		s.lines++
		line := strings.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}

		iv, err := parseLine(line)
		if err != nil {
			s.skipped++
			s.log.Warn("Skipping invalid line", zap.Int("num", s.lines), zap.String("line", line), zap.Error(err))
			continue
		}
		s.iv = iv
		s.log.Info("Alignment", zap.Int("start", iv.Start), zap.Int("length", iv.Length), zap.Int("end", iv.End()))
		return true
	}
	return false
}

func (s *Scanner) Interval() Interval {
	return s.iv
}

func (s *Scanner) Err() error {
	return s.err
}

// Skipped returns number of non-blank lines which could not be parsed.
func (s *Scanner) Skipped() int {
	return s.skipped
}

func parseLine(line string) (Interval, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Interval{}, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}
	start, err := strconv.Atoi(fields[0])
	if err != nil {
		return Interval{}, fmt.Errorf("bad start: %w", err)
	}
	length, err := strconv.Atoi(fields[1])
	if err != nil {
		return Interval{}, fmt.Errorf("bad length: %w", err)
	}
	return Interval{Start: start, Length: length}, nil
}
