// Package app implements the mascount command.
package app

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/mhr3/mas/dna"
	"github.com/mhr3/mas/internal/fasta"
	"github.com/mhr3/mas/internal/naive"
	"github.com/mhr3/mas/mas"
	"github.com/mhr3/mas/qmas"
	"github.com/mhr3/mas/tmas"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// matcher is what every algorithm offers the command.
type matcher interface {
	Len() int
	CountPadded(buf []byte, n int) (int, error)
	Occurrences(text []byte) (*roaring.Bitmap, error)
}

// naiveMatcher adapts the reference matcher to the matcher interface.
type naiveMatcher struct {
	pattern []byte
}

func (m naiveMatcher) Len() int {
	return len(m.pattern)
}

func (m naiveMatcher) CountPadded(buf []byte, n int) (int, error) {
	if n < 0 || len(buf)-n < len(m.pattern) {
		return 0, fmt.Errorf("naive: %w", mas.ErrShortBuffer)
	}
	return naive.Count(m.pattern, buf[:n]), nil
}

func (m naiveMatcher) Occurrences(text []byte) (*roaring.Bitmap, error) {
	if uint64(len(text)) > math.MaxUint32 {
		return nil, fmt.Errorf("naive: %w: %d bytes", mas.ErrTextTooLarge, len(text))
	}
	bm := roaring.New()
	naive.Each(m.pattern, text, func(i int) { bm.Add(uint32(i)) })
	return bm, nil
}

func compile(algo string, pattern []byte) (matcher, error) {
	switch algo {
	case AlgoMAS:
		return mas.New(pattern)
	case AlgoTMAS:
		return tmas.New(pattern)
	case AlgoQMAS:
		return qmas.New(pattern)
	case AlgoNaive:
		if len(pattern) == 0 {
			return nil, fmt.Errorf("naive: %w", mas.ErrEmptyPattern)
		}
		return naiveMatcher{pattern: pattern}, nil
	}
	return nil, fmt.Errorf("unknown algorithm %q", algo)
}

// Run executes mascount with argv and returns the process exit code.
func Run(argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := NewFlagSet("mascount")
	fs.SetOutput(io.Discard)
	opts, err := ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return ExitOK
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return ExitUsage
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	pattern, err := loadPattern(opts)
	if err != nil {
		log.Error("load pattern", "err", err)
		return ExitFailure
	}

	start := time.Now()
	m, err := compile(opts.Algorithm, pattern)
	pre := time.Since(start)
	if err != nil {
		log.Error("preprocess", "algorithm", opts.Algorithm, "err", err)
		return ExitFailure
	}
	logPlan(log, opts.Algorithm, m, pre)

	for _, path := range opts.Files {
		if err := countFile(outw, log, opts, m, path, pre); err != nil {
			log.Error("search", "file", path, "err", err)
			return ExitFailure
		}
	}
	if err := outw.Flush(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitFailure
	}
	return ExitOK
}

// loadPattern returns the pattern from -p or -pf. A pattern made of bases
// only is upper-cased to match FASTA sequence lines.
func loadPattern(opts Options) ([]byte, error) {
	var pattern []byte
	if opts.PatternFile == "" {
		pattern = []byte(opts.Pattern)
	} else {
		recs, err := fasta.Load(opts.PatternFile, 0)
		if err != nil {
			return nil, err
		}
		pattern = recs[0].Seq
		if recs[0].ID == fasta.RawID {
			pattern = bytes.TrimSpace(pattern)
		}
	}
	if dna.Validate(pattern) == nil {
		pattern = bytes.ToUpper(pattern)
	}
	return pattern, nil
}

func logPlan(log *slog.Logger, algo string, m matcher, pre time.Duration) {
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	args := []any{"algorithm", algo, "m", m.Len(), "elapsed", pre}
	if p, ok := m.(interface {
		Order() []int
		MatchShift() int
	}); ok {
		args = append(args, "first", p.Order()[0], "match_shift", p.MatchShift())
	}
	if c, ok := m.(interface{ Contexts() int }); ok {
		args = append(args, "contexts", c.Contexts())
	}
	log.Debug("preprocessed", args...)
}

func countFile(w io.Writer, log *slog.Logger, opts Options, m matcher, path string, pre time.Duration) error {
	recs, err := fasta.Load(path, m.Len())
	if err != nil {
		return err
	}

	var (
		total   int
		elapsed time.Duration
		hits    = make([]*roaring.Bitmap, len(recs))
	)
	for i, rec := range recs {
		var n int
		start := time.Now()
		if opts.Positions {
			bm, err := m.Occurrences(rec.Seq)
			if err != nil {
				return err
			}
			hits[i] = bm
			n = int(bm.GetCardinality())
		} else {
			n, err = m.CountPadded(rec.Padded(m.Len()), len(rec.Seq))
			if err != nil {
				return err
			}
		}
		elapsed += time.Since(start)
		total += n
		log.Debug("record", "file", path, "id", rec.ID, "len", len(rec.Seq), "count", n)
	}

	line := fmt.Sprintf("%s\t%d", path, total)
	if opts.Time {
		line += fmt.Sprintf("\tpre=%s\tsearch=%s", pre, elapsed)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for i, bm := range hits {
		if bm == nil || bm.IsEmpty() {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", path, recs[i].ID, formatPositions(bm)); err != nil {
			return err
		}
	}
	return nil
}

func formatPositions(bm *roaring.Bitmap) string {
	var buf []byte
	it := bm.Iterator()
	for it.HasNext() {
		if len(buf) > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(it.Next()), 10)
	}
	return string(buf)
}
