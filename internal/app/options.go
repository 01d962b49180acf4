package app

import (
	"errors"
	"flag"
	"fmt"
)

// Algorithm names accepted by -a.
const (
	AlgoMAS   = "mas"
	AlgoTMAS  = "tmas"
	AlgoQMAS  = "4qmas"
	AlgoNaive = "naive"
)

// Options holds the command line.
type Options struct {
	Algorithm   string
	Pattern     string
	PatternFile string
	Files       []string

	Positions bool
	Time      bool
	Verbose   bool
}

// NewFlagSet returns a FlagSet with the mascount usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `%s: count exact occurrences of a pattern in sequence files

Usage: %s [-a mas|tmas|4qmas|naive] (-p PATTERN | -pf FILE) [-positions] [-time] [-v] FILE...

FILE may be FASTA, raw text, gzip-compressed, or '-' for stdin.

`, name, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers the flags on fs, parses argv and validates the result.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	fs.StringVar(&opt.Algorithm, "a", AlgoMAS, "algorithm: mas | tmas | 4qmas | naive")
	fs.StringVar(&opt.Pattern, "p", "", "pattern")
	fs.StringVar(&opt.PatternFile, "pf", "", "read the pattern from a FASTA or raw file")
	fs.BoolVar(&opt.Positions, "positions", false, "print occurrence offsets per record")
	fs.BoolVar(&opt.Time, "time", false, "print preprocessing and search times")
	fs.BoolVar(&opt.Verbose, "v", false, "debug logging on stderr")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	opt.Files = fs.Args()

	switch opt.Algorithm {
	case AlgoMAS, AlgoTMAS, AlgoQMAS, AlgoNaive:
	default:
		return opt, fmt.Errorf("invalid -a %q", opt.Algorithm)
	}
	switch {
	case opt.Pattern != "" && opt.PatternFile != "":
		return opt, errors.New("-p conflicts with -pf")
	case opt.Pattern == "" && opt.PatternFile == "":
		return opt, errors.New("provide -p or -pf")
	}
	if len(opt.Files) == 0 {
		return opt, errors.New("at least one FILE is required")
	}
	return opt, nil
}
