// Package fasta loads search texts: FASTA files, whose headers and line
// breaks are dropped, or raw files taken byte for byte.
package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// RawID is the ID of the single record read from a non-FASTA input.
const RawID = "raw"

// Record is one sequence. Seq has at least the slack requested from Read as
// spare capacity, so Padded never reallocates for that amount.
type Record struct {
	ID  string
	Seq []byte
}

// Padded returns Seq extended by n bytes of slack, reallocating only if the
// spare capacity is too small. The slack contents are unspecified.
func (r Record) Padded(n int) []byte {
	if cap(r.Seq)-len(r.Seq) >= n {
		return r.Seq[:len(r.Seq)+n]
	}
	buf := make([]byte, len(r.Seq)+n)
	copy(buf, r.Seq)
	return buf
}

// Load reads every record of the file at path. See Open for path handling.
func Load(path string, slack int) ([]Record, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	recs, err := Read(rc, slack)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Read parses r. Input starting with '>' is FASTA: sequence lines are
// trimmed and upper-cased, one record per header. Any other input is a
// single raw record holding the bytes unchanged.
func Read(r io.Reader, slack int) ([]Record, error) {
	if slack < 0 {
		slack = 0
	}
	br := bufio.NewReaderSize(r, 64*1024)
	first, err := br.Peek(1)
	switch {
	case errors.Is(err, io.EOF):
		return []Record{{ID: RawID, Seq: make([]byte, 0, slack)}}, nil
	case err != nil:
		return nil, err
	case first[0] != '>':
		return readRaw(br, slack)
	}
	return readFASTA(br, slack)
}

func readRaw(r io.Reader, slack int) ([]Record, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	seq := make([]byte, buf.Len(), buf.Len()+slack)
	copy(seq, buf.Bytes())
	return []Record{{ID: RawID, Seq: seq}}, nil
}

func readFASTA(r *bufio.Reader, slack int) ([]Record, error) {
	var (
		recs    []Record
		id      string
		started bool
		seq     = make([]byte, 0, 1<<20)
	)
	flush := func() {
		out := make([]byte, len(seq), len(seq)+slack)
		copy(out, seq)
		recs = append(recs, Record{ID: id, Seq: out})
		seq = seq[:0]
	}
	for {
		line, err := r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("fasta scan: %w", err)
		}
		eof := err != nil
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0:
		case line[0] == '>':
			if started {
				flush()
			}
			id, started = headerID(line[1:]), true
		default:
			seq = append(seq, bytes.ToUpper(line)...)
		}
		if eof {
			break
		}
	}
	flush()
	return recs, nil
}

// headerID returns the first word of a header line, or the whole line if it
// has none.
func headerID(h []byte) string {
	if f := bytes.Fields(h); len(f) > 0 {
		return string(f[0])
	}
	return string(h)
}
