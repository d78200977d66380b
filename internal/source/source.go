// Package source reads the addresses to convert.
package source

import (
	"bufio"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/maxmind/inetconv/internal/config"
	"github.com/maxmind/inetconv/internal/expr"
	"github.com/maxmind/inetconv/internal/inet"
	"github.com/maxmind/inetconv/internal/mmdb"
	"github.com/maxmind/inetconv/internal/network"
)

// Record is one input value.
type Record struct {
	// Line is the 1-based line or row number, or the network index for MMDB
	// input.
	Line int
	// Display is the input as written to the "input" output column.
	Display string
	Arg     expr.Arg
}

// Source yields records. Iteration stops at the first error.
type Source interface {
	Records() iter.Seq2[Record, error]
	Close() error
}

// Open opens the source described by cfg.
func Open(cfg config.Input) (Source, error) {
	switch cfg.Format {
	case config.FormatLines:
		f, err := os.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening input file: %w", err)
		}
		return &fileSource{f: f, records: Lines(f, cfg.Flavor)}, nil
	case config.FormatCSV:
		f, err := os.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening input file: %w", err)
		}
		return &fileSource{f: f, records: CSV(f, cfg.Column, cfg.Flavor)}, nil
	case config.FormatMMDB:
		r, err := mmdb.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &mmdbSource{reader: r}, nil
	}
	return nil, fmt.Errorf("unsupported input format '%s'", cfg.Format)
}

type fileSource struct {
	f       *os.File
	records iter.Seq2[Record, error]
}

func (s *fileSource) Records() iter.Seq2[Record, error] { return s.records }

func (s *fileSource) Close() error { return s.f.Close() }

// MaxLineLen is the longest line Lines reads in full. A longer line is cut
// to this length and becomes a record no decoder accepts.
const MaxLineLen = 64 * 1024

// Lines yields one record per non-blank line of r. A trailing carriage
// return is removed; other whitespace is kept and is part of the value.
func Lines(r io.Reader, flavor string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		br := bufio.NewReaderSize(r, MaxLineLen)
		line := 0
		for {
			chunk, err := br.ReadSlice('\n')
			text := string(chunk)
			// Drop the rest of an overlong line.
			for errors.Is(err, bufio.ErrBufferFull) {
				_, err = br.ReadSlice('\n')
			}
			if err != nil && !errors.Is(err, io.EOF) {
				yield(Record{}, fmt.Errorf("reading line %d: %w", line+1, err))
				return
			}

			if text != "" {
				line++
				text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
				if text != "" && !yield(newRecord(line, text, flavor), nil) {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}
}

// CSV yields the named column of every row of r. The first row is the
// header.
func CSV(r io.Reader, column, flavor string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		cr := csv.NewReader(r)
		cr.ReuseRecord = true

		header, err := cr.Read()
		if err != nil {
			yield(Record{}, fmt.Errorf("reading CSV header: %w", err))
			return
		}
		idx := -1
		for i, name := range header {
			if name == column {
				idx = i
				break
			}
		}
		if idx < 0 {
			yield(Record{}, fmt.Errorf("CSV header has no column '%s'", column))
			return
		}

		row := 1
		for {
			fields, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			row++
			if err != nil {
				yield(Record{}, fmt.Errorf("reading CSV row %d: %w", row, err))
				return
			}
			if idx >= len(fields) {
				if !yield(Record{Line: row, Arg: expr.NullArg()}, nil) {
					return
				}
				continue
			}
			if !yield(newRecord(row, fields[idx], flavor), nil) {
				return
			}
		}
	}
}

func newRecord(line int, text, flavor string) Record {
	rec := Record{Line: line, Display: text}
	if flavor == config.FlavorHex {
		b, err := hex.DecodeString(text)
		if err != nil {
			rec.Arg = expr.NullArg()
			return rec
		}
		rec.Arg = expr.BinaryArg(b)
		return rec
	}
	rec.Arg = expr.TextArg([]byte(text))
	return rec
}

type mmdbSource struct {
	reader *mmdb.Reader
}

func (s *mmdbSource) Close() error { return s.reader.Close() }

// Records yields the first address of every network with data as a binary
// argument: 4 bytes in an IPv4 database, 16 in an IPv6 one.
func (s *mmdbSource) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		ipv6 := s.reader.IPVersion() == 6
		i := 0
		for result := range s.reader.Networks() {
			if err := result.Err(); err != nil {
				yield(Record{}, fmt.Errorf("iterating networks of '%s': %w", s.reader.Path(), err))
				return
			}
			i++
			addr, ok := network.InetFromAddr(result.Prefix().Addr())
			if !ok {
				continue
			}
			if ipv6 && addr.Is4() {
				// The reader reports ::/96 of an IPv6 tree as IPv4; those rows
				// are IPv4-compatible addresses.
				var a6 inet.Addr6
				a4 := addr.As4()
				copy(a6[12:], a4[:])
				addr = inet.AddrFrom6(a6)
			}
			rec := Record{
				Line:    i,
				Display: addr.String(),
				Arg:     expr.BinaryArg(addr.AppendBinary(nil)),
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
