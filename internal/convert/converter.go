// Package convert evaluates the configured columns for every input value and
// streams the results to an output.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/netip"

	"github.com/maxmind/mmdbwriter/mmdbtype"

	"github.com/maxmind/inetconv/internal/config"
	"github.com/maxmind/inetconv/internal/expr"
	"github.com/maxmind/inetconv/internal/inet"
	"github.com/maxmind/inetconv/internal/network"
	"github.com/maxmind/inetconv/internal/source"
)

// ErrSkipped is wrapped by outputs that decline a record without failing.
var ErrSkipped = errors.New("record skipped")

// Output receives one record and its column values at a time. cells is
// reused between calls. Either Close or Abort ends the output; Abort leaves
// no output files behind.
type Output interface {
	WriteRecord(rec source.Record, cells []mmdbtype.DataType) error
	Close() error
	Abort() error
}

// Stats counts what a conversion did.
type Stats struct {
	// Rows is the number of records read.
	Rows int
	// Rejected is the number of records for which every column is NULL.
	Rejected int
	// Skipped is the number of records not written.
	Skipped int
}

type column struct {
	name string
	fn   expr.Func
	// arg is the index of the column supplying the argument, or -1 for the
	// input value.
	arg int
}

// Converter evaluates columns and writes rows.
type Converter struct {
	columns         []column
	out             Output
	logger          *slog.Logger
	includeRejected bool
	cells           []mmdbtype.DataType
}

// New builds a converter for cfg writing to out. A nil logger discards.
func New(cfg *config.Config, out Output, logger *slog.Logger) (*Converter, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	index := make(map[string]int, len(cfg.Columns))
	columns := make([]column, len(cfg.Columns))
	for i, col := range cfg.Columns {
		fn, err := expr.ParseFunc(col.Function)
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", col.Name, err)
		}
		arg := -1
		if col.Argument != "" {
			j, ok := index[col.Argument]
			if !ok {
				return nil, fmt.Errorf(
					"column '%s': argument '%s' is not an earlier column",
					col.Name,
					col.Argument,
				)
			}
			arg = j
		}
		columns[i] = column{name: col.Name, fn: fn, arg: arg}
		index[col.Name] = i
	}

	includeRejected := true
	if cfg.Output.IncludeRejected != nil {
		includeRejected = *cfg.Output.IncludeRejected
	}

	return &Converter{
		columns:         columns,
		out:             out,
		logger:          logger,
		includeRejected: includeRejected,
		cells:           make([]mmdbtype.DataType, len(columns)),
	}, nil
}

// Eval computes every column for arg. The returned slice is reused by the
// next call.
func (c *Converter) Eval(arg expr.Arg) []mmdbtype.DataType {
	for i, col := range c.columns {
		in := arg
		if col.arg >= 0 {
			in = expr.CellArg(c.cells[col.arg])
		}
		c.cells[i] = expr.Eval(col.fn, in)
	}
	return c.cells
}

// Convert reads records until the sequence ends or fails and writes each one
// to the output. It does not close the output.
func (c *Converter) Convert(records iter.Seq2[source.Record, error]) (Stats, error) {
	var stats Stats
	for rec, err := range records {
		if err != nil {
			return stats, err
		}
		stats.Rows++

		cells := c.Eval(rec.Arg)
		if allNull(cells) {
			stats.Rejected++
			c.logger.Debug(
				"rejected input",
				"line", rec.Line,
				"input", rec.Display,
				"reason", RejectReason(rec.Arg),
			)
			if !c.includeRejected {
				stats.Skipped++
				continue
			}
		}

		if err := c.out.WriteRecord(rec, cells); err != nil {
			if errors.Is(err, ErrSkipped) {
				stats.Skipped++
				c.logger.Debug("skipped input", "line", rec.Line, "input", rec.Display, "reason", err)
				continue
			}
			return stats, fmt.Errorf("writing line %d: %w", rec.Line, err)
		}
	}
	return stats, nil
}

func allNull(cells []mmdbtype.DataType) bool {
	for _, cell := range cells {
		if cell != nil {
			return false
		}
	}
	return true
}

// RecordAddr returns the address an input value denotes: binary values of 4
// or 16 bytes as they are, text decoded the way INET6_ATON does.
func RecordAddr(arg expr.Arg) (netip.Addr, bool) {
	var (
		a  inet.Addr
		ok bool
	)
	switch arg.Kind {
	case expr.Binary:
		a, ok = inet.Inet6Ntoa(inet.BinaryValue(arg.Bytes))
	case expr.Text:
		a, ok = inet.Inet6Aton(arg.Bytes)
	}
	if !ok {
		return netip.Addr{}, false
	}
	return network.AddrFromInet(a), true
}

// RejectReason describes why a record was rejected: why arg is not an
// address, or that it is one no column could use.
func RejectReason(arg expr.Arg) string {
	switch arg.Kind {
	case expr.Null:
		return "NULL input"
	case expr.Binary:
		if n := len(arg.Bytes); n != 4 && n != 16 {
			return fmt.Sprintf("binary value of %d bytes", n)
		}
		return "no column produced a value"
	case expr.Int:
		return "integer input"
	}

	var err error
	if bytes.IndexByte(arg.Bytes, ':') >= 0 {
		_, err = inet.ParseAddr6(arg.Bytes)
	} else {
		_, err = inet.ParseAddr4(arg.Bytes)
	}
	if err == nil {
		return "no column produced a value"
	}
	var de *inet.DecodeError
	if errors.As(err, &de) {
		return de.Reason()
	}
	return err.Error()
}
