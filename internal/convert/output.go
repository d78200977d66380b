package convert

import (
	"errors"
	"fmt"
	"os"

	"github.com/maxmind/mmdbwriter/mmdbtype"

	"github.com/maxmind/inetconv/internal/config"
	"github.com/maxmind/inetconv/internal/network"
	"github.com/maxmind/inetconv/internal/source"
	"github.com/maxmind/inetconv/internal/writer"
)

// ColumnNames returns the configured column names in order.
func ColumnNames(cfg *config.Config) []string {
	names := make([]string, len(cfg.Columns))
	for i, col := range cfg.Columns {
		names[i] = col.Name
	}
	return names
}

// NewOutput creates the output files described by cfg.
func NewOutput(cfg *config.Config) (Output, error) {
	includeInput := cfg.Output.IncludeInput == nil || *cfg.Output.IncludeInput

	switch cfg.Output.Format {
	case config.FormatCSV, config.FormatParquet:
		f, err := os.Create(cfg.Output.File)
		if err != nil {
			return nil, fmt.Errorf("creating output file: %w", err)
		}
		var table tableWriter
		if cfg.Output.Format == config.FormatCSV {
			table, err = writer.NewCSVWriter(f, ColumnNames(cfg), includeInput)
		} else {
			table, err = writer.NewParquetWriter(f, ColumnNames(cfg), includeInput)
		}
		if err != nil {
			return nil, errors.Join(err, f.Close())
		}
		return &tableOutput{table: table, file: f}, nil

	case config.FormatMMDB:
		return newMMDBOutput(cfg)
	}
	return nil, fmt.Errorf("unsupported output format '%s'", cfg.Output.Format)
}

type tableWriter interface {
	WriteRecord(input string, cells []mmdbtype.DataType) error
	Flush() error
}

// tableOutput writes one row per record to a CSV or Parquet file.
type tableOutput struct {
	table tableWriter
	file  *os.File
}

func (o *tableOutput) WriteRecord(rec source.Record, cells []mmdbtype.DataType) error {
	return o.table.WriteRecord(rec.Display, cells)
}

func (o *tableOutput) Abort() error {
	err := o.file.Close()
	if rerr := os.Remove(o.file.Name()); rerr != nil {
		return errors.Join(err, fmt.Errorf("removing output file: %w", rerr))
	}
	return err
}

func (o *tableOutput) Close() error {
	var err error
	if c, ok := o.table.(interface{ Close() error }); ok {
		err = c.Close()
	} else {
		err = o.table.Flush()
	}
	if cerr := o.file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing output file: %w", cerr)
	}
	return err
}

// mmdbOutput keys each record by its address and writes runs of adjacent
// addresses with equal data to one database per IP version.
type mmdbOutput struct {
	acc   *Accumulator
	rows  *writer.SplitRowWriter
	names []mmdbtype.String
	has4  bool
	has6  bool
}

func newMMDBOutput(cfg *config.Config) (*mmdbOutput, error) {
	var v4, v6 writer.PrefixWriter
	if cfg.Output.IPv4File != "" {
		w, err := writer.NewMMDBWriter(cfg.Output.IPv4File, cfg.Output.MMDB, cfg.Columns, 4)
		if err != nil {
			return nil, fmt.Errorf("creating IPv4 writer: %w", err)
		}
		v4 = w
	}
	if cfg.Output.IPv6File != "" {
		w, err := writer.NewMMDBWriter(cfg.Output.IPv6File, cfg.Output.MMDB, cfg.Columns, 6)
		if err != nil {
			return nil, fmt.Errorf("creating IPv6 writer: %w", err)
		}
		v6 = w
	}

	rows := writer.NewSplitRowWriter(v4, v6)
	names := make([]mmdbtype.String, len(cfg.Columns))
	for i, col := range cfg.Columns {
		names[i] = mmdbtype.String(col.Name)
	}
	includeEmpty := cfg.Output.IncludeRejected == nil || *cfg.Output.IncludeRejected

	return &mmdbOutput{
		acc:   NewAccumulator(rows, includeEmpty),
		rows:  rows,
		names: names,
		has4:  v4 != nil,
		has6:  v6 != nil,
	}, nil
}

func (o *mmdbOutput) WriteRecord(rec source.Record, cells []mmdbtype.DataType) error {
	addr, ok := RecordAddr(rec.Arg)
	if !ok {
		return fmt.Errorf("%w: not an address", ErrSkipped)
	}
	if addr.Is4() && !o.has4 {
		return fmt.Errorf("%w: no IPv4 output file", ErrSkipped)
	}
	if addr.Is6() && !o.has6 {
		return fmt.Errorf("%w: no IPv6 output file", ErrSkipped)
	}

	data := make(mmdbtype.Map, len(cells))
	for i, cell := range cells {
		if cell != nil {
			data[o.names[i]] = cell
		}
	}
	return o.acc.Process(network.HostPrefix(addr), data)
}

// Abort discards the trees. The database files are only created by Close.
func (o *mmdbOutput) Abort() error {
	return nil
}

func (o *mmdbOutput) Close() error {
	if err := o.acc.Flush(); err != nil {
		return err
	}
	return o.rows.Flush()
}
