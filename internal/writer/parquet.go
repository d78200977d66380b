package writer

import (
	"fmt"
	"io"

	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/parquet-go/parquet-go"

	"github.com/maxmind/inetconv/internal/config"
)

// parquetBatchSize is the number of rows buffered before they are handed to
// the parquet writer.
const parquetBatchSize = 1024

// ParquetWriter writes one Parquet row per input value. Every configured
// column is an optional string column; NULL is a Parquet null.
type ParquetWriter struct {
	w            *parquet.Writer
	includeInput bool
	inputIndex   int
	indexes      []int
	width        int
	rows         []parquet.Row
}

// NewParquetWriter returns a writer for the given columns. Close must be
// called to write the file footer.
func NewParquetWriter(out io.Writer, columns []string, includeInput bool) (*ParquetWriter, error) {
	group := make(parquet.Group, len(columns)+1)
	if includeInput {
		group[config.InputColumnName] = parquet.String()
	}
	for _, name := range columns {
		group[name] = parquet.Optional(parquet.String())
	}
	schema := parquet.NewSchema("inetconv", group)

	// Leaf order follows the schema, which sorts fields by name.
	lookup := func(name string) (int, error) {
		leaf, ok := schema.Lookup(name)
		if !ok {
			return 0, fmt.Errorf("column '%s' missing from Parquet schema", name)
		}
		return leaf.ColumnIndex, nil
	}

	w := &ParquetWriter{
		includeInput: includeInput,
		indexes:      make([]int, len(columns)),
		width:        len(group),
	}
	if includeInput {
		idx, err := lookup(config.InputColumnName)
		if err != nil {
			return nil, err
		}
		w.inputIndex = idx
	}
	for i, name := range columns {
		idx, err := lookup(name)
		if err != nil {
			return nil, err
		}
		w.indexes[i] = idx
	}

	w.w = parquet.NewWriter(out, schema, parquet.Compression(&parquet.Zstd))
	return w, nil
}

// WriteRecord buffers the input text and its column values.
func (w *ParquetWriter) WriteRecord(input string, cells []mmdbtype.DataType) error {
	if len(cells) != len(w.indexes) {
		return fmt.Errorf("got %d values for %d columns", len(cells), len(w.indexes))
	}

	row := make(parquet.Row, w.width)
	if w.includeInput {
		row[w.inputIndex] = parquet.ByteArrayValue([]byte(input)).Level(0, 0, w.inputIndex)
	}
	for i, cell := range cells {
		idx := w.indexes[i]
		s, ok := FormatCell(cell)
		if !ok {
			row[idx] = parquet.NullValue().Level(0, 0, idx)
			continue
		}
		row[idx] = parquet.ByteArrayValue([]byte(s)).Level(0, 1, idx)
	}

	w.rows = append(w.rows, row)
	if len(w.rows) >= parquetBatchSize {
		return w.Flush()
	}
	return nil
}

// Flush hands buffered rows to the parquet writer.
func (w *ParquetWriter) Flush() error {
	if len(w.rows) == 0 {
		return nil
	}
	if _, err := w.w.WriteRows(w.rows); err != nil {
		return fmt.Errorf("writing Parquet rows: %w", err)
	}
	w.rows = w.rows[:0]
	return nil
}

// Close flushes buffered rows and writes the file footer.
func (w *ParquetWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if err := w.w.Close(); err != nil {
		return fmt.Errorf("closing Parquet writer: %w", err)
	}
	return nil
}
