package writer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/maxmind/mmdbwriter/mmdbtype"

	"github.com/maxmind/inetconv/internal/config"
)

// CSVWriter writes one CSV row per input value.
type CSVWriter struct {
	w            *csv.Writer
	includeInput bool
	row          []string
}

// NewCSVWriter writes the header row and returns a writer for the given
// columns.
func NewCSVWriter(out io.Writer, columns []string, includeInput bool) (*CSVWriter, error) {
	w := &CSVWriter{
		w:            csv.NewWriter(out),
		includeInput: includeInput,
	}
	header := make([]string, 0, len(columns)+1)
	if includeInput {
		header = append(header, config.InputColumnName)
	}
	header = append(header, columns...)
	if err := w.w.Write(header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	w.row = make([]string, 0, len(header))
	return w, nil
}

// WriteRecord writes the input text and its column values. NULL values are
// empty fields.
func (w *CSVWriter) WriteRecord(input string, cells []mmdbtype.DataType) error {
	w.row = w.row[:0]
	if w.includeInput {
		w.row = append(w.row, input)
	}
	for _, cell := range cells {
		s, _ := FormatCell(cell)
		w.row = append(w.row, s)
	}
	if err := w.w.Write(w.row); err != nil {
		return fmt.Errorf("writing CSV row: %w", err)
	}
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (w *CSVWriter) Flush() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
