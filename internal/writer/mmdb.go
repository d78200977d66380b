package writer

import (
	"fmt"
	"net/netip"
	"os"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
	"go4.org/netipx"

	"github.com/maxmind/inetconv/internal/config"
)

// MMDBWriter writes converted rows to a MaxMind DB file of one IP version.
type MMDBWriter struct {
	tree     *mmdbwriter.Tree
	columns  []config.Column
	filePath string
}

// NewMMDBWriter creates a new MMDB writer. Rows are flat maps keyed by column
// name; each column's value is stored at its output path.
func NewMMDBWriter(
	outputPath string,
	opts config.MMDB,
	columns []config.Column,
	ipVersion int,
) (*MMDBWriter, error) {
	if ipVersion != 4 && ipVersion != 6 {
		return nil, fmt.Errorf("invalid IP version: %d", ipVersion)
	}

	recordSize := 28
	if opts.RecordSize != nil {
		recordSize = *opts.RecordSize
	}
	includeReserved := true
	if opts.IncludeReservedNetworks != nil {
		includeReserved = *opts.IncludeReservedNetworks
	}

	tree, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType:            opts.DatabaseType,
		Description:             opts.Description,
		RecordSize:              recordSize,
		IPVersion:               ipVersion,
		IncludeReservedNetworks: includeReserved,
		// IPv4-mapped and IPv4-compatible addresses are rows of their own.
		DisableIPv4Aliasing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MMDB tree: %w", err)
	}

	return &MMDBWriter{
		tree:     tree,
		columns:  columns,
		filePath: outputPath,
	}, nil
}

// WriteRow writes a single row with network prefix and column data.
func (w *MMDBWriter) WriteRow(prefix netip.Prefix, data mmdbtype.Map) error {
	nested, err := w.buildNestedData(data)
	if err != nil {
		return fmt.Errorf("building nested data: %w", err)
	}

	if err := w.tree.Insert(netipx.PrefixIPNet(prefix), nested); err != nil {
		return fmt.Errorf("inserting %s: %w", prefix, err)
	}
	return nil
}

// WriteRange writes a range of IP addresses with the same data.
func (w *MMDBWriter) WriteRange(start, end netip.Addr, data mmdbtype.Map) error {
	nested, err := w.buildNestedData(data)
	if err != nil {
		return fmt.Errorf("building nested data: %w", err)
	}

	for _, cidr := range netipx.IPRangeFrom(start, end).Prefixes() {
		if err := w.tree.Insert(netipx.PrefixIPNet(cidr), nested); err != nil {
			return fmt.Errorf("inserting %s: %w", cidr, err)
		}
	}
	return nil
}

// Flush writes the MMDB tree to disk.
func (w *MMDBWriter) Flush() error {
	f, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if _, err := w.tree.WriteTo(f); err != nil {
		_ = f.Close()
		_ = os.Remove(w.filePath)
		return fmt.Errorf("writing MMDB to file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(w.filePath)
		return fmt.Errorf("closing MMDB file: %w", err)
	}
	return nil
}

// buildNestedData places each non-NULL column value at its output path.
func (w *MMDBWriter) buildNestedData(flat mmdbtype.Map) (mmdbtype.Map, error) {
	root := make(mmdbtype.Map, len(flat))
	for _, col := range w.columns {
		value := flat[mmdbtype.String(col.Name)]
		if value == nil {
			continue
		}
		if err := setPath(root, col.Path(), value); err != nil {
			return nil, fmt.Errorf("setting column %s: %w", col.Name, err)
		}
	}
	return root, nil
}

// setPath stores value in root under path, creating intermediate maps. A key
// may hold either a value or a map of further keys, never both.
func setPath(root mmdbtype.Map, path []string, value mmdbtype.DataType) error {
	if len(path) == 0 {
		return fmt.Errorf("empty path for %T value", value)
	}

	current := root
	for _, key := range path[:len(path)-1] {
		k := mmdbtype.String(key)
		existing, ok := current[k]
		if !ok {
			next := mmdbtype.Map{}
			current[k] = next
			current = next
			continue
		}
		next, ok := existing.(mmdbtype.Map)
		if !ok {
			return fmt.Errorf("path conflict at %s: expected map, got %T", key, existing)
		}
		current = next
	}

	last := mmdbtype.String(path[len(path)-1])
	if existing, ok := current[last]; ok {
		return fmt.Errorf(
			"field conflict: key %s already exists (cannot replace %T with %T)",
			last,
			existing,
			value,
		)
	}
	current[last] = value
	return nil
}
