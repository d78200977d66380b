// Package mmdb wraps a MaxMind DB reader for use as an address source.
package mmdb

import (
	"fmt"
	"iter"

	"github.com/oschwald/maxminddb-golang/v2"
)

// Reader wraps a maxminddb.Reader with additional functionality.
type Reader struct {
	reader *maxminddb.Reader
	path   string
}

// Open opens an MMDB database file.
func Open(path string) (*Reader, error) {
	reader, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening MMDB file '%s': %w", path, err)
	}

	return &Reader{
		reader: reader,
		path:   path,
	}, nil
}

// Close closes the MMDB database.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		return fmt.Errorf("closing MMDB reader: %w", err)
	}
	return nil
}

// Path returns the file the reader was opened from.
func (r *Reader) Path() string {
	return r.path
}

// Networks returns an iterator over all networks in the database.
func (r *Reader) Networks(options ...maxminddb.NetworksOption) iter.Seq[maxminddb.Result] {
	return r.reader.Networks(options...)
}

// IPVersion returns 4 or 6, the address family of the database tree.
func (r *Reader) IPVersion() int {
	return int(r.reader.Metadata.IPVersion)
}
