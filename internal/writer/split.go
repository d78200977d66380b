// Package writer renders converted rows as CSV, Parquet or MaxMind DB files.
package writer

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/maxmind/mmdbwriter/mmdbtype"
	"go4.org/netipx"
)

// PrefixWriter accepts one network at a time.
type PrefixWriter interface {
	WriteRow(netip.Prefix, mmdbtype.Map) error
}

type rangeWriter interface {
	WriteRange(start, end netip.Addr, data mmdbtype.Map) error
}

type flusher interface {
	Flush() error
}

// SplitRowWriter routes networks to an IPv4 or IPv6 writer. Either may be
// nil, in which case networks of that family are an error.
type SplitRowWriter struct {
	ipv4 PrefixWriter
	ipv6 PrefixWriter
}

// NewSplitRowWriter constructs a row writer that dispatches rows by IP version.
func NewSplitRowWriter(ipv4, ipv6 PrefixWriter) *SplitRowWriter {
	return &SplitRowWriter{ipv4: ipv4, ipv6: ipv6}
}

func (s *SplitRowWriter) target(addr netip.Addr) (PrefixWriter, string, error) {
	if addr.Is4() {
		if s.ipv4 == nil {
			return nil, "", errors.New("no IPv4 writer configured")
		}
		return s.ipv4, "IPv4", nil
	}
	if s.ipv6 == nil {
		return nil, "", errors.New("no IPv6 writer configured")
	}
	return s.ipv6, "IPv6", nil
}

// WriteRow writes the row to the underlying IPv4 or IPv6 writer.
func (s *SplitRowWriter) WriteRow(prefix netip.Prefix, data mmdbtype.Map) error {
	w, _, err := s.target(prefix.Addr())
	if err != nil {
		return err
	}
	return w.WriteRow(prefix, data)
}

// WriteRange writes an address range to the writer for its family. The
// range is handed over whole when that writer takes ranges and is otherwise
// split into CIDRs.
func (s *SplitRowWriter) WriteRange(start, end netip.Addr, data mmdbtype.Map) error {
	if start.Is4() != end.Is4() {
		return fmt.Errorf("range %s-%s mixes IP versions", start, end)
	}
	w, family, err := s.target(start)
	if err != nil {
		return err
	}
	if rw, ok := w.(rangeWriter); ok {
		if err := rw.WriteRange(start, end, data); err != nil {
			return fmt.Errorf("writing %s range to underlying writer: %w", family, err)
		}
		return nil
	}
	for _, cidr := range netipx.IPRangeFrom(start, end).Prefixes() {
		if err := w.WriteRow(cidr, data); err != nil {
			return fmt.Errorf("writing %s CIDR %s: %w", family, cidr, err)
		}
	}
	return nil
}

// Flush flushes both underlying writers when supported.
func (s *SplitRowWriter) Flush() error {
	if f, ok := s.ipv4.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flushing IPv4 writer: %w", err)
		}
	}
	if f, ok := s.ipv6.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flushing IPv6 writer: %w", err)
		}
	}
	return nil
}
