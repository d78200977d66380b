package convert

import (
	"fmt"
	"net/netip"

	"github.com/maxmind/mmdbwriter/mmdbtype"
	"go4.org/netipx"

	"github.com/maxmind/inetconv/internal/network"
)

// AccumulatedRange is a run of consecutive addresses sharing one data map.
type AccumulatedRange struct {
	StartIP netip.Addr
	EndIP   netip.Addr
	Data    mmdbtype.Map // column name -> value
}

// RowWriter defines the interface for writing output rows.
type RowWriter interface {
	WriteRow(prefix netip.Prefix, data mmdbtype.Map) error
}

// RangeRowWriter can accept full start/end ranges instead of prefixes.
type RangeRowWriter interface {
	WriteRange(start, end netip.Addr, data mmdbtype.Map) error
}

// Accumulator joins networks that arrive in ascending, adjacent order with
// identical data and writes each run once. Only the current run is held in
// memory; input that is not sorted still converts, just with less merging.
type Accumulator struct {
	current          *AccumulatedRange
	writer           RowWriter
	includeEmptyRows bool
}

// NewAccumulator creates a new streaming accumulator. Rows without data are
// dropped unless includeEmptyRows is set.
func NewAccumulator(writer RowWriter, includeEmptyRows bool) *Accumulator {
	return &Accumulator{
		writer:           writer,
		includeEmptyRows: includeEmptyRows,
	}
}

// Process extends the current run with prefix when it directly follows the
// run and carries equal data. Otherwise the run is flushed and a new one
// starts.
func (a *Accumulator) Process(prefix netip.Prefix, data mmdbtype.Map) error {
	if !a.includeEmptyRows && len(data) == 0 {
		return nil
	}

	start := prefix.Masked().Addr()
	end := netipx.PrefixLastIP(prefix)

	if a.current != nil &&
		network.IsAdjacent(a.current.EndIP, start) &&
		a.current.Data.Equal(data) {
		a.current.EndIP = end
		return nil
	}

	if err := a.Flush(); err != nil {
		return err
	}
	a.current = &AccumulatedRange{
		StartIP: start,
		EndIP:   end,
		Data:    data,
	}
	return nil
}

// Flush writes the current run, as a range when the writer takes ranges and
// as covering CIDRs otherwise.
func (a *Accumulator) Flush() error {
	if a.current == nil {
		return nil
	}
	cur := a.current
	a.current = nil

	if rw, ok := a.writer.(RangeRowWriter); ok {
		if err := rw.WriteRange(cur.StartIP, cur.EndIP, cur.Data); err != nil {
			return fmt.Errorf("writing range %s-%s: %w", cur.StartIP, cur.EndIP, err)
		}
		return nil
	}

	for _, cidr := range netipx.IPRangeFrom(cur.StartIP, cur.EndIP).Prefixes() {
		if err := a.writer.WriteRow(cidr, cur.Data); err != nil {
			return fmt.Errorf("writing row for %s: %w", cidr, err)
		}
	}
	return nil
}
