// Package network converts between inet addresses and net/netip values.
package network

import (
	"net/netip"

	"github.com/maxmind/inetconv/internal/inet"
)

// AddrFromInet converts a 4- or 16-byte inet address to a netip.Addr. The
// zero inet.Addr yields the invalid netip.Addr.
func AddrFromInet(a inet.Addr) netip.Addr {
	switch {
	case a.Is4():
		return netip.AddrFrom4(a.As4())
	case a.Is6():
		return netip.AddrFrom16(a.As6())
	}
	return netip.Addr{}
}

// InetFromAddr converts a netip.Addr to an inet address, keeping its width:
// IPv4 stays 4 bytes and IPv4-mapped IPv6 stays 16. The zone is dropped.
func InetFromAddr(addr netip.Addr) (inet.Addr, bool) {
	switch {
	case addr.Is4():
		return inet.AddrFrom4(addr.As4()), true
	case addr.Is6():
		return inet.AddrFrom6(addr.As16()), true
	}
	return inet.Addr{}, false
}

// HostPrefix returns the single-address prefix of addr: /32 for IPv4 and
// /128 for IPv6.
func HostPrefix(addr netip.Addr) netip.Prefix {
	return netip.PrefixFrom(addr, addr.BitLen())
}

// IsAdjacent checks if two IP addresses are consecutive (no gap between them).
func IsAdjacent(endIP, startIP netip.Addr) bool {
	if endIP.Is4() != startIP.Is4() {
		return false
	}
	return endIP.Next() == startIP
}
