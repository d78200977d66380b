package inet

// InetAton decodes the lenient dotted notation of INET_ATON into a 32-bit
// integer. One to four decimal groups are accepted and anchored at the most
// significant byte:
//
//	a        -> 0.0.0.a
//	a.b      -> a.0.0.b
//	a.b.c    -> a.b.0.c
//	a.b.c.d  -> a.b.c.d
//
// Each group must be at most 255. Empty groups count as zero ("1..2" is
// 1.0.0.2), but the input may not be empty or end with '.'. There is no
// length limit and no leading-zero check.
func InetAton(b []byte) (uint32, bool) {
	var result uint64
	group := uint64(0)
	dots := 0
	// '.' marks empty input as invalid.
	c := byte('.')
	for _, c = range b {
		switch {
		case c >= '0' && c <= '9':
			group = group*10 + uint64(c-'0')
			if group > 255 {
				return 0, false
			}
		case c == '.':
			dots++
			if dots > 3 {
				return 0, false
			}
			result = result<<8 + group
			group = 0
		default:
			return 0, false
		}
	}
	if c == '.' {
		return 0, false
	}

	switch dots {
	case 1:
		result <<= 16
	case 2:
		result <<= 8
	}
	return uint32(result<<8 + group), true
}

// InetNtoa returns the IPv4 address whose big-endian integer form is n. It
// fails when n does not fit in 32 bits.
func InetNtoa(n uint64) (Addr4, bool) {
	if n > 0xffffffff {
		return Addr4{}, false
	}
	return Addr4FromUint32(uint32(n)), true
}
