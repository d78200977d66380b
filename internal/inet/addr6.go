package inet

import (
	"bytes"
	"strconv"
)

const (
	// MaxText6Len is the size of a buffer that always holds the text form of
	// an Addr6, including room for a C-style terminator.
	MaxText6Len = 46

	minText6Len = 2 // "::"
	// Eight groups of four digits plus seven separators. The abbreviated
	// syntax is shorter.
	maxText6Len = 8*4 + 7

	numWords = 8
)

// Addr6 is an IPv6 address in network byte order.
type Addr6 [16]byte

var (
	// Addr6Min is the smallest Addr6, "::".
	Addr6Min = Addr6{}
	// Addr6Max is the largest Addr6, "ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff".
	Addr6Max = Addr6{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}
)

// ParseAddr6 decodes the RFC 4291 text form: up to eight groups of one to four
// hex digits separated by ':', at most one "::" standing for a run of zero
// groups, and an optional dotted-quad tail in the last 32 bits. Zone ids are
// not supported. The length of b is authoritative; a NUL byte inside it is an
// invalid character.
func ParseAddr6(b []byte) (Addr6, error) {
	if len(b) < minText6Len {
		return Addr6{}, errV6TooShort
	}
	if len(b) > maxText6Len {
		return Addr6{}, errV6TooLong
	}

	var a Addr6
	i := 0
	if b[0] == ':' {
		i++
		if b[i] != ':' {
			return Addr6{}, errV6LeadingColon
		}
	}

	dst := 0
	gap := -1
	groupStart := i
	digits, value := 0, 0

scan:
	for i < len(b) {
		c := b[i]
		i++

		switch c {
		case ':':
			groupStart = i
			if digits == 0 {
				if gap >= 0 {
					return Addr6{}, errV6TooManyGaps
				}
				gap = dst
				continue
			}
			if i >= len(b) {
				return Addr6{}, errV6TrailingColon
			}
			if dst+2 > len(a) {
				return Addr6{}, errV6TooManyGroups
			}
			a[dst] = byte(value >> 8)
			a[dst+1] = byte(value)
			dst += 2
			digits, value = 0, 0

		case '.':
			if dst+4 > len(a) {
				return Addr6{}, errV6UnexpectedV4
			}
			v4, err := ParseAddr4(b[groupStart:])
			if err != nil {
				return Addr6{}, errV6InvalidV4
			}
			copy(a[dst:], v4[:])
			dst += 4
			digits = 0
			break scan

		default:
			h, ok := hexValue(c)
			if !ok {
				return Addr6{}, errV6InvalidChar
			}
			if digits >= 4 {
				return Addr6{}, errV6GroupDigits
			}
			value = value<<4 | h
			digits++
		}
	}

	if digits > 0 {
		if dst+2 > len(a) {
			return Addr6{}, errV6TooManyGroups
		}
		a[dst] = byte(value >> 8)
		a[dst+1] = byte(value)
		dst += 2
	}

	if gap >= 0 {
		if dst == len(a) {
			return Addr6{}, errV6NoRoomForGap
		}
		// Move the groups written after the gap to the end of the address
		// and zero what they leave behind.
		n := dst - gap
		copy(a[len(a)-n:], a[gap:dst])
		clear(a[gap : len(a)-n])
		dst = len(a)
	}

	if dst < len(a) {
		return Addr6{}, errV6TooFewGroups
	}
	return a, nil
}

func hexValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// Addr6FromSlice returns the address held in a 16-byte binary string.
func Addr6FromSlice(b []byte) (Addr6, bool) {
	if len(b) != 16 {
		return Addr6{}, false
	}
	return Addr6(b), true
}

func (a Addr6) word(i int) uint16 {
	return uint16(a[2*i])<<8 | uint16(a[2*i+1])
}

// zeroRun returns the position and length of the longest run of zero words,
// the leftmost one on ties. pos is -1 when a has no zero word.
func (a Addr6) zeroRun() (pos, length int) {
	pos, length = -1, 0
	cur, curLen := -1, 0
	for i := range numWords {
		if a.word(i) != 0 {
			cur, curLen = -1, 0
			continue
		}
		if cur < 0 {
			cur = i
		}
		curLen++
		if curLen > length {
			pos, length = cur, curLen
		}
	}
	return pos, length
}

// PutText writes the canonical text form of a into dst and returns the number
// of bytes written. It stops early once fewer than 5 bytes of dst remain, so
// callers must pass at least MaxText6Len bytes to get the full text.
//
// The canonical form uses lowercase hex without leading zeros and replaces
// the leftmost longest run of zero words, even a single one, with "::". The
// last 32 bits are written as a dotted quad when the run covers exactly the
// first six words (IPv4-compatible) or the first five words followed by
// ffff (IPv4-mapped).
func (a Addr6) PutText(dst []byte) int {
	gapPos, gapLen := a.zeroRun()

	n := 0
	for i := 0; i < numWords; i++ {
		if len(dst)-n < 5 {
			break
		}
		switch {
		case i == gapPos:
			if i == 0 {
				dst[n] = ':'
				n++
			}
			dst[n] = ':'
			n++
			i += gapLen - 1

		case i == 6 && gapPos == 0 &&
			(gapLen == 6 || (gapLen == 5 && a.word(5) == 0xffff)):
			return n + a.V4().PutText(dst[n:])

		default:
			n += len(strconv.AppendUint(dst[n:n], uint64(a.word(i)), 16))
			if i+1 != numWords {
				dst[n] = ':'
				n++
			}
		}
	}
	return n
}

// AppendTo appends the canonical text form of a.
func (a Addr6) AppendTo(b []byte) []byte {
	var buf [MaxText6Len]byte
	n := a.PutText(buf[:])
	return append(b, buf[:n]...)
}

func (a Addr6) String() string {
	var buf [MaxText6Len]byte
	n := a.PutText(buf[:])
	return string(buf[:n])
}

// V4 returns the last 32 bits of a.
func (a Addr6) V4() Addr4 {
	return Addr4(a[12:])
}

// IsV4Compatible reports whether a is an IPv4-compatible address: the top 96
// bits are zero and the low 32 bits are neither 0 nor 1, which excludes "::"
// and "::1".
func (a Addr6) IsV4Compatible() bool {
	for _, b := range a[:12] {
		if b != 0 {
			return false
		}
	}
	return a.V4().Uint32() > 1
}

// IsV4Mapped reports whether a has the form ::ffff:a.b.c.d.
func (a Addr6) IsV4Mapped() bool {
	for _, b := range a[:10] {
		if b != 0 {
			return false
		}
	}
	return a[10] == 0xff && a[11] == 0xff
}

// IsZero reports whether every byte of a is zero.
func (a Addr6) IsZero() bool {
	return a == Addr6{}
}

// Compare returns -1, 0 or 1 following the lexicographic order of the
// 16-byte binary forms.
func (a Addr6) Compare(b Addr6) int {
	return bytes.Compare(a[:], b[:])
}

// Less reports whether a sorts before b.
func (a Addr6) Less(b Addr6) bool {
	return a.Compare(b) < 0
}

// MarshalText implements encoding.TextMarshaler.
func (a Addr6) MarshalText() ([]byte, error) {
	return a.AppendTo(make([]byte, 0, MaxText6Len)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseAddr6.
func (a *Addr6) UnmarshalText(text []byte) error {
	v, err := ParseAddr6(text)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a Addr6) MarshalBinary() ([]byte, error) {
	return a[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *Addr6) UnmarshalBinary(data []byte) error {
	v, ok := Addr6FromSlice(data)
	if !ok {
		return errV6BinaryLength
	}
	*a = v
	return nil
}
