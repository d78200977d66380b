package inet

import "strconv"

const (
	// MaxText4Len is the size of a buffer that always holds the text form of
	// an Addr4, including room for a C-style terminator.
	MaxText4Len = 16

	minText4Len = 7  // "0.0.0.0"
	maxText4Len = 15 // "255.255.255.255"
)

// Addr4 is an IPv4 address in network byte order.
type Addr4 [4]byte

// ParseAddr4 decodes a strict dotted-quad: four decimal groups of one to three
// digits, each at most 255, and nothing else. Leading zeros are accepted and
// ignored ("010.0.0.1" is 10.0.0.1). The length of b is authoritative; a NUL
// byte inside it is an invalid character.
func ParseAddr4(b []byte) (Addr4, error) {
	if len(b) < minText4Len {
		return Addr4{}, errV4TooShort
	}
	if len(b) > maxText4Len {
		return Addr4{}, errV4TooLong
	}

	var a Addr4
	value, digits, dots := 0, 0, 0
	var c byte
	for _, c = range b {
		switch {
		case c >= '0' && c <= '9':
			digits++
			if digits > 3 {
				return Addr4{}, errV4GroupDigits
			}
			value = value*10 + int(c-'0')
			if value > 255 {
				return Addr4{}, errV4ByteValue
			}
		case c == '.':
			if digits == 0 {
				return Addr4{}, errV4EmptyGroup
			}
			if dots == 3 {
				return Addr4{}, errV4TooManyDots
			}
			a[dots] = byte(value)
			dots++
			value, digits = 0, 0
		default:
			return Addr4{}, errV4InvalidChar
		}
	}
	if c == '.' {
		return Addr4{}, errV4TrailingDot
	}
	if dots != 3 {
		return Addr4{}, errV4TooFewGroups
	}
	a[3] = byte(value)
	return a, nil
}

// Addr4FromSlice returns the address held in a 4-byte binary string.
func Addr4FromSlice(b []byte) (Addr4, bool) {
	if len(b) != 4 {
		return Addr4{}, false
	}
	return Addr4(b), true
}

// Uint32 returns the address as a big-endian integer.
func (a Addr4) Uint32() uint32 {
	return uint32(a[0])<<24 | uint32(a[1])<<16 | uint32(a[2])<<8 | uint32(a[3])
}

// Addr4FromUint32 is the inverse of Addr4.Uint32.
func Addr4FromUint32(n uint32) Addr4 {
	return Addr4{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

// AppendTo appends the dotted-quad form of a, without leading zeros.
func (a Addr4) AppendTo(b []byte) []byte {
	for i, octet := range a {
		if i > 0 {
			b = append(b, '.')
		}
		b = strconv.AppendUint(b, uint64(octet), 10)
	}
	return b
}

// PutText writes the dotted-quad form of a into dst and returns the number of
// bytes written. Output that does not fit in dst is truncated.
func (a Addr4) PutText(dst []byte) int {
	var buf [maxText4Len]byte
	return copy(dst, a.AppendTo(buf[:0]))
}

func (a Addr4) String() string {
	var buf [maxText4Len]byte
	return string(a.AppendTo(buf[:0]))
}

// MarshalText implements encoding.TextMarshaler.
func (a Addr4) MarshalText() ([]byte, error) {
	return a.AppendTo(make([]byte, 0, maxText4Len)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseAddr4.
func (a *Addr4) UnmarshalText(text []byte) error {
	v, err := ParseAddr4(text)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a Addr4) MarshalBinary() ([]byte, error) {
	return a[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *Addr4) UnmarshalBinary(data []byte) error {
	v, ok := Addr4FromSlice(data)
	if !ok {
		return errV4BinaryLength
	}
	*a = v
	return nil
}
