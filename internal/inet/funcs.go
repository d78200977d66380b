package inet

// Flavor tells whether a byte string holds text or a binary address.
type Flavor uint8

const (
	// Text is an ASCII string such as "192.0.2.1".
	Text Flavor = iota
	// Binary is a 4- or 16-byte address in network byte order.
	Binary
)

func (f Flavor) String() string {
	switch f {
	case Text:
		return "text"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Value is a byte string together with its declared flavor.
type Value struct {
	Bytes  []byte
	Flavor Flavor
}

// TextValue wraps s as a text value.
func TextValue(s []byte) Value {
	return Value{Bytes: s, Flavor: Text}
}

// BinaryValue wraps b as a binary value.
func BinaryValue(b []byte) Value {
	return Value{Bytes: b, Flavor: Binary}
}

// Addr holds either an IPv4 or an IPv6 address. The zero value holds
// neither; Len reports 0 for it.
type Addr struct {
	b   [16]byte
	len uint8
}

// AddrFrom4 returns a as an Addr.
func AddrFrom4(a Addr4) Addr {
	var v Addr
	copy(v.b[:], a[:])
	v.len = 4
	return v
}

// AddrFrom6 returns a as an Addr.
func AddrFrom6(a Addr6) Addr {
	return Addr{b: a, len: 16}
}

// Len returns the binary length of a: 4, 16 or 0 for the zero Addr.
func (a Addr) Len() int {
	return int(a.len)
}

// Is4 reports whether a holds an IPv4 address.
func (a Addr) Is4() bool {
	return a.len == 4
}

// Is6 reports whether a holds an IPv6 address.
func (a Addr) Is6() bool {
	return a.len == 16
}

// As4 returns the IPv4 address held by a. It is only meaningful when Is4.
func (a Addr) As4() Addr4 {
	return Addr4(a.b[:4])
}

// As6 returns the IPv6 address held by a. It is only meaningful when Is6.
func (a Addr) As6() Addr6 {
	return a.b
}

// AppendBinary appends the 4- or 16-byte binary form of a.
func (a Addr) AppendBinary(b []byte) []byte {
	return append(b, a.b[:a.len]...)
}

// AppendTo appends the text form of a.
func (a Addr) AppendTo(b []byte) []byte {
	switch a.len {
	case 4:
		return a.As4().AppendTo(b)
	case 16:
		return a.As6().AppendTo(b)
	}
	return b
}

func (a Addr) String() string {
	var buf [MaxText6Len]byte
	return string(a.AppendTo(buf[:0]))
}

// Inet6Aton implements INET6_ATON: the text is decoded as a strict IPv4
// address first and as IPv6 when that fails.
func Inet6Aton(s []byte) (Addr, bool) {
	if a, err := ParseAddr4(s); err == nil {
		return AddrFrom4(a), true
	}
	if a, err := ParseAddr6(s); err == nil {
		return AddrFrom6(a), true
	}
	return Addr{}, false
}

// Inet6Ntoa implements INET6_NTOA. Only binary values of 4 or 16 bytes are
// accepted; the returned Addr's String is the text form.
func Inet6Ntoa(v Value) (Addr, bool) {
	if v.Flavor != Binary {
		return Addr{}, false
	}
	if a, ok := Addr4FromSlice(v.Bytes); ok {
		return AddrFrom4(a), true
	}
	if a, ok := Addr6FromSlice(v.Bytes); ok {
		return AddrFrom6(a), true
	}
	return Addr{}, false
}

// Addr6FromValue builds an IPv6 address the way an INET6 column does: text is
// decoded with ParseAddr6 and binary must be exactly 16 bytes.
func Addr6FromValue(v Value) (Addr6, bool) {
	if v.Flavor == Binary {
		return Addr6FromSlice(v.Bytes)
	}
	a, err := ParseAddr6(v.Bytes)
	return a, err == nil
}

// IsIPv4 implements IS_IPV4.
func IsIPv4(s []byte) bool {
	_, err := ParseAddr4(s)
	return err == nil
}

// IsIPv6 implements IS_IPV6.
func IsIPv6(s []byte) bool {
	_, err := ParseAddr6(s)
	return err == nil
}

// IsIPv4Compat implements IS_IPV4_COMPAT.
func IsIPv4Compat(v Value) bool {
	a, ok := Addr6FromValue(v)
	return ok && a.IsV4Compatible()
}

// IsIPv4Mapped implements IS_IPV4_MAPPED.
func IsIPv4Mapped(v Value) bool {
	a, ok := Addr6FromValue(v)
	return ok && a.IsV4Mapped()
}
