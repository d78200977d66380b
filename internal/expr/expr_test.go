package expr

import (
	"testing"

	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mappedBinary = []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 192, 0, 2, 128}

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		fn       Func
		arg      Arg
		expected mmdbtype.DataType
	}{
		{"inet_aton", InetAton, TextArg([]byte("127.0.0.1")), mmdbtype.Uint32(0x7f000001)},
		{"inet_aton short form", InetAton, TextArg([]byte("127.1")), mmdbtype.Uint32(0x7f000001)},
		{"inet_aton integer", InetAton, IntArg(127), mmdbtype.Uint32(127)},
		{"inet_aton invalid", InetAton, TextArg([]byte("127.256")), nil},
		{"inet_aton null", InetAton, NullArg(), nil},

		{"inet_ntoa integer", InetNtoa, IntArg(0x7f000001), mmdbtype.String("127.0.0.1")},
		{"inet_ntoa decimal text", InetNtoa, TextArg([]byte("2130706433")), mmdbtype.String("127.0.0.1")},
		{"inet_ntoa too large", InetNtoa, IntArg(0x100000000), nil},
		{"inet_ntoa non-numeric", InetNtoa, TextArg([]byte("abc")), nil},
		{"inet_ntoa binary", InetNtoa, BinaryArg([]byte{1, 2, 3, 4}), nil},
		{"inet_ntoa null", InetNtoa, NullArg(), nil},

		{"inet6_aton ipv4", Inet6Aton, TextArg([]byte("192.0.2.1")), mmdbtype.Bytes{192, 0, 2, 1}},
		{"inet6_aton ipv6", Inet6Aton, TextArg([]byte("::ffff:192.0.2.128")), mmdbtype.Bytes(mappedBinary)},
		{"inet6_aton invalid", Inet6Aton, TextArg([]byte("1::2::3")), nil},
		{"inet6_aton null", Inet6Aton, NullArg(), nil},

		{"inet6_ntoa ipv4", Inet6Ntoa, BinaryArg([]byte{192, 0, 2, 1}), mmdbtype.String("192.0.2.1")},
		{"inet6_ntoa ipv6", Inet6Ntoa, BinaryArg(mappedBinary), mmdbtype.String("::ffff:192.0.2.128")},
		{"inet6_ntoa text", Inet6Ntoa, TextArg([]byte("::1")), nil},
		{"inet6_ntoa wrong length", Inet6Ntoa, BinaryArg([]byte{1, 2, 3}), nil},
		{"inet6_ntoa null", Inet6Ntoa, NullArg(), nil},

		{"canonical ipv6", Canonical, TextArg([]byte("2001:0DB8:0:0:1::1")), mmdbtype.String("2001:db8::1:0:0:1")},
		{"canonical ipv4", Canonical, TextArg([]byte("010.000.000.001")), mmdbtype.String("10.0.0.1")},
		{"canonical invalid", Canonical, TextArg([]byte("x")), nil},
		{"canonical null", Canonical, NullArg(), nil},

		{"is_ipv4 true", IsIPv4, TextArg([]byte("192.0.2.1")), mmdbtype.Bool(true)},
		{"is_ipv4 false", IsIPv4, TextArg([]byte("::1")), mmdbtype.Bool(false)},
		{"is_ipv4 null", IsIPv4, NullArg(), mmdbtype.Bool(false)},
		{"is_ipv4 integer", IsIPv4, IntArg(1), mmdbtype.Bool(false)},
		{"is_ipv6 true", IsIPv6, TextArg([]byte("::1")), mmdbtype.Bool(true)},
		{"is_ipv6 false", IsIPv6, TextArg([]byte("192.0.2.1")), mmdbtype.Bool(false)},
		{"is_ipv4_compat text", IsIPv4Compat, TextArg([]byte("::192.0.2.1")), mmdbtype.Bool(true)},
		{"is_ipv4_compat loopback", IsIPv4Compat, TextArg([]byte("::1")), mmdbtype.Bool(false)},
		{"is_ipv4_mapped text", IsIPv4Mapped, TextArg([]byte("::ffff:192.0.2.128")), mmdbtype.Bool(true)},
		{"is_ipv4_mapped binary", IsIPv4Mapped, BinaryArg(mappedBinary), mmdbtype.Bool(true)},
		{"is_ipv4_mapped null", IsIPv4Mapped, NullArg(), mmdbtype.Bool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Eval(tt.fn, tt.arg))
		})
	}
}

func TestEval_Chained(t *testing.T) {
	binary := Eval(Inet6Aton, TextArg([]byte("2001:db8:0:0:1:0:0:1")))
	require.NotNil(t, binary)

	text := Eval(Inet6Ntoa, CellArg(binary))
	assert.Equal(t, mmdbtype.String("2001:db8::1:0:0:1"), text)

	n := Eval(InetAton, TextArg([]byte("1.2.3")))
	assert.Equal(t, mmdbtype.String("1.2.0.3"), Eval(InetNtoa, CellArg(n)))
}

func TestCellArg(t *testing.T) {
	assert.Equal(t, TextArg([]byte("a")), CellArg(mmdbtype.String("a")))
	assert.Equal(t, BinaryArg([]byte{1}), CellArg(mmdbtype.Bytes{1}))
	assert.Equal(t, IntArg(7), CellArg(mmdbtype.Uint32(7)))
	assert.Equal(t, IntArg(1), CellArg(mmdbtype.Bool(true)))
	assert.Equal(t, IntArg(0), CellArg(mmdbtype.Bool(false)))
	assert.True(t, CellArg(nil).IsNull())
	assert.True(t, CellArg(mmdbtype.Float64(1)).IsNull())
}

func TestParseFunc(t *testing.T) {
	fn, err := ParseFunc("is_ipv4_mapped")
	require.NoError(t, err)
	assert.Equal(t, IsIPv4Mapped, fn)

	_, err = ParseFunc("inet_pton")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown function")

	assert.Nil(t, Eval(Func("nope"), TextArg([]byte("1.2.3.4"))))
}
