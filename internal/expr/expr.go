// Package expr evaluates the INET SQL functions over nullable, typed
// arguments and returns results as mmdbtype values, with nil standing for
// SQL NULL.
package expr

import (
	"fmt"
	"strconv"

	"github.com/maxmind/mmdbwriter/mmdbtype"

	"github.com/maxmind/inetconv/internal/inet"
)

// Kind is the type of an Arg.
type Kind uint8

const (
	// Null is the SQL NULL.
	Null Kind = iota
	// Text is a character string.
	Text
	// Binary is a byte string, such as the result of INET6_ATON.
	Binary
	// Int is an unsigned integer.
	Int
)

// Arg is a function argument.
type Arg struct {
	Kind  Kind
	Bytes []byte
	Int   uint64
}

// NullArg returns the NULL argument.
func NullArg() Arg { return Arg{} }

// TextArg returns a text argument.
func TextArg(s []byte) Arg { return Arg{Kind: Text, Bytes: s} }

// BinaryArg returns a binary argument.
func BinaryArg(b []byte) Arg { return Arg{Kind: Binary, Bytes: b} }

// IntArg returns an integer argument.
func IntArg(n uint64) Arg { return Arg{Kind: Int, Int: n} }

// IsNull reports whether a is NULL.
func (a Arg) IsNull() bool { return a.Kind == Null }

// value returns a as a flavored byte string. Integers are rendered in
// decimal.
func (a Arg) value() inet.Value {
	switch a.Kind {
	case Binary:
		return inet.BinaryValue(a.Bytes)
	case Int:
		return inet.TextValue(strconv.AppendUint(nil, a.Int, 10))
	default:
		return inet.TextValue(a.Bytes)
	}
}

// Func is a function that can be evaluated with Eval.
type Func string

// Supported functions.
const (
	InetAton     Func = "inet_aton"
	InetNtoa     Func = "inet_ntoa"
	Inet6Aton    Func = "inet6_aton"
	Inet6Ntoa    Func = "inet6_ntoa"
	IsIPv4       Func = "is_ipv4"
	IsIPv6       Func = "is_ipv6"
	IsIPv4Compat Func = "is_ipv4_compat"
	IsIPv4Mapped Func = "is_ipv4_mapped"
	// Canonical is INET6_NTOA(INET6_ATON(x)).
	Canonical Func = "canonical"
)

// ParseFunc returns the Func named name.
func ParseFunc(name string) (Func, error) {
	switch f := Func(name); f {
	case InetAton, InetNtoa, Inet6Aton, Inet6Ntoa,
		IsIPv4, IsIPv6, IsIPv4Compat, IsIPv4Mapped, Canonical:
		return f, nil
	}
	return "", fmt.Errorf("unknown function '%s'", name)
}

// Eval applies fn to arg. A nil result is NULL. Predicates never return
// NULL: a NULL or non-string argument is simply not an address.
func Eval(fn Func, arg Arg) mmdbtype.DataType {
	switch fn {
	case InetAton:
		if arg.IsNull() {
			return nil
		}
		n, ok := inet.InetAton(arg.value().Bytes)
		if !ok {
			return nil
		}
		return mmdbtype.Uint32(n)

	case InetNtoa:
		n, ok := argUint(arg)
		if !ok {
			return nil
		}
		a, ok := inet.InetNtoa(n)
		if !ok {
			return nil
		}
		return mmdbtype.String(a.String())

	case Inet6Aton:
		if arg.IsNull() {
			return nil
		}
		a, ok := inet.Inet6Aton(arg.value().Bytes)
		if !ok {
			return nil
		}
		return mmdbtype.Bytes(a.AppendBinary(nil))

	case Inet6Ntoa:
		if arg.IsNull() {
			return nil
		}
		a, ok := inet.Inet6Ntoa(arg.value())
		if !ok {
			return nil
		}
		return mmdbtype.String(a.String())

	case Canonical:
		if arg.IsNull() {
			return nil
		}
		a, ok := inet.Inet6Aton(arg.value().Bytes)
		if !ok {
			return nil
		}
		return mmdbtype.String(a.String())

	case IsIPv4:
		return mmdbtype.Bool(isString(arg) && inet.IsIPv4(arg.Bytes))
	case IsIPv6:
		return mmdbtype.Bool(isString(arg) && inet.IsIPv6(arg.Bytes))
	case IsIPv4Compat:
		return mmdbtype.Bool(isString(arg) && inet.IsIPv4Compat(arg.value()))
	case IsIPv4Mapped:
		return mmdbtype.Bool(isString(arg) && inet.IsIPv4Mapped(arg.value()))
	}
	return nil
}

func isString(arg Arg) bool {
	return arg.Kind == Text || arg.Kind == Binary
}

// argUint converts arg to the integer INET_NTOA expects. Text must be a
// decimal unsigned integer; binary strings are not numbers.
func argUint(arg Arg) (uint64, bool) {
	switch arg.Kind {
	case Int:
		return arg.Int, true
	case Text:
		n, err := strconv.ParseUint(string(arg.Bytes), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// CellArg turns a result of Eval back into an argument so that columns can
// be chained.
func CellArg(v mmdbtype.DataType) Arg {
	switch v := v.(type) {
	case mmdbtype.String:
		return TextArg([]byte(v))
	case mmdbtype.Bytes:
		return BinaryArg([]byte(v))
	case mmdbtype.Uint32:
		return IntArg(uint64(v))
	case mmdbtype.Bool:
		if v {
			return IntArg(1)
		}
		return IntArg(0)
	}
	return NullArg()
}
