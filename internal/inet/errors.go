package inet

import "errors"

// ErrDecodeFailed is the single failure signal of every decoder in this
// package. Callers that only care about success test with errors.Is.
var ErrDecodeFailed = errors.New("inet: decode failed")

// DecodeError describes why a textual address was rejected. The reason is
// informational; all decode errors compare equal to ErrDecodeFailed.
type DecodeError struct {
	reason string
}

func (e *DecodeError) Error() string {
	return "inet: decode failed: " + e.reason
}

// Reason returns the short description of the rejection.
func (e *DecodeError) Reason() string {
	return e.reason
}

// Is reports whether target is ErrDecodeFailed.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecodeFailed
}

// Decode errors are package-level values so that a failed decode does not
// allocate.
var (
	errV4TooShort      = &DecodeError{"invalid IPv4 address: too short"}
	errV4TooLong       = &DecodeError{"invalid IPv4 address: too long"}
	errV4GroupDigits   = &DecodeError{"invalid IPv4 address: too many characters in a group"}
	errV4ByteValue     = &DecodeError{"invalid IPv4 address: invalid byte value"}
	errV4EmptyGroup    = &DecodeError{"invalid IPv4 address: too few characters in a group"}
	errV4TooManyDots   = &DecodeError{"invalid IPv4 address: too many dots"}
	errV4InvalidChar   = &DecodeError{"invalid IPv4 address: invalid character"}
	errV4TrailingDot   = &DecodeError{"invalid IPv4 address: ending at '.'"}
	errV4TooFewGroups  = &DecodeError{"invalid IPv4 address: too few groups"}
	errV4BinaryLength  = &DecodeError{"invalid IPv4 address: binary form must be 4 bytes"}
	errV6TooShort      = &DecodeError{"invalid IPv6 address: too short"}
	errV6TooLong       = &DecodeError{"invalid IPv6 address: too long"}
	errV6LeadingColon  = &DecodeError{"invalid IPv6 address: can not start with ':x'"}
	errV6TooManyGaps   = &DecodeError{"invalid IPv6 address: too many gaps (::)"}
	errV6TrailingColon = &DecodeError{"invalid IPv6 address: ending at ':'"}
	errV6TooManyGroups = &DecodeError{"invalid IPv6 address: too many groups"}
	errV6UnexpectedV4  = &DecodeError{"invalid IPv6 address: unexpected IPv4 part"}
	errV6InvalidV4     = &DecodeError{"invalid IPv6 address: invalid IPv4 part"}
	errV6InvalidChar   = &DecodeError{"invalid IPv6 address: invalid character"}
	errV6GroupDigits   = &DecodeError{"invalid IPv6 address: too many digits in group"}
	errV6NoRoomForGap  = &DecodeError{"invalid IPv6 address: no room for a gap (::)"}
	errV6TooFewGroups  = &DecodeError{"invalid IPv6 address: too few groups"}
	errV6BinaryLength  = &DecodeError{"invalid IPv6 address: binary form must be 16 bytes"}
)
