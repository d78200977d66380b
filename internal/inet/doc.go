// Package inet converts Internet addresses between their textual notations
// and their binary encodings, following the semantics of the SQL functions
// INET_ATON, INET_NTOA, INET6_ATON, INET6_NTOA, IS_IPV4, IS_IPV6,
// IS_IPV4_COMPAT and IS_IPV4_MAPPED.
//
// The decoders are stricter than net/netip in some places and more lenient
// in others: IPv4 groups may carry leading zeros ("010.1.1.1" is 10.1.1.1),
// IPv6 zone ids are rejected, and INET_ATON accepts the short forms "a",
// "a.b" and "a.b.c". Decoding and encoding never allocate; all functions are
// safe for concurrent use.
//
// IPv6 text is written in a canonical form close to RFC 5952, with two
// differences: a single zero group is also compressed to "::", and the last
// 32 bits are written as a dotted quad when the first six groups are zero
// and the seventh is not, or when the first five groups are zero and the
// sixth is ffff.
package inet
