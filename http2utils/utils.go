// Package http2utils holds the small wire-level helpers shared by the
// frame codecs: big-endian integer conversions and padding handling.
package http2utils

import (
	"errors"

	"github.com/valyala/fastrand"
)

// ErrPaddingTooLarge is returned when a frame declares more padding than
// its payload can possibly contain.
var ErrPaddingTooLarge = errors.New("http2utils: padding length exceeds payload")

// Uint24ToBytes writes the 24 low bits of n into b, big-endian.
func Uint24ToBytes(b []byte, n uint32) {
	_ = b[2] // bounds check hint
	b[0] = byte(n >> 16)
	b[1] = byte(n >> 8)
	b[2] = byte(n)
}

// BytesToUint24 reads a 24-bit big-endian integer from b.
func BytesToUint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// Uint32ToBytes writes n into b, big-endian.
func Uint32ToBytes(b []byte, n uint32) {
	_ = b[3]
	b[0] = byte(n >> 24)
	b[1] = byte(n >> 16)
	b[2] = byte(n >> 8)
	b[3] = byte(n)
}

// BytesToUint32 reads a big-endian uint32 from b. The reserved top bit is
// NOT masked here; callers that need a 31-bit stream id must mask it
// themselves (see StreamID).
func BytesToUint32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// AppendUint32Bytes appends the big-endian encoding of n to dst.
func AppendUint32Bytes(dst []byte, n uint32) []byte {
	return append(dst, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}

// Resize grows b (reusing its backing array when possible) so that
// len(b) == neededLen.
func Resize(b []byte, neededLen int) []byte {
	b = b[:cap(b)]
	if n := neededLen - len(b); n > 0 {
		b = append(b, make([]byte, n)...)
	}
	return b[:neededLen]
}

// CutPadding strips the pad-length octet and trailing padding bytes from
// payload, per RFC 7540 §6.1 (and §6.2, §6.6 which share the same shape).
// length is the full payload length as declared in the frame header.
func CutPadding(payload []byte, length int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrPaddingTooLarge
	}

	pad := int(payload[0])
	if pad+1 > length {
		return nil, ErrPaddingTooLarge
	}

	return payload[1 : length-pad], nil
}

// AddPadding appends between 9 and 255 bytes of zero padding to b plus the
// pad-length prefix octet, returning the new slice. The actual pad length
// is chosen with fastrand since padding length has no cryptographic
// relevance (RFC 7540 §10.7 only requires that the padding bytes
// themselves be zero, not that the length be unpredictable via a CSPRNG).
func AddPadding(b []byte) []byte {
	n := int(fastrand.Uint32n(256-9)) + 9
	nn := len(b)

	b = Resize(b, nn+n+1)
	copy(b[1:], b[:nn])
	b[0] = byte(n)

	for i := nn + 1; i < len(b); i++ {
		b[i] = 0
	}

	return b
}
