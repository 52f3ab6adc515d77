// Package utf8 encodes unsigned integers as UTF-8 style byte sequences.
//
// The encoding extends the standard bit layout up to MaxCodePoint (21 bits)
// so that byte-wise comparison of encoded sequences matches numeric order.
// Ranks are built from these sequences, one per tree level.
package utf8

import (
	"github.com/musetronstar/tagd/errors"
)

const (
	// MaxCodePoint is the largest value that fits a four byte sequence.
	MaxCodePoint uint32 = 2097151

	// Invalid is returned when a sequence cannot be decoded.
	Invalid uint32 = 0xFFFD

	// MaxBytes is the longest encoded sequence.
	MaxBytes = 4

	surrogateMin uint32 = 0xD800
	surrogateMax uint32 = 0xDFFF
)

var (
	// ErrInvalidCodePoint is returned when appending a value that has no encoding.
	ErrInvalidCodePoint = errors.New("invalid code point")
	// ErrMaxCodePoint is returned when incrementing past MaxCodePoint.
	ErrMaxCodePoint = errors.New("code point exceeds maximum")
)

// IsValid reports whether cp may be encoded.
// Zero, the replacement character, UTF-16 surrogates and the values whose
// low bits leave no room in their byte length (0xFFFE, 0xFFFF) are rejected.
func IsValid(cp uint32) bool {
	return cp != 0 &&
		cp <= MaxCodePoint &&
		cp != Invalid &&
		!(cp >= surrogateMin && cp <= surrogateMax) &&
		(cp&0xFFFFFFFE) != 0xFFFE
}

// Len returns the number of bytes needed to encode cp.
func Len(cp uint32) int {
	switch {
	case cp < 0x80:
		return 1
	case cp < 0x800:
		return 2
	case cp < 0x10000:
		return 3
	default:
		return 4
	}
}

// Append appends the encoding of cp to buf.
func Append(buf []byte, cp uint32) ([]byte, error) {
	if !IsValid(cp) {
		return buf, errors.Wrapf(ErrInvalidCodePoint, "%d", cp)
	}

	switch Len(cp) {
	case 1:
		buf = append(buf, byte(cp))
	case 2:
		buf = append(buf,
			0xC0|byte((cp>>6)&0x1F),
			0x80|byte(cp&0x3F))
	case 3:
		buf = append(buf,
			0xE0|byte((cp>>12)&0x0F),
			0x80|byte((cp>>6)&0x3F),
			0x80|byte(cp&0x3F))
	default:
		buf = append(buf,
			0xF0|byte((cp>>18)&0x07),
			0x80|byte((cp>>12)&0x3F),
			0x80|byte((cp>>6)&0x3F),
			0x80|byte(cp&0x3F))
	}
	return buf, nil
}

// Decode reads the first sequence in b, returning the value and the number of
// bytes consumed. An empty slice returns (0, 0). Malformed sequences return
// Invalid and consume at least one byte.
func Decode(b []byte) (uint32, int) {
	if len(b) == 0 {
		return 0, 0
	}

	lead := b[0]
	var cp uint32
	var n int
	switch {
	case lead < 0x80:
		return uint32(lead), 1
	case lead < 0xC0:
		// continuation byte without a lead
		return Invalid, 1
	case lead < 0xE0:
		cp, n = uint32(lead&0x1F), 2
	case lead < 0xF0:
		cp, n = uint32(lead&0x0F), 3
	case lead < 0xF8:
		cp, n = uint32(lead&0x07), 4
	default:
		return Invalid, 1
	}

	i := 1
	for ; i < n; i++ {
		if i >= len(b) || b[i]&0xC0 != 0x80 {
			return Invalid, i
		}
		cp = cp<<6 | uint32(b[i]&0x3F)
	}

	// overlong sequences and values without an encoding
	if Len(cp) != n || !IsValid(cp) {
		return Invalid, n
	}
	return cp, n
}

// Next returns the smallest valid code point greater than cp.
// Crossing a byte-width boundary widens the encoding rather than failing;
// only MaxCodePoint has no successor.
func Next(cp uint32) (uint32, error) {
	for cp < MaxCodePoint {
		cp++
		if IsValid(cp) {
			return cp, nil
		}
	}
	return Invalid, ErrMaxCodePoint
}

// LastStart returns the index where the final sequence of b begins,
// or -1 if b holds no lead byte.
func LastStart(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0x80 || b[i] >= 0xC0 {
			return i
		}
	}
	return -1
}

// Count returns the number of sequences in b.
func Count(b []byte) int {
	n := 0
	for i := 0; i < len(b); {
		_, sz := Decode(b[i:])
		i += sz
		n++
	}
	return n
}
