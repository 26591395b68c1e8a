// Package encoding implements the order-preserving key codec: primitives
// for encoding fixed- and variable-length fields such that byte-lexical
// order on the encoded form matches logical order on the decoded form, and
// such that encoded fields can be concatenated and later re-split without
// ambiguity (self-delimiting variable-length fields).
//
// Fixed-width integers are big-endian so byte comparison is numeric
// comparison. Signed integers flip their sign bit so two's-complement
// negative numbers still sort below positive ones. Floats flip bits so
// IEEE-754 bit patterns sort in float order, including across the
// positive/negative boundary. Byte strings escape the 0x00 terminator
// byte inline and end with a literal terminator, so a value's encoding is
// never a byte-for-byte prefix of a longer value's encoding except at the
// point where the shorter one legitimately sorts first.
package encoding

import (
	"math"

	"github.com/bobboyms/kvsql/pkg/errors"
)

// EncodeUint64 encodes v as 8 big-endian bytes.
func EncodeUint64(v uint64) []byte {
	return []byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}

// DecodeUint64 consumes the first 8 bytes of b as a big-endian uint64,
// returning the value and the remaining bytes.
func DecodeUint64(b []byte) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, &errors.CodecError{Message: "DecodeUint64: short input"}
	}
	v := uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
	return v, b[8:], nil
}

// EncodeInt64 encodes v such that byte-lexical order matches signed
// numeric order: flip the sign bit of the two's-complement representation.
func EncodeInt64(v int64) []byte {
	return EncodeUint64(uint64(v) ^ (1 << 63))
}

// DecodeInt64 is the inverse of EncodeInt64.
func DecodeInt64(b []byte) (int64, []byte, error) {
	u, rest, err := DecodeUint64(b)
	if err != nil {
		return 0, nil, err
	}
	return int64(u ^ (1 << 63)), rest, nil
}

// EncodeFloat64 encodes v such that byte-lexical order matches float
// order: for non-negative floats, flip the sign bit; for negative floats,
// flip every bit (so larger-magnitude negatives, which have a smaller
// underlying bit pattern once the sign bit is considered, sort first).
func EncodeFloat64(v float64) []byte {
	bits := math.Float64bits(v)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	return EncodeUint64(bits)
}

// DecodeFloat64 is the inverse of EncodeFloat64.
func DecodeFloat64(b []byte) (float64, []byte, error) {
	bits, rest, err := DecodeUint64(b)
	if err != nil {
		return 0, nil, err
	}
	if bits&(1<<63) != 0 {
		bits &^= 1 << 63
	} else {
		bits = ^bits
	}
	return math.Float64frombits(bits), rest, nil
}

// EncodeBool encodes a boolean as a single byte, false < true.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeBool is the inverse of EncodeBool.
func DecodeBool(b []byte) (bool, []byte, error) {
	if len(b) < 1 {
		return false, nil, &errors.CodecError{Message: "DecodeBool: short input"}
	}
	return b[0] != 0, b[1:], nil
}

// escape and terminator bytes for the self-delimiting byte-string
// encoding: 0x00 is escaped as 0x00 0xff, and the field ends with the
// literal terminator 0x00 0x00. This keeps "abc" sorting before "abcd"
// (the shorter field's terminator, 0x00 0x00, is less than any byte that
// could follow in the longer field) while letting 0x00 appear anywhere in
// the payload.
const (
	escByte  byte = 0x00
	escPad   byte = 0xff
	termByte byte = 0x00
)

// EncodeBytes encodes an arbitrary byte string so that it is self
// delimiting: it can be concatenated with further encoded fields and later
// split back out unambiguously, and "abc" < "abcd" lexicographically on
// the encoded form.
func EncodeBytes(v []byte) []byte {
	out := make([]byte, 0, len(v)+2)
	for _, b := range v {
		if b == escByte {
			out = append(out, escByte, escPad)
		} else {
			out = append(out, b)
		}
	}
	out = append(out, escByte, termByte)
	return out
}

// DecodeBytes consumes one self-delimited byte string from the front of b,
// returning the decoded value and the remaining bytes.
func DecodeBytes(b []byte) (decoded []byte, rest []byte, err error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != escByte {
			out = append(out, b[i])
			continue
		}
		if i+1 >= len(b) {
			return nil, nil, &errors.CodecError{Message: "DecodeBytes: truncated escape sequence"}
		}
		switch b[i+1] {
		case escPad:
			out = append(out, escByte)
			i++
		case termByte:
			return out, b[i+2:], nil
		default:
			return nil, nil, &errors.CodecError{Message: "DecodeBytes: invalid escape sequence"}
		}
	}
	return nil, nil, &errors.CodecError{Message: "DecodeBytes: missing terminator"}
}

// EncodeString is EncodeBytes over the string's UTF-8 bytes.
func EncodeString(v string) []byte { return EncodeBytes([]byte(v)) }

// DecodeString is DecodeBytes rendered back to a string.
func DecodeString(b []byte) (string, []byte, error) {
	raw, rest, err := DecodeBytes(b)
	if err != nil {
		return "", nil, err
	}
	return string(raw), rest, nil
}

// PrefixNext computes the exclusive upper bound for a ScanPrefix(prefix):
// prefix with its trailing run of 0xFF bytes dropped and the byte before
// that run incremented (equivalent to incrementing prefix as a big-endian
// number and dropping the carry). unbounded is true when prefix is entirely
// 0xFF bytes, meaning no finite byte string is a valid exclusive upper
// bound; callers must then scan with no upper bound at all. A caller never
// passes an empty prefix.
func PrefixNext(prefix []byte) (next []byte, unbounded bool) {
	out := make([]byte, len(prefix))
	copy(out, prefix)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] < 0xFF {
			out[i]++
			return out[:i+1], false
		}
	}
	return nil, true
}
