package encoding

import (
	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/types"
)

// Value variant tags. Each gets a distinct byte so that, e.g., all integer
// keys sort as integers within their own tag band — the Integer/String
// collision the design notes warn against in one revision of the source
// does not happen here.
const (
	valueTagNull    byte = 0
	valueTagBoolean byte = 1
	valueTagInteger byte = 2
	valueTagFloat   byte = 3
	valueTagString  byte = 4
)

// EncodeValue encodes a types.Value as an order-preserving byte sequence:
// a one-byte variant tag followed by the order-preserving encoding of its
// payload. Because the tag is a fixed-width prefix, two values of
// different variants compare by tag alone, and two values of the same
// variant compare by their payload encoding — which is exactly the order
// types.Value.Compare defines for same-variant pairs. This is used to
// encode primary-key values inside composite SQL row keys.
func EncodeValue(v types.Value) []byte {
	if v.IsNull() {
		return []byte{valueTagNull}
	}
	dt, _ := v.Datatype()
	switch dt {
	case types.Boolean:
		b, _ := v.AsBoolean()
		return append([]byte{valueTagBoolean}, EncodeBool(b)...)
	case types.Integer:
		i, _ := v.AsInteger()
		return append([]byte{valueTagInteger}, EncodeInt64(i)...)
	case types.Float:
		f, _ := v.AsFloat()
		return append([]byte{valueTagFloat}, EncodeFloat64(f)...)
	case types.String:
		s, _ := v.AsString()
		return append([]byte{valueTagString}, EncodeString(s)...)
	default:
		return []byte{valueTagNull}
	}
}

// DecodeValue is the inverse of EncodeValue.
func DecodeValue(b []byte) (types.Value, []byte, error) {
	if len(b) < 1 {
		return types.Value{}, nil, &errors.CodecError{Message: "DecodeValue: empty input"}
	}
	tag, rest := b[0], b[1:]
	switch tag {
	case valueTagNull:
		return types.Null, rest, nil
	case valueTagBoolean:
		bv, rest, err := DecodeBool(rest)
		if err != nil {
			return types.Value{}, nil, err
		}
		return types.NewBoolean(bv), rest, nil
	case valueTagInteger:
		iv, rest, err := DecodeInt64(rest)
		if err != nil {
			return types.Value{}, nil, err
		}
		return types.NewInteger(iv), rest, nil
	case valueTagFloat:
		fv, rest, err := DecodeFloat64(rest)
		if err != nil {
			return types.Value{}, nil, err
		}
		return types.NewFloat(fv), rest, nil
	case valueTagString:
		sv, rest, err := DecodeString(rest)
		if err != nil {
			return types.Value{}, nil, err
		}
		return types.NewString(sv), rest, nil
	default:
		return types.Value{}, nil, &errors.CodecError{Message: "DecodeValue: unknown variant tag"}
	}
}
