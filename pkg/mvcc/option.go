package mvcc

import "github.com/bobboyms/kvsql/pkg/errors"

// optionValue is the `Option<bytes>` wrapper the data model specifies for
// the payload stored under Version(raw, v): Some(bytes) for a live write,
// None for a tombstone.
type optionValue struct {
	present bool
	bytes   []byte
}

func some(b []byte) optionValue { return optionValue{present: true, bytes: b} }
func none() optionValue         { return optionValue{present: false} }

func encodeOption(v optionValue) []byte {
	if !v.present {
		return []byte{0}
	}
	return append([]byte{1}, v.bytes...)
}

func decodeOption(b []byte) (optionValue, error) {
	if len(b) < 1 {
		return optionValue{}, &errors.CodecError{Message: "decodeOption: empty input"}
	}
	switch b[0] {
	case 0:
		return none(), nil
	case 1:
		return some(b[1:]), nil
	default:
		return optionValue{}, &errors.CodecError{Message: "decodeOption: invalid tag"}
	}
}
