package mvcc

import (
	"math"

	"github.com/bobboyms/kvsql/pkg/encoding"
	"github.com/bobboyms/kvsql/pkg/errors"
)

// Variant tags for the four MVCC key families. Each is a one-byte prefix,
// so tag comparison alone separates families, and every encoding below
// that shares a tag sorts by its payload per pkg/encoding's guarantees.
const (
	tagNextVersion byte = 0
	tagTxnActive   byte = 1
	tagTxnWrite    byte = 2
	tagVersion     byte = 3
)

// MaxVersion bounds conflict-detection and read scans from above; no
// version ever reaches it in practice, it only serves as a scan endpoint.
const MaxVersion uint64 = math.MaxUint64

func encodeNextVersion() []byte {
	return []byte{tagNextVersion}
}

func encodeTxnActive(v uint64) []byte {
	return append([]byte{tagTxnActive}, encoding.EncodeUint64(v)...)
}

func encodeTxnActivePrefix() []byte {
	return []byte{tagTxnActive}
}

func decodeTxnActive(key []byte) (uint64, error) {
	if len(key) < 1 || key[0] != tagTxnActive {
		return 0, &errors.CodecError{Message: "decodeTxnActive: wrong variant tag"}
	}
	v, _, err := encoding.DecodeUint64(key[1:])
	return v, err
}

func encodeTxnWrite(v uint64, raw []byte) []byte {
	out := []byte{tagTxnWrite}
	out = append(out, encoding.EncodeUint64(v)...)
	out = append(out, encoding.EncodeBytes(raw)...)
	return out
}

func encodeTxnWritePrefix(v uint64) []byte {
	out := []byte{tagTxnWrite}
	out = append(out, encoding.EncodeUint64(v)...)
	return out
}

func decodeTxnWrite(key []byte) (version uint64, raw []byte, err error) {
	if len(key) < 1 || key[0] != tagTxnWrite {
		return 0, nil, &errors.CodecError{Message: "decodeTxnWrite: wrong variant tag"}
	}
	v, rest, err := encoding.DecodeUint64(key[1:])
	if err != nil {
		return 0, nil, err
	}
	raw, _, err = encoding.DecodeBytes(rest)
	return v, raw, err
}

func encodeVersion(raw []byte, v uint64) []byte {
	out := []byte{tagVersion}
	out = append(out, encoding.EncodeBytes(raw)...)
	out = append(out, encoding.EncodeUint64(v)...)
	return out
}

// encodeVersionPrefix truncates the trailing version component, producing
// a prefix that matches every version of every key whose raw part equals
// raw exactly.
func encodeVersionPrefix(raw []byte) []byte {
	out := []byte{tagVersion}
	out = append(out, encoding.EncodeBytes(raw)...)
	return out
}

// encodeVersionScanPrefix truncates the trailing version component AND
// the raw field's own terminator, producing a prefix that matches every
// version of every key whose raw part begins with userPrefix (used by
// Transaction.ScanPrefix).
func encodeVersionScanPrefix(userPrefix []byte) []byte {
	out := []byte{tagVersion}
	// EncodeBytes escapes 0x00 bytes and appends a 0x00 0x00 terminator;
	// dropping the terminator leaves a valid prefix for every key whose
	// raw part begins with userPrefix, since the escaped body of a longer
	// raw value extends byte-for-byte past this point.
	body := encoding.EncodeBytes(userPrefix)
	out = append(out, body[:len(body)-2]...)
	return out
}

func decodeVersion(key []byte) (raw []byte, version uint64, err error) {
	if len(key) < 1 || key[0] != tagVersion {
		return nil, 0, &errors.CodecError{Message: "decodeVersion: wrong variant tag"}
	}
	raw, rest, err := encoding.DecodeBytes(key[1:])
	if err != nil {
		return nil, 0, err
	}
	version, _, err = encoding.DecodeUint64(rest)
	return raw, version, err
}
