package txn

import (
	"github.com/bobboyms/kvsql/pkg/encoding"
	"github.com/bobboyms/kvsql/pkg/types"
)

// SQL key namespace, layered above the MVCC raw-key space (§3 of the data
// model: Table(name) and Row(table, pk)). Each variant tag is a single
// byte so the two families never collide and sort by tag first, matching
// the same sum-type-with-prefix-tag discipline pkg/mvcc uses for its own
// key families.
const (
	sqlKeyTable byte = 0
	sqlKeyRow   byte = 1
)

// encodeTableKey builds the raw key under which a table's schema is
// stored.
func encodeTableKey(name string) []byte {
	out := []byte{sqlKeyTable}
	return append(out, encoding.EncodeString(name)...)
}

// encodeRowPrefix builds the raw-key prefix shared by every row of table
// name: the Row tag plus the table name's complete, terminated encoding.
// Because EncodeString self-terminates, this prefix never matches a row
// of a different (even same-prefixed) table name.
func encodeRowPrefix(table string) []byte {
	out := []byte{sqlKeyRow}
	return append(out, encoding.EncodeString(table)...)
}

// encodeRowKey builds the raw key for one row: the Row tag, the table
// name, and its primary-key value, each order-preservingly encoded.
func encodeRowKey(table string, pk types.Value) []byte {
	out := encodeRowPrefix(table)
	return append(out, encoding.EncodeValue(pk)...)
}
