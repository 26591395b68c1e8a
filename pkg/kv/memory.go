package kv

import (
	"bytes"

	"github.com/bobboyms/kvsql/pkg/btree"
	"github.com/bobboyms/kvsql/pkg/encoding"
)

// defaultDegree is the B+Tree minimum degree every MemoryStore uses; the
// fan-out is not configurable by the caller.
const defaultDegree = 32

// MemoryStore is the reference in-memory ordered key-value store: a pure
// in-memory sorted tree, as called for by the out-of-scope framing around
// durable on-disk engines. It is not safe for concurrent use by itself —
// pkg/mvcc serializes all access to it through one engine-wide mutex.
type MemoryStore struct {
	tree *btree.BPlusTree
}

// NewMemoryStore creates an empty store using the default tree fan-out.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tree: btree.NewTree(defaultDegree)}
}

func (m *MemoryStore) Set(key, value []byte) error {
	return m.tree.Upsert(key, func(old []byte, exists bool) ([]byte, error) {
		return value, nil
	})
}

func (m *MemoryStore) Get(key []byte) ([]byte, bool, error) {
	v, ok := m.tree.Get(key)
	return v, ok, nil
}

func (m *MemoryStore) Delete(key []byte) error {
	m.tree.Delete(key)
	return nil
}

func (m *MemoryStore) Scan(r Range) ([]Pair, error) {
	var startKey []byte
	if r.Start != nil {
		startKey = r.Start.Key
	}

	leaf, idx := m.tree.FindLeafLowerBound(startKey)
	if r.Start != nil && r.Start.Exclusive {
		for leaf != nil && idx < leaf.N && bytes.Equal(leaf.Keys[idx], r.Start.Key) {
			idx++
			if idx >= leaf.N {
				leaf, idx = leaf.Next, 0
			}
		}
	}

	var out []Pair
	for leaf != nil {
		for ; idx < leaf.N; idx++ {
			k := leaf.Keys[idx]
			if r.End != nil {
				cmp := bytes.Compare(k, r.End.Key)
				if cmp > 0 || (cmp == 0 && r.End.Exclusive) {
					return out, nil
				}
			}
			out = append(out, Pair{Key: k, Value: leaf.Values[idx]})
		}
		leaf = leaf.Next
		idx = 0
	}
	return out, nil
}

// ScanReverse returns the same pairs as Scan(r) in descending order. It
// collects ascending then reverses in place — a deliberate simplification
// consistent with this design's preference for materialization over
// streaming (see pkg/sql/exec, which materializes at every operator
// boundary too); a B+Tree leaf chain is singly linked so reverse iteration
// without a second pass would require back-pointers this structure does
// not carry.
func (m *MemoryStore) ScanReverse(r Range) ([]Pair, error) {
	pairs, err := m.Scan(r)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(pairs)-1; i < j; i, j = i+1, j-1 {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	}
	return pairs, nil
}

func (m *MemoryStore) ScanPrefix(prefix []byte) ([]Pair, error) {
	next, unbounded := encoding.PrefixNext(prefix)
	r := Range{Start: &Bound{Key: prefix}}
	if !unbounded {
		r.End = &Bound{Key: next, Exclusive: true}
	}
	return m.Scan(r)
}
