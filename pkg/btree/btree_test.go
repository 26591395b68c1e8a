package btree

import (
	"bytes"
	"fmt"
	"testing"
)

func put(t *testing.T, tree *BPlusTree, key, value []byte) {
	t.Helper()
	if err := tree.Upsert(key, func(old []byte, exists bool) ([]byte, error) {
		return value, nil
	}); err != nil {
		t.Fatalf("Upsert(%s) error: %v", key, err)
	}
}

func TestBPlusTree_InsertAndGet(t *testing.T) {
	tree := NewTree(2)
	for i := 0; i < 100; i++ {
		put(t, tree, []byte(fmt.Sprintf("key-%03d", i)), []byte(fmt.Sprintf("val-%d", i)))
	}

	for i := 0; i < 100; i++ {
		got, ok := tree.Get([]byte(fmt.Sprintf("key-%03d", i)))
		if !ok {
			t.Fatalf("key-%03d missing", i)
		}
		if want := fmt.Sprintf("val-%d", i); string(got) != want {
			t.Fatalf("key-%03d = %s, want %s", i, got, want)
		}
	}

	if _, ok := tree.Get([]byte("absent")); ok {
		t.Fatal("absent key found")
	}
}

func TestBPlusTree_UpsertUpdatesExisting(t *testing.T) {
	tree := NewTree(2)
	put(t, tree, []byte("k"), []byte("v1"))
	put(t, tree, []byte("k"), []byte("v2"))

	got, ok := tree.Get([]byte("k"))
	if !ok || string(got) != "v2" {
		t.Fatalf("Get(k) = %s, %v, want v2, true", got, ok)
	}
}

func TestBPlusTree_DeleteRebalances(t *testing.T) {
	tree := NewTree(2)
	n := 64
	for i := 0; i < n; i++ {
		put(t, tree, []byte(fmt.Sprintf("k%03d", i)), []byte{byte(i)})
	}
	for i := 0; i < n; i += 2 {
		if !tree.Delete([]byte(fmt.Sprintf("k%03d", i))) {
			t.Fatalf("delete k%03d: not found", i)
		}
	}
	for i := 0; i < n; i++ {
		_, ok := tree.Get([]byte(fmt.Sprintf("k%03d", i)))
		if i%2 == 0 && ok {
			t.Fatalf("k%03d should have been deleted", i)
		}
		if i%2 == 1 && !ok {
			t.Fatalf("k%03d should still be present", i)
		}
	}
}

func TestBPlusTree_LeafChainIsOrdered(t *testing.T) {
	tree := NewTree(2)
	keys := []string{"m", "a", "z", "b", "y", "c"}
	for _, k := range keys {
		put(t, tree, []byte(k), []byte(k))
	}

	leaf, idx := tree.FindLeafLowerBound(nil)
	var out []string
	for leaf != nil {
		for i := idx; i < leaf.N; i++ {
			out = append(out, string(leaf.Keys[i]))
		}
		leaf = leaf.Next
		idx = 0
	}

	want := []string{"a", "b", "c", "m", "y", "z"}
	if len(out) != len(want) {
		t.Fatalf("leaf chain = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("leaf chain[%d] = %s, want %s (full: %v)", i, out[i], want[i], out)
		}
	}
}

func TestBPlusTree_FindLeafLowerBoundSeeksPosition(t *testing.T) {
	tree := NewTree(2)
	for _, k := range []string{"a", "c", "e", "g", "i"} {
		put(t, tree, []byte(k), []byte(k))
	}

	leaf, idx := tree.FindLeafLowerBound([]byte("d"))
	if idx >= leaf.N || !bytes.Equal(leaf.Keys[idx], []byte("e")) {
		t.Fatalf("FindLeafLowerBound(d) landed on %v[%d], want e", leaf.Keys, idx)
	}
}
