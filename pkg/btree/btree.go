package btree

import "bytes"

// BPlusTree is a B+Tree over []byte keys and []byte values. All
// structural access assumes a single caller at a time; concurrency is the
// responsibility of pkg/mvcc's engine-wide mutex, not this structure.
type BPlusTree struct {
	T    int
	Root *Node
}

// NewTree creates an empty tree with minimum degree t (each non-root node
// holds between t-1 and 2t-1 keys).
func NewTree(t int) *BPlusTree {
	return &BPlusTree{T: t, Root: NewNode(t, true)}
}

// Upsert inserts or updates key, running fn with the current value (nil,
// false if absent) to produce the value to store.
func (b *BPlusTree) Upsert(key []byte, fn func(old []byte, exists bool) (newValue []byte, err error)) error {
	root := b.Root

	if root.IsFull() {
		newRoot := NewNode(b.T, false)
		newRoot.Children = append(newRoot.Children, root)
		newRoot.SplitChild(0)
		b.Root = newRoot
		return b.upsertTopDown(newRoot, key, fn)
	}
	return b.upsertTopDown(root, key, fn)
}

// upsertTopDown descends to the target leaf, splitting any full node it
// passes through preventively so the leaf it lands on never needs to
// split itself.
func (b *BPlusTree) upsertTopDown(curr *Node, key []byte, fn func(old []byte, exists bool) (newValue []byte, err error)) error {
	for !curr.Leaf {
		i := curr.childIndex(key)
		child := curr.Children[i]

		if child.IsFull() {
			curr.SplitChild(i)
			if bytes.Compare(key, curr.Keys[i]) >= 0 {
				child = curr.Children[i+1]
			}
		}
		curr = child
	}
	return curr.UpsertNonFull(key, fn)
}

// Get returns the value stored for key, if any.
func (b *BPlusTree) Get(key []byte) ([]byte, bool) {
	if b == nil || b.Root == nil {
		return nil, false
	}
	node, ok := b.Root.Search(key)
	if !ok {
		return nil, false
	}
	for i := 0; i < node.N; i++ {
		if bytes.Equal(node.Keys[i], key) {
			return node.Values[i], true
		}
	}
	return nil, false
}

// Delete removes key from the tree, reporting whether it was present.
func (b *BPlusTree) Delete(key []byte) bool {
	ok := b.Root.Remove(key)
	if !b.Root.Leaf && b.Root.N == 0 {
		b.Root = b.Root.Children[0]
	}
	return ok
}

// FindLeafLowerBound descends to the leaf that would hold the first key
// >= key (or the leftmost leaf if key is nil).
func (b *BPlusTree) FindLeafLowerBound(key []byte) (*Node, int) {
	leaf, idx := b.Root.FindLeafLowerBound(key)
	if idx >= leaf.N && leaf.Next != nil {
		return leaf.Next, 0
	}
	return leaf, idx
}
