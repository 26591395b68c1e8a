// Package btree implements the sorted-tree structure backing the
// in-memory ordered key-value store (pkg/kv): a B+Tree over raw []byte
// keys and []byte values, with leaves chained for ordered range scans.
//
// Unlike earlier revisions of this structure, nodes carry no internal
// latch: the engine above (pkg/mvcc) serializes all access through one
// coarse mutex, so latch-crabbing would buy concurrency this design
// deliberately does not offer (see the concurrency model: the engine is a
// single mutually-excluded mutable resource).
package btree

import (
	"bytes"
	"sort"
)

// Node is one node of the B+Tree: an internal node holds only Keys and
// Children; a leaf holds Keys, Values, and a Next pointer chaining leaves
// in ascending key order for range scans.
type Node struct {
	T        int // minimum degree
	Keys     [][]byte
	Values   [][]byte // leaf only
	Children []*Node  // internal only
	Leaf     bool
	N        int // current key count
	Next     *Node
}

func NewNode(t int, leaf bool) *Node {
	return &Node{
		T:        t,
		Leaf:     leaf,
		Keys:     make([][]byte, 0, 2*t-1),
		Values:   make([][]byte, 0, 2*t-1),
		Children: make([]*Node, 0, 2*t),
	}
}

func (n *Node) IsFull() bool { return n.N == 2*n.T-1 }

// Search finds the leaf that would contain key and reports whether it is
// present there.
func (n *Node) Search(key []byte) (*Node, bool) {
	if n.Leaf {
		idx := sort.Search(n.N, func(i int) bool { return bytes.Compare(n.Keys[i], key) >= 0 })
		if idx < n.N && bytes.Equal(n.Keys[idx], key) {
			return n, true
		}
		return nil, false
	}
	i := n.childIndex(key)
	return n.Children[i].Search(key)
}

func (n *Node) childIndex(key []byte) int {
	i := 0
	for i < n.N && bytes.Compare(key, n.Keys[i]) >= 0 {
		i++
	}
	return i
}

// FindLeafLowerBound descends to the leaf where key would be inserted
// (or, for key == nil, the leftmost leaf) and returns that leaf plus the
// index of the first key >= key within it.
func (n *Node) FindLeafLowerBound(key []byte) (*Node, int) {
	if n.Leaf {
		if key == nil {
			return n, 0
		}
		idx := sort.Search(n.N, func(i int) bool { return bytes.Compare(n.Keys[i], key) >= 0 })
		return n, idx
	}
	var i int
	if key == nil {
		i = 0
	} else {
		i = n.childIndex(key)
	}
	return n.Children[i].FindLeafLowerBound(key)
}

// UpsertNonFull inserts or updates key in a node guaranteed not to require
// a split (the caller splits preventively on the way down). fn is given
// the existing value (if any) and returns the value to store.
func (n *Node) UpsertNonFull(key []byte, fn func(old []byte, exists bool) (newValue []byte, err error)) error {
	if n.Leaf {
		idx := sort.Search(n.N, func(i int) bool { return bytes.Compare(n.Keys[i], key) >= 0 })

		if idx < n.N && bytes.Equal(n.Keys[idx], key) {
			newValue, err := fn(n.Values[idx], true)
			if err != nil {
				return err
			}
			n.Values[idx] = newValue
			return nil
		}

		newValue, err := fn(nil, false)
		if err != nil {
			return err
		}

		n.Keys = append(n.Keys, nil)
		n.Values = append(n.Values, nil)
		copy(n.Keys[idx+1:], n.Keys[idx:])
		copy(n.Values[idx+1:], n.Values[idx:])
		n.Keys[idx] = key
		n.Values[idx] = newValue
		n.N++
		return nil
	}

	i := n.childIndex(key)
	if n.Children[i].N == 2*n.T-1 {
		n.SplitChild(i)
		if bytes.Compare(key, n.Keys[i]) >= 0 {
			i++
		}
	}
	return n.Children[i].UpsertNonFull(key, fn)
}

// SplitChild splits the full child at index i, pushing the separator key
// up into n.
func (n *Node) SplitChild(i int) {
	t := n.T
	y := n.Children[i]
	z := NewNode(t, y.Leaf)

	if y.Leaf {
		mid := t - 1
		z.N = y.N - mid
		z.Keys = append(z.Keys, y.Keys[mid:]...)
		z.Values = append(z.Values, y.Values[mid:]...)

		y.Keys = y.Keys[:mid]
		y.Values = y.Values[:mid]
		y.N = mid

		z.Next = y.Next
		y.Next = z
	} else {
		mid := t - 1
		z.N = t - 1
		z.Keys = append(z.Keys, y.Keys[mid+1:]...)
		z.Children = append(z.Children, y.Children[mid+1:]...)

		upKey := y.Keys[mid]

		y.Keys = y.Keys[:mid]
		y.Children = y.Children[:mid+1]
		y.N = mid

		n.Keys = append(n.Keys, nil)
		copy(n.Keys[i+1:], n.Keys[i:])
		n.Keys[i] = upKey

		n.Children = append(n.Children, nil)
		copy(n.Children[i+2:], n.Children[i+1:])
		n.Children[i+1] = z
		n.N++
		return
	}

	n.Keys = append(n.Keys, nil)
	copy(n.Keys[i+1:], n.Keys[i:])
	n.Keys[i] = z.Keys[0]

	n.Children = append(n.Children, nil)
	copy(n.Children[i+2:], n.Children[i+1:])
	n.Children[i+1] = z
	n.N++
}

func (n *Node) remove(key []byte) bool {
	idx := sort.Search(n.N, func(i int) bool { return bytes.Compare(n.Keys[i], key) >= 0 })

	if n.Leaf {
		if idx < n.N && bytes.Equal(n.Keys[idx], key) {
			n.Keys = append(n.Keys[:idx], n.Keys[idx+1:]...)
			n.Values = append(n.Values[:idx], n.Values[idx+1:]...)
			n.N--
			return true
		}
		return false
	}

	childIdx := idx
	if idx < n.N && bytes.Equal(n.Keys[idx], key) {
		childIdx = idx + 1
	}

	child := n.Children[childIdx]
	if child.N < n.T {
		n.fill(childIdx)
	}

	return n.removeRecursive(key)
}

func (n *Node) removeRecursive(key []byte) bool {
	idx := sort.Search(n.N, func(i int) bool { return bytes.Compare(n.Keys[i], key) >= 0 })

	childIdx := idx
	if idx < n.N && bytes.Equal(n.Keys[idx], key) {
		childIdx = idx + 1
	}
	if childIdx > n.N {
		childIdx = n.N
	}

	ok := n.Children[childIdx].remove(key)
	if ok {
		n.fixSeparators()
	}
	return ok
}

func (n *Node) fixSeparators() {
	if n.Leaf {
		return
	}
	for i := 0; i < n.N; i++ {
		curr := n.Children[i+1]
		for !curr.Leaf {
			curr = curr.Children[0]
		}
		if curr.N > 0 {
			n.Keys[i] = curr.Keys[0]
		}
	}
}

func (n *Node) fill(i int) {
	if i != 0 && n.Children[i-1].N >= n.T {
		n.borrowFromPrev(i)
	} else if i != n.N && n.Children[i+1].N >= n.T {
		n.borrowFromNext(i)
	} else {
		if i != n.N {
			n.merge(i)
		} else {
			n.merge(i - 1)
		}
	}
}

func (n *Node) borrowFromPrev(i int) {
	child := n.Children[i]
	sibling := n.Children[i-1]

	if child.Leaf {
		child.Keys = append([][]byte{nil}, child.Keys...)
		child.Values = append([][]byte{nil}, child.Values...)
		child.Keys[0] = sibling.Keys[sibling.N-1]
		child.Values[0] = sibling.Values[sibling.N-1]
		child.N++

		sibling.Keys = sibling.Keys[:sibling.N-1]
		sibling.Values = sibling.Values[:sibling.N-1]
		sibling.N--

		n.Keys[i-1] = child.Keys[0]
	} else {
		child.Keys = append([][]byte{nil}, child.Keys...)
		child.Children = append([]*Node{nil}, child.Children...)
		child.Keys[0] = n.Keys[i-1]
		child.Children[0] = sibling.Children[sibling.N]
		child.N++

		n.Keys[i-1] = sibling.Keys[sibling.N-1]
		sibling.Keys = sibling.Keys[:sibling.N-1]
		sibling.Children = sibling.Children[:sibling.N]
		sibling.N--
	}
}

func (n *Node) borrowFromNext(i int) {
	child := n.Children[i]
	sibling := n.Children[i+1]

	if child.Leaf {
		child.Keys = append(child.Keys, sibling.Keys[0])
		child.Values = append(child.Values, sibling.Values[0])
		child.N++

		sibling.Keys = append([][]byte{}, sibling.Keys[1:]...)
		sibling.Values = append([][]byte{}, sibling.Values[1:]...)
		sibling.N--

		n.Keys[i] = sibling.Keys[0]
	} else {
		child.Keys = append(child.Keys, n.Keys[i])
		child.Children = append(child.Children, sibling.Children[0])
		child.N++

		n.Keys[i] = sibling.Keys[0]
		sibling.Keys = append([][]byte{}, sibling.Keys[1:]...)
		sibling.Children = append([]*Node{}, sibling.Children[1:]...)
		sibling.N--
	}
}

func (n *Node) merge(i int) {
	child := n.Children[i]
	sibling := n.Children[i+1]

	if child.Leaf {
		child.Keys = append(child.Keys, sibling.Keys...)
		child.Values = append(child.Values, sibling.Values...)
		child.Next = sibling.Next
		child.N = len(child.Keys)
	} else {
		child.Keys = append(child.Keys, n.Keys[i])
		child.Keys = append(child.Keys, sibling.Keys...)
		child.Children = append(child.Children, sibling.Children...)
		child.N = len(child.Keys)
	}

	n.Keys = append(n.Keys[:i], n.Keys[i+1:]...)
	n.Children = append(n.Children[:i+1], n.Children[i+2:]...)
	n.N--
}

// Remove deletes key from the subtree rooted at n, rebalancing as needed.
func (n *Node) Remove(key []byte) bool { return n.remove(key) }
