// Package keyindex maintains a sorted index over the keys of complete
// entries, used to pick the minimum-key entry for key-less retrieval in
// ordered mode.
package keyindex

import (
	"cmp"

	"github.com/google/btree"
)

// B-tree degree; the index holds bare keys, so a moderately wide node
// keeps the tree shallow without wasting much space.
const degree = 16

// Index is a sorted set of keys. Not safe for concurrent use; the owning
// structure guards it with its own lock.
type Index[K cmp.Ordered] struct {
	tree *btree.BTreeG[K]
}

// New creates an empty index.
func New[K cmp.Ordered]() *Index[K] {
	return &Index[K]{
		tree: btree.NewG[K](degree, func(a, b K) bool { return a < b }),
	}
}

// Insert adds key to the index. Inserting a key twice is a no-op.
func (ix *Index[K]) Insert(key K) {
	ix.tree.ReplaceOrInsert(key)
}

// Delete removes key from the index, reporting whether it was present.
func (ix *Index[K]) Delete(key K) bool {
	_, ok := ix.tree.Delete(key)
	return ok
}

// Min returns the smallest key in the index.
func (ix *Index[K]) Min() (K, bool) {
	return ix.tree.Min()
}

// Len returns the number of indexed keys.
func (ix *Index[K]) Len() int {
	return ix.tree.Len()
}

// Clear empties the index.
func (ix *Index[K]) Clear() {
	ix.tree.Clear(false)
}
