// Package btreeindex is an in-memory baseline backed by google/btree.
package btreeindex

import (
	"github.com/btree-query-bench/intmap/index"
	"github.com/google/btree"
)

var _ index.Index = (*BTree)(nil)

type entry struct {
	key int64
	val []byte
}

func less(a, b entry) bool { return a.key < b.key }

type BTree struct {
	t *btree.BTreeG[entry]
}

// New returns an empty tree of the given degree. Degrees below 2 are
// raised to 2.
func New(degree int) *BTree {
	if degree < 2 {
		degree = 2
	}
	return &BTree{t: btree.NewG(degree, less)}
}

func (bt *BTree) Insert(key int64, value []byte) error {
	bt.t.ReplaceOrInsert(entry{key: key, val: value})
	return nil
}

func (bt *BTree) Get(key int64) ([]byte, error) {
	e, ok := bt.t.Get(entry{key: key})
	if !ok {
		return nil, index.ErrNotFound
	}
	return e.val, nil
}

func (bt *BTree) Delete(key int64) error {
	if _, ok := bt.t.Delete(entry{key: key}); !ok {
		return index.ErrNotFound
	}
	return nil
}

// Range collects [start, end] up front, so the iterator stays valid when
// the tree changes underneath it.
func (bt *BTree) Range(start, end int64) (index.Iterator, error) {
	it := &iterator{idx: -1}
	bt.t.AscendGreaterOrEqual(entry{key: start}, func(e entry) bool {
		if e.key > end {
			return false
		}
		it.data = append(it.data, e)
		return true
	})
	return it, nil
}

func (bt *BTree) Len() int     { return bt.t.Len() }
func (bt *BTree) Close() error { bt.t.Clear(false); return nil }

type iterator struct {
	data []entry
	idx  int
}

func (it *iterator) Next() bool    { it.idx++; return it.idx < len(it.data) }
func (it *iterator) Key() int64    { return it.data[it.idx].key }
func (it *iterator) Value() []byte { return it.data[it.idx].val }
func (it *iterator) Error() error  { return nil }
func (it *iterator) Close() error  { return nil }
