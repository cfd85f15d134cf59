// Package sortedindex is a baseline that keeps every entry in one slice
// sorted by key. Lookups are binary searches; inserts and deletes shift the
// tail of the slice.
package sortedindex

import (
	"slices"

	"github.com/btree-query-bench/intmap/index"
)

var _ index.Index = (*SortedIndex)(nil)

type entry struct {
	key int64
	val []byte
}

type SortedIndex struct {
	data []entry
}

func New() *SortedIndex {
	return &SortedIndex{}
}

func (s *SortedIndex) search(key int64) (int, bool) {
	return slices.BinarySearchFunc(s.data, key, func(e entry, k int64) int {
		switch {
		case e.key < k:
			return -1
		case e.key > k:
			return 1
		}
		return 0
	})
}

func (s *SortedIndex) Insert(key int64, value []byte) error {
	i, ok := s.search(key)
	if ok {
		s.data[i].val = value
		return nil
	}
	s.data = slices.Insert(s.data, i, entry{key: key, val: value})
	return nil
}

func (s *SortedIndex) Get(key int64) ([]byte, error) {
	i, ok := s.search(key)
	if !ok {
		return nil, index.ErrNotFound
	}
	return s.data[i].val, nil
}

func (s *SortedIndex) Delete(key int64) error {
	i, ok := s.search(key)
	if !ok {
		return index.ErrNotFound
	}
	s.data = slices.Delete(s.data, i, i+1)
	return nil
}

// Range returns an iterator over a copy of the entries in [start, end].
func (s *SortedIndex) Range(start, end int64) (index.Iterator, error) {
	lo, _ := s.search(start)
	hi := lo
	for hi < len(s.data) && s.data[hi].key <= end {
		hi++
	}
	return &iterator{data: slices.Clone(s.data[lo:hi]), cur: -1}, nil
}

func (s *SortedIndex) Len() int     { return len(s.data) }
func (s *SortedIndex) Close() error { s.data = nil; return nil }

type iterator struct {
	data []entry
	cur  int
}

func (it *iterator) Next() bool    { it.cur++; return it.cur < len(it.data) }
func (it *iterator) Key() int64    { return it.data[it.cur].key }
func (it *iterator) Value() []byte { return it.data[it.cur].val }
func (it *iterator) Error() error  { return nil }
func (it *iterator) Close() error  { return nil }
