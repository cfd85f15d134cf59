// Package splayindex exposes an intmap.Map through the index.Index
// interface.
package splayindex

import (
	"github.com/btree-query-bench/intmap/index"
	"github.com/btree-query-bench/intmap/intmap"
)

// Ensure SplayIndex implements the index.Index interface
var _ index.Index = (*SplayIndex)(nil)

type SplayIndex struct {
	m *intmap.Map[[]byte]
}

// New returns an empty index. A nil pool allocates nodes from the heap.
func New(pool *intmap.Pool[[]byte]) *SplayIndex {
	return &SplayIndex{m: intmap.NewWithPool(pool)}
}

// Map returns the underlying map.
func (s *SplayIndex) Map() *intmap.Map[[]byte] { return s.m }

func (s *SplayIndex) Insert(key int64, value []byte) error {
	s.m.Assign(key, value)
	return nil
}

func (s *SplayIndex) Get(key int64) ([]byte, error) {
	v, ok := s.m.Get(key)
	if !ok {
		return nil, index.ErrNotFound
	}
	return v, nil
}

func (s *SplayIndex) Delete(key int64) error {
	if _, ok := s.m.Delete(key); !ok {
		return index.ErrNotFound
	}
	return nil
}

// Range returns an iterator over [start, end]. The index must not be
// modified until the iterator is closed.
func (s *SplayIndex) Range(start, end int64) (index.Iterator, error) {
	return &rangeIterator{it: s.m.Iter(start, end)}, nil
}

// Close releases the map's nodes. The index is unusable afterwards.
func (s *SplayIndex) Close() error {
	s.m.Destroy()
	return nil
}

type rangeIterator struct {
	it  *intmap.Iterator[[]byte]
	key int64
	val []byte
}

func (r *rangeIterator) Next() bool {
	k, v, ok := r.it.Next()
	if ok {
		r.key, r.val = k, v
	}
	return ok
}

func (r *rangeIterator) Key() int64    { return r.key }
func (r *rangeIterator) Value() []byte { return r.val }
func (r *rangeIterator) Error() error  { return nil }
func (r *rangeIterator) Close() error  { r.it.Close(); return nil }
