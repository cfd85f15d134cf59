package intmap

import (
	"iter"

	"github.com/btree-query-bench/intmap/stack"
)

// Iterator walks the entries of a Map whose keys lie in a closed range, in
// ascending key order. It reads the map without reorganizing it and is only
// valid while the map is not mutated; a mutation makes its results
// undefined.
type Iterator[V any] struct {
	m      *Map[V]
	kind   Kind
	lo, hi int64

	seen bool // Single: the pair was produced or is out of range

	path *stack.Stack[*node[V]] // Tree: nodes still to visit
	cur  *node[V]               // Tree: node being drained
	slot int                    // Tree: next slot of cur

	closed bool
}

// Iter returns an iterator over the entries with lo <= key <= hi. The range
// is clipped to the map's bounds. Close must be called when done with it;
// All does that automatically.
func (m *Map[V]) Iter(lo, hi int64) *Iterator[V] {
	it := &Iterator[V]{m: m, kind: m.live(), lo: lo, hi: hi}
	if m.entries == 0 {
		it.kind = Empty
		return it
	}
	it.lo = max(lo, m.minKey)
	it.hi = min(hi, m.maxKey)

	switch it.kind {
	case Single:
		it.seen = m.maxKey < lo || m.maxKey > hi
	case Tree:
		it.path = stack.New[*node[V]](16)
		if it.lo <= it.hi {
			m.tree.traverseInit(it.path, bucketOf(it.lo))
		}
	}
	return it
}

// Next returns the next entry. ok is false once the range is exhausted.
func (it *Iterator[V]) Next() (key int64, v V, ok bool) {
	if it.closed {
		panic("intmap: Next on closed iterator")
	}

	switch it.kind {
	case Single:
		if !it.seen {
			it.seen = true
			return it.m.maxKey, it.m.value, true
		}
	case Tree:
		for {
			if it.cur == nil {
				it.cur = traverseNext(it.path)
				if it.cur == nil || it.cur.key > it.hi {
					it.finish()
					return 0, v, false
				}
				it.slot = 0
			}
			for it.slot < BucketSize {
				s := it.slot
				it.slot++
				k := it.cur.key + int64(s)
				if k > it.hi {
					it.finish()
					return 0, v, false
				}
				if k >= it.lo && it.cur.occupied(s) {
					return k, it.cur.vals[s], true
				}
			}
			it.cur = nil
		}
	}
	return 0, v, false
}

// finish drops the traversal state once the end of the range is reached.
func (it *Iterator[V]) finish() {
	it.cur = nil
	it.path.Reset()
}

// Close releases the traversal state. Calling Close more than once is
// harmless; calling Next after Close panics.
func (it *Iterator[V]) Close() {
	if it.closed {
		return
	}
	if it.path != nil {
		it.path.Reset()
		it.path = nil
	}
	it.cur = nil
	it.m = nil
	it.closed = true
}

// All returns a sequence over the entries with lo <= key <= hi in ascending
// order. The underlying iterator is closed when the loop ends, including on
// break. The map must not be mutated during the loop.
func (m *Map[V]) All(lo, hi int64) iter.Seq2[int64, V] {
	return func(yield func(int64, V) bool) {
		it := m.Iter(lo, hi)
		defer it.Close()
		for k, v, ok := it.Next(); ok; k, v, ok = it.Next() {
			if !yield(k, v) {
				return
			}
		}
	}
}
