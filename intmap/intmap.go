// Package intmap implements a memory-lean map from int64 keys to values.
//
// Most maps in the intended workloads are empty or hold a single entry, so a
// Map starts without any tree at all: an empty map holds nothing, a
// single-entry map stores its pair inline, and only a second key promotes it
// to a splay tree. The tree stores BucketSize consecutive keys per node and
// splays on every access, which makes clustered and repeated accesses cheap.
//
// A Map is not safe for concurrent use. Lookups reorganize the tree, so even
// Get must be serialized with every other call on the same map. Values are
// never owned by the map; Destroy releases the structure only.
package intmap

import (
	"fmt"
	"unsafe"

	"github.com/btree-query-bench/intmap/cellpool"
)

// Kind names the representation a Map currently uses.
type Kind uint8

const (
	Empty  Kind = iota // no entries, no storage
	Single             // one entry stored inline
	Tree               // bucketed splay tree

	destroyed // after Destroy; any further use panics
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Single:
		return "Single"
	case Tree:
		return "Tree"
	case destroyed:
		return "Destroyed"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Pool is a node allocator that can be shared by many maps with the same
// value type.
type Pool[V any] struct {
	cells *cellpool.Pool[node[V]]
}

// NewPool returns a node allocator carving slabs of slabNodes nodes.
func NewPool[V any](slabNodes int) *Pool[V] {
	return &Pool[V]{cells: cellpool.New[node[V]](slabNodes)}
}

// Stats reports node allocation counters.
func (p *Pool[V]) Stats() cellpool.Stats {
	return p.cells.Stats()
}

// Map maps int64 keys to values of type V.
//
// The representation only grows: Empty becomes Single on the first key and
// Single becomes Tree on a second distinct key. Deleting the only entry of a
// Single map returns it to Empty, but a Tree map stays a Tree even when it
// drains completely, so alternating inserts and deletes do not thrash
// between representations.
type Map[V any] struct {
	kind    Kind
	entries int
	minKey  int64 // bounds of the live keys, valid while entries > 0
	maxKey  int64
	value   V // Single payload; its key is maxKey
	tree    tree[V]
}

// New returns an empty map whose nodes come straight from the heap.
func New[V any]() *Map[V] {
	return &Map[V]{}
}

// NewWithPool returns an empty map allocating its nodes from p.
func NewWithPool[V any](p *Pool[V]) *Map[V] {
	m := &Map[V]{}
	if p != nil {
		m.tree.cells = p.cells
	}
	return m
}

// live returns the representation, panicking on a destroyed map.
func (m *Map[V]) live() Kind {
	if m.kind == destroyed {
		panic("intmap: use of destroyed map")
	}
	return m.kind
}

// Destroy releases all nodes back to the allocator. The values are not
// touched. Any later call on m panics.
func (m *Map[V]) Destroy() {
	if m.live() == Tree {
		m.tree.free()
	}
	var zero V
	m.value = zero
	m.entries = 0
	m.kind = destroyed
}

// Kind returns the current representation.
func (m *Map[V]) Kind() Kind { return m.live() }

// Len returns the number of live entries.
func (m *Map[V]) Len() int {
	m.live()
	return m.entries
}

// Bounds returns the smallest and largest key the map may contain. The
// bounds enclose every live key; after deletions from a tree the lower
// bound may be smaller than the smallest live key. ok is false for an
// empty map.
func (m *Map[V]) Bounds() (lo, hi int64, ok bool) {
	m.live()
	if m.entries == 0 {
		return 0, 0, false
	}
	return m.minKey, m.maxKey, true
}

// Get returns the value stored under key. A nil map holds nothing.
func (m *Map[V]) Get(key int64) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	switch m.live() {
	case Single:
		if key == m.maxKey {
			return m.value, true
		}
	case Tree:
		if m.entries == 0 || key < m.minKey || key > m.maxKey {
			return zero, false
		}
		if n := m.tree.find(key); n != nil && n.occupied(slotOf(key)) {
			return n.vals[slotOf(key)], true
		}
	}
	return zero, false
}

// Ref returns a pointer to the value slot for key, creating the entry with
// the zero value if it does not exist yet. The pointer stays valid until the
// next call that mutates m.
func (m *Map[V]) Ref(key int64) *V {
	switch m.live() {
	case Empty:
		var zero V
		m.kind = Single
		m.value = zero
		m.minKey, m.maxKey = key, key
		m.entries = 1
		return &m.value
	case Single:
		if key == m.maxKey {
			return &m.value
		}
		m.promote()
	}

	n, created := m.tree.slot(key)
	if created {
		m.include(key)
	}
	return &n.vals[slotOf(key)]
}

// Assign stores v under key, replacing any previous value.
func (m *Map[V]) Assign(key int64, v V) {
	*m.Ref(key) = v
}

// Delete removes key and returns the value it held.
func (m *Map[V]) Delete(key int64) (V, bool) {
	var zero V
	switch m.live() {
	case Empty:
		return zero, false
	case Single:
		if key != m.maxKey {
			return zero, false
		}
		v := m.value
		m.value = zero
		m.kind = Empty
		m.entries = 0
		m.minKey, m.maxKey = 0, 0
		return v, true
	}

	v, n, res := m.tree.extractValue(key)
	switch res {
	case extractMissing:
		return zero, false
	case extractRemoved:
		m.tree.cells.Free(n)
	}
	m.entries--

	if key == m.maxKey {
		if last := m.tree.maxNode(); last != nil {
			m.maxKey = last.lastKey()
		} else {
			m.maxKey = m.minKey
		}
	}
	return v, true
}

// promote moves the inline pair of a Single map into a fresh tree.
func (m *Map[V]) promote() {
	v := m.value
	var zero V
	m.value = zero
	m.kind = Tree
	m.tree.insertValue(m.maxKey, v)
}

// include accounts for a newly created entry under key.
func (m *Map[V]) include(key int64) {
	if m.entries == 0 {
		m.minKey, m.maxKey = key, key
	} else {
		m.minKey = min(m.minKey, key)
		m.maxKey = max(m.maxKey, key)
	}
	m.entries++
}

// Nodes returns the number of tree nodes in use.
func (m *Map[V]) Nodes() int {
	if m.live() != Tree {
		return 0
	}
	return m.tree.nodes()
}

// Storage estimates the bytes held by the map structure, excluding the
// values' referents.
func (m *Map[V]) Storage() int {
	var n node[V]
	return int(unsafe.Sizeof(*m)) + m.Nodes()*int(unsafe.Sizeof(n))
}
