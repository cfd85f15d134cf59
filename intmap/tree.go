package intmap

import (
	"github.com/btree-query-bench/intmap/cellpool"
	"github.com/btree-query-bench/intmap/stack"
)

// BucketSize is the number of consecutive keys that share one tree node.
// Larger values spread the per-node overhead over dense key clusters and
// waste slots on sparse ones. It must be a power of two no larger than 8.
const BucketSize = 4

const slotMask = BucketSize - 1

// Compile-time checks on BucketSize: power of two, and every slot has a
// bit in node.used.
var _ = [1]struct{}{}[BucketSize&slotMask]

const _ uint8 = 1 << (BucketSize - 1)

// bucketOf returns the key of the node holding key. Masking gives floor
// semantics, so negative keys land in the bucket below them.
func bucketOf(key int64) int64 { return key &^ slotMask }

func slotOf(key int64) int { return int(key & slotMask) }

// node is one bucket of the splay tree. Each node exclusively owns its
// children.
type node[V any] struct {
	key   int64 // multiple of BucketSize
	used  uint8 // bit i set when vals[i] holds a live entry
	vals  [BucketSize]V
	left  *node[V]
	right *node[V]
}

func (n *node[V]) occupied(slot int) bool { return n.used&(1<<slot) != 0 }

func (n *node[V]) empty() bool { return n.used == 0 }

// lastKey returns the largest live key stored in n.
func (n *node[V]) lastKey() int64 {
	for s := BucketSize - 1; s > 0; s-- {
		if n.occupied(s) {
			return n.key + int64(s)
		}
	}
	return n.key
}

// splay moves the node whose key is closest to key to the root of t and
// returns the new root. It is the top-down variant: nodes passed on the
// way down hang off two chains rooted in a header cell, and the chains
// become the new root's subtrees when the walk stops.
func splay[V any](t *node[V], key int64) *node[V] {
	if t == nil {
		return nil
	}

	var header node[V]
	l, r := &header, &header

	for {
		if key < t.key {
			if t.left == nil {
				break
			}
			if key < t.left.key {
				// zig-zig: rotate right first
				y := t.left
				t.left = y.right
				y.right = t
				t = y
				if t.left == nil {
					break
				}
			}
			// link right
			r.left = t
			r = t
			t = t.left
		} else if key > t.key {
			if t.right == nil {
				break
			}
			if key > t.right.key {
				// zag-zag: rotate left first
				y := t.right
				t.right = y.left
				y.left = t
				t = y
				if t.right == nil {
					break
				}
			}
			// link left
			l.right = t
			l = t
			t = t.right
		} else {
			break
		}
	}

	// assemble
	l.right = t.left
	r.left = t.right
	t.left = header.right
	t.right = header.left
	return t
}

// extractResult tells the caller of extractValue what happened to the
// bucket the value came from.
type extractResult uint8

const (
	extractMissing  extractResult = iota // no live entry for the key
	extractRetained                      // bucket still holds other entries
	extractRemoved                       // bucket emptied and unlinked; caller releases it
)

// tree is a splay tree of buckets keyed by bucket key.
type tree[V any] struct {
	root  *node[V]
	cells *cellpool.Pool[node[V]]
}

// insertNode links n into the tree. If a node with n.key already exists,
// it is returned and n is left untouched; otherwise n becomes the root and
// insertNode returns nil.
func (t *tree[V]) insertNode(n *node[V]) *node[V] {
	if t.root == nil {
		n.left, n.right = nil, nil
		t.root = n
		return nil
	}
	t.root = splay(t.root, n.key)

	switch {
	case n.key < t.root.key:
		n.left = t.root.left
		n.right = t.root
		t.root.left = nil
	case n.key > t.root.key:
		n.right = t.root.right
		n.left = t.root
		t.root.right = nil
	default:
		return t.root
	}
	t.root = n
	return nil
}

// find splays the bucket of key to the root and returns it, or nil if no
// such bucket exists. The tree shape changes even on a miss.
func (t *tree[V]) find(key int64) *node[V] {
	if t.root == nil {
		return nil
	}
	b := bucketOf(key)
	t.root = splay(t.root, b)
	if t.root.key == b {
		return t.root
	}
	return nil
}

// slot returns the node holding key, creating the bucket if needed and
// marking key's slot live. created reports whether the slot was empty
// before the call.
func (t *tree[V]) slot(key int64) (n *node[V], created bool) {
	n = t.find(key)
	if n == nil {
		n = t.cells.Alloc()
		n.key = bucketOf(key)
		t.insertNode(n)
	}
	s := slotOf(key)
	if n.occupied(s) {
		return n, false
	}
	n.used |= 1 << s
	return n, true
}

// insertValue stores v under key. If key already holds a live entry the
// existing node is returned and nothing is overwritten; the caller decides
// what a conflict means. Otherwise it returns nil.
func (t *tree[V]) insertValue(key int64, v V) *node[V] {
	n, created := t.slot(key)
	if !created {
		return n
	}
	n.vals[slotOf(key)] = v
	return nil
}

// extractValue removes the entry for key and returns its value together
// with the bucket it came from. With extractRemoved the bucket has been
// spliced out of the tree and must be released by the caller; with
// extractRetained it stays in the tree.
func (t *tree[V]) extractValue(key int64) (V, *node[V], extractResult) {
	var zero V
	n := t.find(key)
	if n == nil {
		return zero, nil, extractMissing
	}
	s := slotOf(key)
	if !n.occupied(s) {
		return zero, nil, extractMissing
	}

	v := n.vals[s]
	n.vals[s] = zero
	n.used &^= 1 << s
	if !n.empty() {
		return v, n, extractRetained
	}

	// n is the root. Every key in its left subtree is smaller, so
	// splaying that subtree for n.key leaves its maximum at the top with
	// no right child.
	if n.left == nil {
		t.root = n.right
	} else {
		x := splay(n.left, n.key)
		x.right = n.right
		t.root = x
	}
	n.left, n.right = nil, nil
	return v, n, extractRemoved
}

// deleteEntry removes the entry for key and releases its bucket if it
// became empty. It reports whether an entry was removed.
func (t *tree[V]) deleteEntry(key int64) bool {
	_, n, res := t.extractValue(key)
	if res == extractRemoved {
		t.cells.Free(n)
	}
	return res != extractMissing
}

// maxNode returns the rightmost node without reorganizing the tree.
func (t *tree[V]) maxNode() *node[V] {
	n := t.root
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

// nodes counts the buckets in the tree.
func (t *tree[V]) nodes() int {
	if t.root == nil {
		return 0
	}
	var s stack.Stack[*node[V]]
	s.Push(t.root)
	count := 0
	for !s.Empty() {
		n := s.Pop()
		count++
		if n.left != nil {
			s.Push(n.left)
		}
		if n.right != nil {
			s.Push(n.right)
		}
	}
	return count
}

// free releases every node. It walks an explicit work-list so that deep,
// unbalanced trees cannot exhaust the goroutine stack.
func (t *tree[V]) free() {
	if t.root == nil {
		return
	}
	s := stack.New[*node[V]](64)
	s.Push(t.root)
	for !s.Empty() {
		n := s.Pop()
		if n.left != nil {
			s.Push(n.left)
		}
		if n.right != nil {
			s.Push(n.right)
		}
		t.cells.Free(n)
	}
	t.root = nil
}

// traverseInit fills path with the ancestors of the smallest node whose
// key is at least limit, deepest last. traverseNext then yields the nodes
// in ascending key order starting there.
func (t *tree[V]) traverseInit(path *stack.Stack[*node[V]], limit int64) {
	n := t.root
	for n != nil {
		if n.key < limit {
			n = n.right
			continue
		}
		path.Push(n)
		if n.key == limit {
			break
		}
		n = n.left
	}
}

// traverseNext pops the next node in key order, or returns nil when the
// traversal is done.
func traverseNext[V any](path *stack.Stack[*node[V]]) *node[V] {
	if path.Empty() {
		return nil
	}
	res := path.Pop()
	for n := res.right; n != nil; n = n.left {
		path.Push(n)
	}
	return res
}
