// Package cellpool hands out fixed-size cells carved from larger slabs and
// recycles released cells through a free list, so that many small,
// short-lived objects of one type do not each cost a separate heap
// allocation.
package cellpool

// DefaultSlabCells is the number of cells carved from one slab.
const DefaultSlabCells = 256

// Stats counts slab and cell activity of a Pool.
type Stats struct {
	Slabs  uint64 // slabs allocated from the heap
	Carved uint64 // cells taken fresh from a slab
	Reused uint64 // cells served from the free list
	Live   uint64 // cells handed out and not yet freed
}

// Pool is an allocator for cells of type T. A nil *Pool is valid: it
// allocates every cell from the heap and ignores Free.
//
// Slabs are never returned to the heap while a Pool is reachable; freed
// cells are only recycled.
type Pool[T any] struct {
	slabCells int
	slab      []T // current slab; cells from next onward are unused
	next      int
	free      []*T
	stats     Stats
}

// New returns a pool carving slabs of slabCells cells.
// A non-positive slabCells selects DefaultSlabCells.
func New[T any](slabCells int) *Pool[T] {
	if slabCells <= 0 {
		slabCells = DefaultSlabCells
	}
	return &Pool[T]{slabCells: slabCells}
}

// Alloc returns a zeroed cell.
func (p *Pool[T]) Alloc() *T {
	if p == nil {
		return new(T)
	}
	p.stats.Live++

	if n := len(p.free); n > 0 {
		c := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.stats.Reused++
		return c
	}

	if p.next == len(p.slab) {
		p.slab = make([]T, p.slabCells)
		p.next = 0
		p.stats.Slabs++
	}
	c := &p.slab[p.next]
	p.next++
	p.stats.Carved++
	return c
}

// Free zeroes c and makes it available to a later Alloc. Each cell must be
// freed at most once, and only to the pool it came from.
func (p *Pool[T]) Free(c *T) {
	if p == nil || c == nil {
		return
	}
	var zero T
	*c = zero
	p.free = append(p.free, c)
	p.stats.Live--
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	return p.stats
}
