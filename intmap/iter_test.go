package intmap

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Key   int64
	Value string
}

func drain(it *Iterator[string]) []pair {
	var out []pair
	for k, v, ok := it.Next(); ok; k, v, ok = it.Next() {
		out = append(out, pair{k, v})
	}
	return out
}

func TestIterAscending(t *testing.T) {
	m := New[string]()
	m.Assign(5, "a")
	m.Assign(1, "b")
	m.Assign(9, "c")

	it := m.Iter(0, 10)
	defer it.Close()

	want := []pair{{1, "b"}, {5, "a"}, {9, "c"}}
	if diff := cmp.Diff(want, drain(it)); diff != "" {
		t.Fatalf("iteration mismatch (-want +got):\n%s", diff)
	}
	_, _, ok := it.Next()
	assert.False(t, ok, "exhausted iterator stays exhausted")
}

func TestIterRanges(t *testing.T) {
	m := New[string]()
	for _, k := range []int64{-9, -6, -1, 0, 2, 3, 4, 13, 14, 30} {
		m.Assign(k, "")
	}

	keys := func(lo, hi int64) []int64 {
		var out []int64
		for k := range m.All(lo, hi) {
			out = append(out, k)
		}
		return out
	}

	tests := []struct {
		name   string
		lo, hi int64
		want   []int64
	}{
		{"all", math.MinInt64, math.MaxInt64, []int64{-9, -6, -1, 0, 2, 3, 4, 13, 14, 30}},
		{"inside first bucket", 3, 13, []int64{3, 4, 13}},
		{"negative", -7, -1, []int64{-6, -1}},
		{"single key", 14, 14, []int64{14}},
		{"gap", 5, 12, nil},
		{"above max", 31, 100, nil},
		{"below min", -100, -10, nil},
		{"inverted", 10, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(tt.lo, tt.hi))
		})
	}
}

func TestIterSingleAndEmpty(t *testing.T) {
	m := New[string]()
	it := m.Iter(math.MinInt64, math.MaxInt64)
	assert.Empty(t, drain(it))
	it.Close()

	m.Assign(42, "x")
	it = m.Iter(0, 100)
	assert.Equal(t, []pair{{42, "x"}}, drain(it))
	it.Close()

	it = m.Iter(43, 100)
	assert.Empty(t, drain(it))
	it.Close()
}

func TestIterDoesNotReshapeTree(t *testing.T) {
	m := New[string]()
	for k := int64(0); k < 64; k += 2 {
		m.Assign(k, "v")
	}
	root := m.tree.root
	for range m.All(10, 50) {
	}
	assert.Same(t, root, m.tree.root)
}

func TestIterCloseAndEarlyBreak(t *testing.T) {
	m := New[string]()
	for k := int64(0); k < 20; k++ {
		m.Assign(k, "v")
	}

	it := m.Iter(0, 19)
	_, _, ok := it.Next()
	require.True(t, ok)
	it.Close()
	it.Close()
	assert.Panics(t, func() { it.Next() })

	count := 0
	for k := range m.All(0, 19) {
		count++
		if k == 4 {
			break
		}
	}
	assert.Equal(t, 5, count)
}
