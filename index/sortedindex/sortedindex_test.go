package sortedindex

import (
	"testing"

	"github.com/btree-query-bench/intmap/index"
	"github.com/btree-query-bench/intmap/index/indextest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedIndex(t *testing.T) {
	indextest.Run(t, func(t *testing.T) index.Index { return New() })
}

func TestKeepsOrder(t *testing.T) {
	s := New()
	for _, k := range []int64{40, -2, 17, 3, 17} {
		require.NoError(t, s.Insert(k, nil))
	}
	require.Equal(t, 4, s.Len())

	var keys []int64
	for _, e := range s.data {
		keys = append(keys, e.key)
	}
	assert.Equal(t, []int64{-2, 3, 17, 40}, keys)

	it, err := s.Range(100, 200)
	require.NoError(t, err)
	assert.False(t, it.Next())
}
