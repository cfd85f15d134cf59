package pebbleindex

import (
	"math"
	"testing"

	"github.com/btree-query-bench/intmap/index"
	"github.com/btree-query-bench/intmap/index/indextest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPebbleInMemory(t *testing.T) {
	indextest.Run(t, func(t *testing.T) index.Index {
		l, err := Open("", zap.NewNop())
		require.NoError(t, err)
		return l
	})
}

func TestPebbleOnDisk(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, l.Insert(3, []byte("x")))
	require.NoError(t, l.Close())

	l, err = Open(dir, nil)
	require.NoError(t, err)
	defer l.Close()
	got, err := l.Get(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestKeyEncodingPreservesOrder(t *testing.T) {
	keys := []int64{math.MinInt64, -1 << 40, -2, -1, 0, 1, 2, 1 << 40, math.MaxInt64}
	for i := 1; i < len(keys); i++ {
		a, b := encodeKey(keys[i-1]), encodeKey(keys[i])
		assert.Less(t, string(a), string(b))
		assert.Equal(t, keys[i], decodeKey(b))
	}
}
