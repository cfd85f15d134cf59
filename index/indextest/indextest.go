// Package indextest checks that an index.Index implementation behaves like
// the reference semantics the benchmark relies on.
package indextest

import (
	"testing"

	"github.com/btree-query-bench/intmap/index"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh index returned by open. The index is closed at the
// end of each subtest.
func Run(t *testing.T, open func(t *testing.T) index.Index) {
	t.Run("InsertGet", func(t *testing.T) {
		idx := open(t)
		defer idx.Close()

		for _, k := range []int64{5, -3, 1, 1 << 40, 0} {
			require.NoError(t, idx.Insert(k, value(k)))
		}
		for _, k := range []int64{5, -3, 1, 1 << 40, 0} {
			got, err := idx.Get(k)
			require.NoError(t, err)
			require.Equal(t, value(k), got)
		}
		_, err := idx.Get(2)
		require.True(t, errors.Is(err, index.ErrNotFound), "got %v", err)
	})

	t.Run("Overwrite", func(t *testing.T) {
		idx := open(t)
		defer idx.Close()

		require.NoError(t, idx.Insert(7, []byte("old")))
		require.NoError(t, idx.Insert(7, []byte("new")))
		got, err := idx.Get(7)
		require.NoError(t, err)
		require.Equal(t, []byte("new"), got)
	})

	t.Run("Delete", func(t *testing.T) {
		idx := open(t)
		defer idx.Close()

		require.NoError(t, idx.Insert(1, value(1)))
		require.NoError(t, idx.Insert(2, value(2)))
		require.NoError(t, idx.Delete(1))
		_, err := idx.Get(1)
		require.True(t, errors.Is(err, index.ErrNotFound), "got %v", err)
		got, err := idx.Get(2)
		require.NoError(t, err)
		require.Equal(t, value(2), got)
	})

	t.Run("Range", func(t *testing.T) {
		idx := open(t)
		defer idx.Close()

		for _, k := range []int64{9, -4, 3, 12, 0, 7, 30} {
			require.NoError(t, idx.Insert(k, value(k)))
		}
		it, err := idx.Range(-4, 12)
		require.NoError(t, err)

		var keys []int64
		for it.Next() {
			keys = append(keys, it.Key())
			require.Equal(t, value(it.Key()), it.Value())
		}
		require.NoError(t, it.Error())
		require.NoError(t, it.Close())
		require.Equal(t, []int64{-4, 0, 3, 7, 9, 12}, keys)
	})
}

func value(k int64) []byte {
	return []byte{'v', byte(k), byte(k >> 8), byte(k >> 40)}
}
