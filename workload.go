package main

import (
	"math/rand/v2"

	"github.com/btree-query-bench/intmap/index"
	"github.com/pkg/errors"
)

type WorkloadType string

const (
	OLTP      WorkloadType = "OLTP (90/10)"
	Clustered WorkloadType = "Clustered (90/10, hot window)"
	Reporting WorkloadType = "Reporting (Range)"
)

// Keys describes the key space a workload draws from. Space is the number
// of loaded keys; Window is the width of the hot window that Clustered
// slides across it.
type Keys struct {
	Space  int64
	Window int64
}

// ExecuteWorkload runs ops operations of the given mix against idx.
// Reads of absent keys are part of the mix and are not errors.
func ExecuteWorkload(idx index.Index, wType WorkloadType, ops int, keys Keys, rng *rand.Rand) error {
	window := min(max(keys.Window, 1), keys.Space)
	for i := 0; i < ops; i++ {
		choice := rng.IntN(100)

		var key int64
		switch wType {
		case Clustered:
			// The window advances once per window-width operations.
			base := (int64(i) / window * window) % keys.Space
			key = base + rng.Int64N(window)
		default:
			key = rng.Int64N(keys.Space)
		}

		switch wType {
		case OLTP, Clustered:
			if choice < 90 {
				if _, err := idx.Get(key); err != nil && !errors.Is(err, index.ErrNotFound) {
					return err
				}
			} else if err := idx.Insert(key, []byte("x")); err != nil {
				return err
			}
		case Reporting:
			it, err := idx.Range(key, key+100)
			if err != nil {
				return err
			}
			for it.Next() {
			}
			err = it.Error()
			if cerr := it.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
		default:
			return errors.Errorf("unknown workload %q", wType)
		}
	}
	return nil
}

// SparseKeys draws the keys of one map in the sparse workload: six in ten
// maps stay empty, three hold a single key, and one holds a cluster of up
// to 64 nearby keys.
func SparseKeys(rng *rand.Rand) []int64 {
	switch c := rng.IntN(10); {
	case c < 6:
		return nil
	case c < 9:
		return []int64{rng.Int64N(1 << 20)}
	default:
		base := rng.Int64N(1 << 20)
		keys := make([]int64, 2+rng.IntN(63))
		for i := range keys {
			keys[i] = base + rng.Int64N(256)
		}
		return keys
	}
}
