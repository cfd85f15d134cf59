// Package pebbleindex wraps Pebble (CockroachDB's LSM storage engine) behind
// the common Index interface so the splay map can be benchmarked against a
// production LSM tree.
package pebbleindex

import (
	"encoding/binary"

	"github.com/btree-query-bench/intmap/index"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var _ index.Index = (*LSM)(nil)

type LSM struct {
	db  *pebble.DB
	dir string
	log *zap.Logger
}

// Open opens (or creates) a Pebble database at dir. An empty dir keeps the
// whole database in memory.
func Open(dir string, log *zap.Logger) (*LSM, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := &pebble.Options{
		MemTableSize: 16 << 20,
		// Keep a second memtable so one can be flushed while the other is active.
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
		Logger:                      log.Sugar(),
	}
	if dir == "" {
		opts.FS = vfs.NewMem()
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "pebbleindex: open %q", dir)
	}
	log.Debug("pebble opened", zap.String("dir", dir), zap.Bool("inMemory", dir == ""))
	return &LSM{db: db, dir: dir, log: log}, nil
}

// Close flushes in-memory state and shuts Pebble down.
func (l *LSM) Close() error {
	if err := l.db.Close(); err != nil {
		return errors.Wrap(err, "pebbleindex: close")
	}
	l.log.Debug("pebble closed", zap.String("dir", l.dir))
	return nil
}

func (l *LSM) Insert(key int64, value []byte) error {
	if err := l.db.Set(encodeKey(key), value, pebble.NoSync); err != nil {
		return errors.Wrap(err, "pebbleindex: set")
	}
	return nil
}

func (l *LSM) Get(key int64) ([]byte, error) {
	val, closer, err := l.db.Get(encodeKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, index.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "pebbleindex: get")
	}
	// val is only valid until closer.Close().
	result := make([]byte, len(val))
	copy(result, val)
	closer.Close()
	return result, nil
}

// Delete writes a tombstone; it does not report whether key existed.
func (l *LSM) Delete(key int64) error {
	if err := l.db.Delete(encodeKey(key), pebble.NoSync); err != nil {
		return errors.Wrap(err, "pebbleindex: delete")
	}
	return nil
}

// Range returns an iterator over all keys in [start, end].
func (l *LSM) Range(start, end int64) (index.Iterator, error) {
	iterOpts := &pebble.IterOptions{LowerBound: encodeKey(start)}
	if end != maxKey {
		iterOpts.UpperBound = encodeKey(end + 1)
	}
	iter, err := l.db.NewIter(iterOpts)
	if err != nil {
		return nil, errors.Wrap(err, "pebbleindex: range")
	}
	iter.First()
	return &rangeIterator{iter: iter, first: true}, nil
}

// ─── Key encoding ─────────────────────────────────────────────────────────────

const maxKey = int64(^uint64(0) >> 1)

// encodeKey encodes k big-endian with the sign bit flipped, so byte order
// matches signed integer order, negative keys included.
func encodeKey(k int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k)^(1<<63))
	return b
}

func decodeKey(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b) ^ (1 << 63))
}

// ─── Range Iterator ───────────────────────────────────────────────────────────

type rangeIterator struct {
	iter  *pebble.Iterator
	first bool
	key   int64
	val   []byte
	err   error
}

func (it *rangeIterator) Next() bool {
	var valid bool
	if it.first {
		it.first = false
		valid = it.iter.Valid()
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		it.err = it.iter.Error()
		return false
	}
	k := it.iter.Key()
	if len(k) != 8 {
		it.err = errors.Errorf("pebbleindex: unexpected key length %d", len(k))
		return false
	}
	it.key = decodeKey(k)
	// Pebble reuses the value buffer on Next().
	v := it.iter.Value()
	it.val = make([]byte, len(v))
	copy(it.val, v)
	return true
}

func (it *rangeIterator) Key() int64    { return it.key }
func (it *rangeIterator) Value() []byte { return it.val }
func (it *rangeIterator) Error() error  { return it.err }
func (it *rangeIterator) Close() error  { return it.iter.Close() }
