// Package index defines the interface shared by every structure the
// benchmark drives, so the splay map can be measured side by side with
// the baseline indexes.
package index

import "github.com/pkg/errors"

// ErrNotFound is returned by Get and Delete for an absent key.
var ErrNotFound = errors.New("key not found")

// Index is the common interface for all implementations.
type Index interface {
	Insert(key int64, value []byte) error
	Get(key int64) ([]byte, error)
	Delete(key int64) error
	Range(start, end int64) (Iterator, error)
	Close() error
}
