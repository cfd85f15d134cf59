package index

// Iterator scans the key/value pairs of a closed key range in ascending
// key order.
type Iterator interface {
	Next() bool
	Key() int64
	Value() []byte
	Error() error
	Close() error
}
