package store

import "errors"

var (
	// ErrKeyNotFound no value is stored under the key
	ErrKeyNotFound = errors.New("key not found")

	// ErrEmptyKey keys must not be empty
	ErrEmptyKey = errors.New("the key should not be empty")

	// ErrNilValue values must not be nil
	ErrNilValue = errors.New("the value should not be nil")
)

// Store is an abstraction for different key-value store implementations
type Store interface {
	// Put stores the given value for the given key.
	Put(k []byte, v []byte) error
	// PutAll stores all the pairs atomically.
	PutAll(kvs []*KVPair) error
	// Get retrieves the value for the given key, ErrKeyNotFound if absent.
	Get(k []byte) ([]byte, error)
	// Exists checks if a key exists in the store
	Exists(k []byte) (bool, error)
	// List returns the pairs whose key starts with the passed in prefix in
	// ascending key order. A nil prefix lists everything.
	List(keyPrefix []byte) ([]*KVPair, error)
	// Delete deletes the stored value for the given key.
	Delete(k []byte) error
	// Close must be called when the work with the key-value store is done.
	Close() error
}

// KVPair represents {Key, Value} pair
type KVPair struct {
	Key   []byte
	Value []byte
}
