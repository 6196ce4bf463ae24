package bbolt

import (
	"bytes"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/babylonchain/beacon-committee/store"
)

var _ store.Store = (*BboltStore)(nil)

// BboltStore implements the Store interface on a single bolt bucket
type BboltStore struct {
	db         *bolt.DB
	bucketName []byte
}

// Options are the options for the bbolt store.
type Options struct {
	// Bucket name for storing the key-value pairs.
	// Optional ("default" by default).
	BucketName string
	// Path of the DB file.
	// Optional ("bbolt.db" by default).
	Path string
	// Timeout to obtain the file lock.
	// Optional (no timeout by default).
	Timeout time.Duration
}

// DefaultOptions is an Options object with default values.
var DefaultOptions = Options{
	BucketName: "default",
	Path:       "bbolt.db",
}

// NewBboltStore creates a new bbolt store.
// Note: bbolt uses an exclusive write lock on the database file so it cannot
// be shared by multiple processes.
//
// You must call the Close() method on the store when you're done working with it.
func NewBboltStore(options Options) (*BboltStore, error) {
	if options.BucketName == "" {
		options.BucketName = DefaultOptions.BucketName
	}
	if options.Path == "" {
		options.Path = DefaultOptions.Path
	}

	db, err := bolt.Open(options.Path, 0600, &bolt.Options{Timeout: options.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db %s: %w", options.Path, err)
	}

	bucketName := []byte(options.BucketName)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BboltStore{
		db:         db,
		bucketName: bucketName,
	}, nil
}

func (s *BboltStore) Put(k []byte, v []byte) error {
	return s.PutAll([]*store.KVPair{{Key: k, Value: v}})
}

func (s *BboltStore) PutAll(kvs []*store.KVPair) error {
	for _, kv := range kvs {
		if err := checkKeyAndValue(kv.Key, kv.Value); err != nil {
			return err
		}
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucketName)
		for _, kv := range kvs {
			if err := b.Put(kv.Key, kv.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BboltStore) Get(k []byte) ([]byte, error) {
	if err := checkKey(k); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucketName).Get(k)
		if v == nil {
			return store.ErrKeyNotFound
		}
		// bolt values are only valid within the transaction
		data = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (s *BboltStore) Exists(k []byte) (bool, error) {
	if err := checkKey(k); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(s.bucketName).Get(k) != nil
		return nil
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (s *BboltStore) List(keyPrefix []byte) ([]*store.KVPair, error) {
	var kvList []*store.KVPair

	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(s.bucketName).Cursor()

		var key, v []byte
		if len(keyPrefix) == 0 {
			key, v = cursor.First()
		} else {
			key, v = cursor.Seek(keyPrefix)
		}
		for ; key != nil && bytes.HasPrefix(key, keyPrefix); key, v = cursor.Next() {
			kvList = append(kvList, &store.KVPair{
				Key:   bytes.Clone(key),
				Value: bytes.Clone(v),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return kvList, nil
}

// Delete deletes the stored value for the given key.
// Deleting a non-existing key-value pair does NOT lead to an error.
func (s *BboltStore) Delete(k []byte) error {
	if err := checkKey(k); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucketName).Delete(k)
	})
}

// Close closes the store.
// It must be called to make sure that all open transactions finish and to release all DB resources.
func (s *BboltStore) Close() error {
	return s.db.Close()
}

func checkKey(k []byte) error {
	if len(k) == 0 {
		return store.ErrEmptyKey
	}
	return nil
}

func checkKeyAndValue(k []byte, v []byte) error {
	if err := checkKey(k); err != nil {
		return err
	}
	if v == nil {
		return store.ErrNilValue
	}
	return nil
}
