package bbolt_test

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	kvstore "github.com/babylonchain/beacon-committee/store"
	"github.com/babylonchain/beacon-committee/store/bbolt"
	"github.com/babylonchain/beacon-committee/testutil"
)

func createStore(r *rand.Rand, t *testing.T) *bbolt.BboltStore {
	path := filepath.Join(t.TempDir(), testutil.GenRandomHexStr(r, 10)+"-bbolt.db")
	s, err := bbolt.NewBboltStore(bbolt.Options{Path: path, BucketName: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

// FuzzBboltStore tests store interfaces works properly.
func FuzzBboltStore(f *testing.F) {
	testutil.AddRandomSeedsToFuzzer(f, 10)
	f.Fuzz(func(t *testing.T, seed int64) {
		r := rand.New(rand.NewSource(seed))
		s := createStore(r, t)

		kvNum := r.Intn(10) + 1
		kvList := genRandomKVList(kvNum, r)
		randIndex := r.Intn(kvNum)

		// Initially the key shouldn't exist
		v, err := s.Get(kvList[randIndex].Key)
		require.ErrorIs(t, err, kvstore.ErrKeyNotFound)
		require.Nil(t, v)

		// Deleting a non-existing key-value pair should NOT lead to an error
		require.NoError(t, s.Delete(kvList[randIndex].Key))

		require.NoError(t, s.PutAll(kvList))
		for _, kv := range kvList {
			// Storing it again should not lead to an error but just overwrite it
			require.NoError(t, s.Put(kv.Key, kv.Value))
			v, err = s.Get(kv.Key)
			require.NoError(t, err)
			require.Equal(t, kv.Value, v)
			exists, err := s.Exists(kv.Key)
			require.NoError(t, err)
			require.True(t, exists)
		}

		// List returns everything in key order
		listed, err := s.List(nil)
		require.NoError(t, err)
		require.Len(t, listed, kvNum)
		sort.Slice(kvList, func(i, j int) bool { return bytes.Compare(kvList[i].Key, kvList[j].Key) < 0 })
		require.Equal(t, kvList, listed)

		require.NoError(t, s.Delete(kvList[randIndex].Key))
		v, err = s.Get(kvList[randIndex].Key)
		require.ErrorIs(t, err, kvstore.ErrKeyNotFound)
		require.Nil(t, v)
		exists, err := s.Exists(kvList[randIndex].Key)
		require.NoError(t, err)
		require.False(t, exists)
	})
}

func TestBboltStoreListPrefix(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	s := createStore(r, t)

	require.NoError(t, s.PutAll([]*kvstore.KVPair{
		{Key: []byte("group/2"), Value: []byte("b")},
		{Key: []byte("group/1"), Value: []byte("a")},
		{Key: []byte("request/1"), Value: []byte{}},
	}))

	listed, err := s.List([]byte("group/"))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, []byte("group/1"), listed[0].Key)
	require.Equal(t, []byte("b"), listed[1].Value)

	listed, err = s.List([]byte("missing/"))
	require.NoError(t, err)
	require.Empty(t, listed)

	require.ErrorIs(t, s.Put(nil, []byte("x")), kvstore.ErrEmptyKey)
	require.ErrorIs(t, s.Put([]byte("k"), nil), kvstore.ErrNilValue)
	// a bad pair fails the whole batch
	require.Error(t, s.PutAll([]*kvstore.KVPair{{Key: []byte("ok"), Value: []byte("1")}, {Key: nil, Value: []byte("2")}}))
	exists, err := s.Exists([]byte("ok"))
	require.NoError(t, err)
	require.False(t, exists)
}

func genRandomKVList(num int, r *rand.Rand) []*kvstore.KVPair {
	kvList := make([]*kvstore.KVPair, 0, num)
	seen := make(map[string]struct{}, num)
	for len(kvList) < num {
		k := testutil.GenRandomByteArray(r, 100)
		if _, ok := seen[string(k)]; ok {
			continue
		}
		seen[string(k)] = struct{}{}
		kvList = append(kvList, &kvstore.KVPair{
			Key:   k,
			Value: testutil.GenRandomByteArray(r, 1000),
		})
	}
	return kvList
}
