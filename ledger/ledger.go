package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcwallet/walletdb"
	"github.com/lightningnetwork/lnd/kvdb"

	"github.com/babylonchain/beacon-committee/types"
)

var (
	// id -> rlp encoded group request
	requestBucketName = []byte("requests")

	// id -> nil, requests still collecting tickets
	awaitingGroupBucketName = []byte("awaiting-group")

	// key -> value, ledger metadata
	metaBucketName = []byte("meta")

	lastBlockKey = []byte("last-block")
)

// Ledger is the authoritative record of group requests. Every mutation runs
// in a single read-write transaction so concurrent callers are totally
// ordered and a failed mutation leaves no trace.
type Ledger struct {
	db kvdb.Backend
}

func NewLedger(db kvdb.Backend) (*Ledger, error) {
	l := &Ledger{db: db}
	if err := l.initBuckets(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Ledger) initBuckets() error {
	return kvdb.Batch(l.db, func(tx kvdb.RwTx) error {
		for _, name := range [][]byte{requestBucketName, awaitingGroupBucketName, metaBucketName} {
			if _, err := tx.CreateTopLevelBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func uint64KeyToBytes(id uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], id)
	return key[:]
}

// CreateRequest stores a new request.
func (l *Ledger) CreateRequest(req *types.GroupRequest) error {
	return kvdb.Update(l.db, func(tx kvdb.RwTx) error {
		requests := tx.ReadWriteBucket(requestBucketName)
		if requests == nil {
			return ErrCorruptedLedgerDb
		}

		key := uint64KeyToBytes(req.ID)
		if requests.Get(key) != nil {
			return ErrDuplicateRequest
		}

		return saveRequest(tx, req)
	}, func() {})
}

// UpdateRequest loads the request, applies fn and stores the result, all in
// one transaction. If fn fails nothing is written and its error is returned.
func (l *Ledger) UpdateRequest(id uint64, fn func(req *types.GroupRequest) error) (*types.GroupRequest, error) {
	var updated *types.GroupRequest
	err := kvdb.Update(l.db, func(tx kvdb.RwTx) error {
		requests := tx.ReadWriteBucket(requestBucketName)
		if requests == nil {
			return ErrCorruptedLedgerDb
		}

		req, err := getRequest(requests, id)
		if err != nil {
			return err
		}

		if err := fn(req); err != nil {
			return err
		}

		if err := saveRequest(tx, req); err != nil {
			return err
		}

		updated = req
		return nil
	}, func() {
		updated = nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func saveRequest(tx kvdb.RwTx, req *types.GroupRequest) error {
	requests := tx.ReadWriteBucket(requestBucketName)
	awaiting := tx.ReadWriteBucket(awaitingGroupBucketName)
	if requests == nil || awaiting == nil {
		return ErrCorruptedLedgerDb
	}

	data, err := encodeRequest(req)
	if err != nil {
		return err
	}

	key := uint64KeyToBytes(req.ID)
	if err := requests.Put(key, data); err != nil {
		return err
	}

	if req.State == types.AwaitingGroup {
		return awaiting.Put(key, []byte{})
	}
	return awaiting.Delete(key)
}

func getRequest(requests walletdb.ReadBucket, id uint64) (*types.GroupRequest, error) {
	data := requests.Get(uint64KeyToBytes(id))
	if data == nil {
		return nil, ErrRequestNotFound
	}

	return decodeRequest(data)
}

func (l *Ledger) GetRequest(id uint64) (*types.GroupRequest, error) {
	var req *types.GroupRequest
	err := kvdb.View(l.db, func(tx kvdb.RTx) error {
		requests := tx.ReadBucket(requestBucketName)
		if requests == nil {
			return ErrCorruptedLedgerDb
		}

		var err error
		req, err = getRequest(requests, id)
		return err
	}, func() {
		req = nil
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

// AwaitingGroup returns the ids of the requests still collecting tickets in
// ascending order.
func (l *Ledger) AwaitingGroup() ([]uint64, error) {
	var ids []uint64
	err := kvdb.View(l.db, func(tx kvdb.RTx) error {
		awaiting := tx.ReadBucket(awaitingGroupBucketName)
		if awaiting == nil {
			return ErrCorruptedLedgerDb
		}

		return awaiting.ForEach(func(k, _ []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("%w: invalid request key %x", ErrCorruptedLedgerDb, k)
			}
			ids = append(ids, binary.BigEndian.Uint64(k))
			return nil
		})
	}, func() {
		ids = nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ListRequests returns every request in ascending id order.
func (l *Ledger) ListRequests() ([]*types.GroupRequest, error) {
	var reqs []*types.GroupRequest
	err := kvdb.View(l.db, func(tx kvdb.RTx) error {
		requests := tx.ReadBucket(requestBucketName)
		if requests == nil {
			return ErrCorruptedLedgerDb
		}

		return requests.ForEach(func(_, v []byte) error {
			req, err := decodeRequest(v)
			if err != nil {
				return err
			}
			reqs = append(reqs, req)
			return nil
		})
	}, func() {
		reqs = nil
	})
	if err != nil {
		return nil, err
	}

	return reqs, nil
}

// SetLastBlock records the latest height the beacon has seen. Lower heights
// are ignored.
func (l *Ledger) SetLastBlock(height uint64) error {
	return kvdb.Update(l.db, func(tx kvdb.RwTx) error {
		meta := tx.ReadWriteBucket(metaBucketName)
		if meta == nil {
			return ErrCorruptedLedgerDb
		}

		if v := meta.Get(lastBlockKey); len(v) == 8 && binary.BigEndian.Uint64(v) >= height {
			return nil
		}

		return meta.Put(lastBlockKey, uint64KeyToBytes(height))
	}, func() {})
}

// LastBlock returns the latest height recorded with SetLastBlock, 0 if none.
func (l *Ledger) LastBlock() (uint64, error) {
	var height uint64
	err := kvdb.View(l.db, func(tx kvdb.RTx) error {
		meta := tx.ReadBucket(metaBucketName)
		if meta == nil {
			return ErrCorruptedLedgerDb
		}

		v := meta.Get(lastBlockKey)
		if v == nil {
			return nil
		}
		if len(v) != 8 {
			return fmt.Errorf("%w: invalid last block %x", ErrCorruptedLedgerDb, v)
		}
		height = binary.BigEndian.Uint64(v)
		return nil
	}, func() {
		height = 0
	})
	if err != nil {
		return 0, err
	}

	return height, nil
}

// HighestBlock returns the highest height the ledger knows of: the last block
// seen or any height recorded on a request, whichever is higher.
func (l *Ledger) HighestBlock() (uint64, error) {
	height, err := l.LastBlock()
	if err != nil {
		return 0, err
	}

	reqs, err := l.ListRequests()
	if err != nil {
		return 0, err
	}
	for _, req := range reqs {
		for _, h := range []uint64{req.StartBlock, req.BaseBlock, req.ResultBlock} {
			if h > height {
				height = h
			}
		}
	}

	return height, nil
}
