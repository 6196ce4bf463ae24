package node

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/store"
	"github.com/babylonchain/beacon-committee/types"
)

var (
	// request id -> registration sequence
	requestPrefix = []byte("request/")
	// registration sequence -> group public key
	groupPrefix = []byte("group/")
)

// Node is the member side of the beacon for one staker: it finds the
// staker's seats in selected groups and keeps the public keys of the groups
// created so far.
type Node struct {
	mu sync.Mutex

	staker common.Address
	groups store.Store
	logger *zap.Logger
}

// Membership is one seat of the node's staker in a selected group.
type Membership struct {
	RequestID   uint64
	MemberIndex uint64
	// Channel is the broadcast channel the group runs its DKG on
	Channel string
}

func NewNode(staker common.Address, groups store.Store, logger *zap.Logger) *Node {
	return &Node{
		staker: staker,
		groups: groups,
		logger: logger.With(zap.String("staker", staker.Hex())),
	}
}

func (n *Node) Staker() common.Address {
	return n.staker
}

// MemberIndices returns every 1-based member index the staker holds in the
// group. A staker selected with several tickets holds several indices.
func (n *Node) MemberIndices(group *types.SelectedGroup) []uint64 {
	return group.IndicesOf(n.staker)
}

// JoinGroupIfEligible returns one membership per seat the staker holds in
// the group, none if it was not selected.
func (n *Node) JoinGroupIfEligible(requestID uint64, group *types.SelectedGroup) []*Membership {
	indices := n.MemberIndices(group)
	if len(indices) == 0 {
		n.logger.Debug("not selected for the group", zap.Uint64("request_id", requestID))
		return nil
	}

	channel := ChannelName(group)
	memberships := make([]*Membership, len(indices))
	for i, index := range indices {
		memberships[i] = &Membership{
			RequestID:   requestID,
			MemberIndex: index,
			Channel:     channel,
		}
	}

	n.logger.Info("eligible for the group",
		zap.Uint64("request_id", requestID),
		zap.Uint64s("member_indices", indices),
		zap.String("channel", channel),
	)

	return memberships
}

// ChannelName derives the group broadcast channel name: the hex encoded
// sha256 of the concatenated 32-byte selected ticket values.
func ChannelName(group *types.SelectedGroup) string {
	buf := make([]byte, 0, len(group.TicketValues)*32)
	for _, v := range group.TicketValues {
		b := v.Bytes32()
		buf = append(buf, b[:]...)
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// RegisterGroup records the public key of the group created for the request.
// Only the first registration of a request is kept; it returns whether this
// call added the key.
func (n *Node) RegisterGroup(requestID uint64, groupPublicKey []byte) (bool, error) {
	if len(groupPublicKey) == 0 {
		return false, fmt.Errorf("empty group public key for request %d", requestID)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	reqKey := append(append([]byte{}, requestPrefix...), uint64ToBytes(requestID)...)
	exists, err := n.groups.Exists(reqKey)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	registered, err := n.groups.List(groupPrefix)
	if err != nil {
		return false, err
	}
	seq := uint64ToBytes(uint64(len(registered)))

	if err := n.groups.PutAll([]*store.KVPair{
		{Key: append(append([]byte{}, groupPrefix...), seq...), Value: groupPublicKey},
		{Key: reqKey, Value: seq},
	}); err != nil {
		return false, fmt.Errorf("failed to register the group of request %d: %w", requestID, err)
	}

	n.logger.Info("registered a new group",
		zap.Uint64("request_id", requestID),
		zap.String("group_public_key", hex.EncodeToString(groupPublicKey)),
	)

	return true, nil
}

// GroupPublicKeys returns the registered group public keys in registration
// order.
func (n *Node) GroupPublicKeys() ([][]byte, error) {
	registered, err := n.groups.List(groupPrefix)
	if err != nil {
		return nil, err
	}

	keys := make([][]byte, len(registered))
	for i, kv := range registered {
		keys[i] = kv.Value
	}
	return keys, nil
}

// GroupPublicKey returns the key registered for the request.
func (n *Node) GroupPublicKey(requestID uint64) ([]byte, error) {
	reqKey := append(append([]byte{}, requestPrefix...), uint64ToBytes(requestID)...)
	seq, err := n.groups.Get(reqKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, fmt.Errorf("no group registered for request %d: %w", requestID, err)
	}
	if err != nil {
		return nil, err
	}

	return n.groups.Get(append(append([]byte{}, groupPrefix...), seq...))
}

func uint64ToBytes(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}
