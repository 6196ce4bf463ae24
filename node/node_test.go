package node_test

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/node"
	"github.com/babylonchain/beacon-committee/store/bbolt"
	"github.com/babylonchain/beacon-committee/testutil"
	"github.com/babylonchain/beacon-committee/types"
)

func newNode(t *testing.T, staker common.Address, path string) (*node.Node, func()) {
	s, err := bbolt.NewBboltStore(bbolt.Options{Path: path, BucketName: "groups"})
	require.NoError(t, err)
	return node.NewNode(staker, s, zap.NewNop()), func() { require.NoError(t, s.Close()) }
}

func TestJoinGroupIfEligible(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	me := testutil.GenRandomAddress(r)
	other := testutil.GenRandomAddress(r)

	group := &types.SelectedGroup{
		Members: []common.Address{other, me, other, me},
		TicketValues: []*uint256.Int{
			uint256.NewInt(1), uint256.NewInt(2), uint256.NewInt(3), uint256.NewInt(4),
		},
	}

	n, closeStore := newNode(t, me, filepath.Join(t.TempDir(), "node.db"))
	defer closeStore()

	require.Equal(t, []uint64{2, 4}, n.MemberIndices(group))

	memberships := n.JoinGroupIfEligible(9, group)
	require.Len(t, memberships, 2)
	require.Equal(t, uint64(2), memberships[0].MemberIndex)
	require.Equal(t, uint64(4), memberships[1].MemberIndex)
	require.Equal(t, node.ChannelName(group), memberships[0].Channel)
	require.Equal(t, uint64(9), memberships[1].RequestID)

	outsider, closeOutsider := newNode(t, testutil.GenRandomAddress(r), filepath.Join(t.TempDir(), "node.db"))
	defer closeOutsider()
	require.Empty(t, outsider.JoinGroupIfEligible(9, group))
}

func TestChannelName(t *testing.T) {
	group := &types.SelectedGroup{
		Members:      []common.Address{{}, {}},
		TicketValues: []*uint256.Int{uint256.NewInt(1), uint256.NewInt(2)},
	}

	buf := make([]byte, 64)
	buf[31] = 1
	buf[63] = 2
	sum := sha256.Sum256(buf)
	require.Equal(t, hex.EncodeToString(sum[:]), node.ChannelName(group))

	reordered := &types.SelectedGroup{
		Members:      group.Members,
		TicketValues: []*uint256.Int{uint256.NewInt(2), uint256.NewInt(1)},
	}
	require.NotEqual(t, node.ChannelName(group), node.ChannelName(reordered))
}

func TestRegisterGroup(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	path := filepath.Join(t.TempDir(), "node.db")
	me := testutil.GenRandomAddress(r)
	n, closeStore := newNode(t, me, path)

	key1 := testutil.GenRandomByteArray(r, 128)
	key2 := testutil.GenRandomByteArray(r, 128)

	added, err := n.RegisterGroup(5, key1)
	require.NoError(t, err)
	require.True(t, added)

	// the first registration of a request wins
	added, err = n.RegisterGroup(5, key2)
	require.NoError(t, err)
	require.False(t, added)

	added, err = n.RegisterGroup(3, key2)
	require.NoError(t, err)
	require.True(t, added)

	_, err = n.RegisterGroup(4, nil)
	require.Error(t, err)

	closeStore()

	// registrations survive a restart and keep their order
	n, closeStore = newNode(t, me, path)
	defer closeStore()

	keys, err := n.GroupPublicKeys()
	require.NoError(t, err)
	require.Equal(t, [][]byte{key1, key2}, keys)

	key, err := n.GroupPublicKey(3)
	require.NoError(t, err)
	require.Equal(t, key2, key)

	_, err = n.GroupPublicKey(4)
	require.Error(t, err)
}
