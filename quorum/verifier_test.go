package quorum_test

import (
	"crypto/ecdsa"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/beacon-committee/quorum"
	"github.com/babylonchain/beacon-committee/testutil"
	"github.com/babylonchain/beacon-committee/types"
)

func genGroup(r *rand.Rand, t *testing.T, size int) (*types.SelectedGroup, map[common.Address]*ecdsa.PrivateKey) {
	stakers := testutil.GenRandomStakers(r, t, size)
	group := &types.SelectedGroup{}
	for _, s := range stakers {
		group.Members = append(group.Members, s.Address)
	}
	return group, testutil.KeysOf(stakers)
}

func newVerifier(t *testing.T, cacheSize int) *quorum.Verifier {
	v, err := quorum.NewVerifier(cacheSize)
	require.NoError(t, err)
	return v
}

// FuzzVerifyPermutations checks that any permutation of a threshold sized
// signature set verifies and that one signature less never does
func FuzzVerifyPermutations(f *testing.F) {
	testutil.AddRandomSeedsToFuzzer(f, 10)
	f.Fuzz(func(t *testing.T, seed int64) {
		r := rand.New(rand.NewSource(seed))

		size := r.Intn(15) + 2
		threshold := uint64(r.Intn(size) + 1)
		group, keys := genGroup(r, t, size)
		pub, disq, inactive := testutil.GenRandomDkgResultData(r)

		indices := testutil.SequentialIndices(uint64(size))
		r.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
		signing := indices[:threshold]

		v := newVerifier(t, r.Intn(2)*64)
		res := testutil.SignDkgResult(t, 1, 1, group, keys, pub, disq, inactive, signing)
		require.NoError(t, v.Verify(res, group, threshold))

		short := testutil.SignDkgResult(t, 1, 1, group, keys, pub, disq, inactive, signing[:threshold-1])
		require.ErrorIs(t, v.Verify(short, group, threshold), types.ErrQuorumNotMet)
	})
}

func TestVerifyRejectsBadIndices(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	group, keys := genGroup(r, t, 5)
	pub, disq, inactive := testutil.GenRandomDkgResultData(r)
	v := newVerifier(t, 0)

	res := testutil.SignDkgResult(t, 1, 1, group, keys, pub, disq, inactive, []uint64{1, 2, 3})

	// one member repeating its own valid signature under its index
	dup := *res
	dup.Signatures = append(append([][]byte{}, res.Signatures...), res.Signatures[0])
	dup.SigningMemberIndices = append(append([]uint64{}, res.SigningMemberIndices...), 1)
	require.ErrorIs(t, v.Verify(&dup, group, 3), types.ErrInvalidIndex)

	outOfRange := *res
	outOfRange.SigningMemberIndices = []uint64{1, 2, 6}
	require.ErrorIs(t, v.Verify(&outOfRange, group, 3), types.ErrInvalidIndex)

	zero := *res
	zero.SigningMemberIndices = []uint64{0, 2, 3}
	require.ErrorIs(t, v.Verify(&zero, group, 3), types.ErrInvalidIndex)

	mismatch := *res
	mismatch.SigningMemberIndices = []uint64{1, 2}
	require.ErrorIs(t, v.Verify(&mismatch, group, 2), types.ErrInvalidIndex)
}

func TestVerifyRejectsBadSignatures(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	group, keys := genGroup(r, t, 5)
	pub, disq, inactive := testutil.GenRandomDkgResultData(r)
	v := newVerifier(t, 16)

	res := testutil.SignDkgResult(t, 1, 1, group, keys, pub, disq, inactive, []uint64{1, 2, 3})
	require.NoError(t, v.Verify(res, group, 3))

	// member 3 signs something else
	nonsense := crypto.Keccak256Hash([]byte("ducky duck"))
	wrongHash := *res
	wrongHash.Signatures = [][]byte{res.Signatures[0], res.Signatures[1], testutil.SignResultHash(t, keys[group.Members[2]], nonsense)}
	require.ErrorIs(t, v.Verify(&wrongHash, group, 3), types.ErrSignatureMismatch)

	// valid signatures under swapped indices
	swapped := *res
	swapped.SigningMemberIndices = []uint64{2, 1, 3}
	require.ErrorIs(t, v.Verify(&swapped, group, 3), types.ErrSignatureMismatch)

	truncated := *res
	truncated.Signatures = [][]byte{res.Signatures[0], res.Signatures[1], res.Signatures[2][:64]}
	require.ErrorIs(t, v.Verify(&truncated, group, 3), types.ErrSignatureMismatch)

	// the same bundle with a different payload no longer matches
	tampered := *res
	tampered.GroupPublicKey = testutil.GenRandomByteArray(r, 128)
	require.ErrorIs(t, v.Verify(&tampered, group, 3), types.ErrSignatureMismatch)
}

func TestRecoverSignerAcceptsBothRecoveryIDForms(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	staker := testutil.GenRandomStaker(r, t)
	hash := testutil.GenRandomSeed(r)

	raw, err := crypto.Sign(accounts.TextHash(hash.Bytes()), staker.Key)
	require.NoError(t, err)
	signer, err := quorum.RecoverSigner(hash, raw)
	require.NoError(t, err)
	require.Equal(t, staker.Address, signer)

	wallet := testutil.SignResultHash(t, staker.Key, hash)
	signer, err = quorum.RecoverSigner(hash, wallet)
	require.NoError(t, err)
	require.Equal(t, staker.Address, signer)

	bad := append([]byte{}, raw...)
	bad[crypto.RecoveryIDOffset] = 5
	_, err = quorum.RecoverSigner(hash, bad)
	require.Error(t, err)
}
