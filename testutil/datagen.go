package testutil

import (
	"crypto/ecdsa"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/beacon-committee/types"
)

// Staker is a test participant with its signing key.
type Staker struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

func GenRandomSeed(r *rand.Rand) common.Hash {
	return common.BytesToHash(GenRandomByteArray(r, common.HashLength))
}

func GenRandomAddress(r *rand.Rand) common.Address {
	return common.BytesToAddress(GenRandomByteArray(r, common.AddressLength))
}

// GenRandomStaker derives a secp256k1 key from the random source so fuzz
// cases stay reproducible.
func GenRandomStaker(r *rand.Rand, t testing.TB) *Staker {
	for {
		key, err := crypto.ToECDSA(GenRandomByteArray(r, 32))
		if err != nil {
			// out of the curve order, draw again
			continue
		}
		require.NotNil(t, key)
		return &Staker{
			Key:     key,
			Address: crypto.PubkeyToAddress(key.PublicKey),
		}
	}
}

func GenRandomStakers(r *rand.Rand, t testing.TB, n int) []*Staker {
	stakers := make([]*Staker, n)
	for i := range stakers {
		stakers[i] = GenRandomStaker(r, t)
	}
	return stakers
}

// SignResultHash signs the result hash the way an Ethereum wallet signs a
// message, with v in {27, 28}.
func SignResultHash(t testing.TB, key *ecdsa.PrivateKey, hash common.Hash) []byte {
	sig, err := crypto.Sign(accounts.TextHash(hash.Bytes()), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	return sig
}

// GenRandomDkgResultData returns random group public key, disqualified and
// inactive payloads.
func GenRandomDkgResultData(r *rand.Rand) (groupPubKey, disqualified, inactive []byte) {
	return GenRandomByteArray(r, 128), GenRandomByteArray(r, 20), GenRandomByteArray(r, 20)
}

// SignDkgResult builds a result signed by the members at the given 1-based
// indices. keys maps a member address to its key.
func SignDkgResult(
	t testing.TB,
	requestID, submitterIndex uint64,
	group *types.SelectedGroup,
	keys map[common.Address]*ecdsa.PrivateKey,
	groupPubKey, disqualified, inactive []byte,
	signingIndices []uint64,
) *types.DkgResult {
	res := &types.DkgResult{
		RequestID:      requestID,
		SubmitterIndex: submitterIndex,
		GroupPublicKey: groupPubKey,
		Disqualified:   disqualified,
		Inactive:       inactive,
	}
	hash := res.Hash()
	for _, idx := range signingIndices {
		member, ok := group.Member(idx)
		require.True(t, ok)
		key, ok := keys[member]
		require.True(t, ok)
		res.Signatures = append(res.Signatures, SignResultHash(t, key, hash))
		res.SigningMemberIndices = append(res.SigningMemberIndices, idx)
	}
	return res
}

// SequentialIndices returns 1..n.
func SequentialIndices(n uint64) []uint64 {
	indices := make([]uint64, n)
	for i := range indices {
		indices[i] = uint64(i + 1)
	}
	return indices
}

// KeysOf indexes staker keys by address.
func KeysOf(stakers []*Staker) map[common.Address]*ecdsa.PrivateKey {
	keys := make(map[common.Address]*ecdsa.PrivateKey, len(stakers))
	for _, s := range stakers {
		keys[s.Address] = s.Key
	}
	return keys
}
