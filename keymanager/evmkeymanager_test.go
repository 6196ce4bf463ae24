package keymanager_test

import (
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/keymanager"
	"github.com/babylonchain/beacon-committee/quorum"
	"github.com/babylonchain/beacon-committee/testutil"
	"github.com/babylonchain/beacon-committee/types"
)

func TestSignDkgResult(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	km := keymanager.NewEVMKeyManager(t.TempDir(), true, zap.NewNop())
	passphrase := testutil.GenRandomHexStr(r, 8)

	addr, err := km.CreateKey(passphrase)
	require.NoError(t, err)
	require.Equal(t, addr, km.ListKeys()[0])

	pub, disq, inactive := testutil.GenRandomDkgResultData(r)
	result := &types.DkgResult{RequestID: 1, GroupPublicKey: pub, Disqualified: disq, Inactive: inactive}

	sig, err := km.SignDkgResult(addr, passphrase, result)
	require.NoError(t, err)
	require.Len(t, sig, types.SignatureSize)
	require.Contains(t, []byte{27, 28}, sig[crypto.RecoveryIDOffset])

	signer, err := quorum.RecoverSigner(result.Hash(), sig)
	require.NoError(t, err)
	require.Equal(t, addr, signer)

	_, err = km.SignDkgResult(addr, "wrong", result)
	require.Error(t, err)
}

func TestImportKey(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	km := keymanager.NewEVMKeyManager(t.TempDir(), true, zap.NewNop())
	staker := testutil.GenRandomStaker(r, t)

	addr, err := km.ImportKey("0x"+hex.EncodeToString(crypto.FromECDSA(staker.Key)), "pass")
	require.NoError(t, err)
	require.Equal(t, staker.Address, addr)

	_, err = km.ImportKey("zz", "pass")
	require.Error(t, err)
}
