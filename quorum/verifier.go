package quorum

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/babylonchain/beacon-committee/types"
)

type recoveryKey struct {
	digest common.Hash
	sig    [types.SignatureSize]byte
}

// Verifier checks that a DKG result carries a quorum of signatures from the
// selected group. Recovered signers are cached so a resubmitted signature set
// does not pay for ecrecover twice.
type Verifier struct {
	signers *lru.Cache[recoveryKey, common.Address]
}

// NewVerifier creates a verifier caching up to cacheSize recovered signers.
// A zero cacheSize disables the cache.
func NewVerifier(cacheSize int) (*Verifier, error) {
	v := &Verifier{}
	if cacheSize > 0 {
		cache, err := lru.New[recoveryKey, common.Address](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create signer cache: %w", err)
		}
		v.signers = cache
	}
	return v, nil
}

// Verify accepts the result if at least threshold distinct members signed
// its hash. Every (signature, index) pair must be valid: an out of range or
// repeated index fails with ErrInvalidIndex and a signature that does not
// recover to the member at its index fails with ErrSignatureMismatch. The
// pairs may come in any order.
func (v *Verifier) Verify(result *types.DkgResult, group *types.SelectedGroup, threshold uint64) error {
	if len(result.Signatures) != len(result.SigningMemberIndices) {
		return errorsmod.Wrapf(types.ErrInvalidIndex, "%d signatures for %d signing member indices",
			len(result.Signatures), len(result.SigningMemberIndices))
	}

	hash := result.Hash()
	signed := make(map[uint64]struct{}, len(result.SigningMemberIndices))
	for i, index := range result.SigningMemberIndices {
		member, ok := group.Member(index)
		if !ok {
			return errorsmod.Wrapf(types.ErrInvalidIndex, "member index %d out of range [1, %d]", index, group.Size())
		}
		if _, seen := signed[index]; seen {
			return errorsmod.Wrapf(types.ErrInvalidIndex, "member index %d signed more than once", index)
		}

		signer, err := v.RecoverSigner(hash, result.Signatures[i])
		if err != nil {
			return errorsmod.Wrapf(types.ErrSignatureMismatch, "signature of member %d: %v", index, err)
		}
		if signer != member {
			return errorsmod.Wrapf(types.ErrSignatureMismatch, "signature of member %d recovers to %s instead of %s",
				index, signer.Hex(), member.Hex())
		}

		signed[index] = struct{}{}
	}

	if uint64(len(signed)) < threshold {
		return errorsmod.Wrapf(types.ErrQuorumNotMet, "%d valid signatures, %d required", len(signed), threshold)
	}

	return nil
}

// RecoverSigner returns the address that signed the result hash as an
// Ethereum signed message.
func (v *Verifier) RecoverSigner(hash common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != types.SignatureSize {
		return common.Address{}, fmt.Errorf("invalid signature length %d", len(sig))
	}

	if v.signers == nil {
		return RecoverSigner(hash, sig)
	}

	key := recoveryKey{digest: hash}
	copy(key.sig[:], sig)
	if signer, ok := v.signers.Get(key); ok {
		return signer, nil
	}

	signer, err := RecoverSigner(hash, sig)
	if err != nil {
		return common.Address{}, err
	}
	v.signers.Add(key, signer)

	return signer, nil
}

// RecoverSigner recovers the signer of an Ethereum signed message over the
// hash. Both v in {0, 1} and the wallet form v in {27, 28} are accepted.
func RecoverSigner(hash common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != types.SignatureSize {
		return common.Address{}, fmt.Errorf("invalid signature length %d", len(sig))
	}

	normalized := make([]byte, types.SignatureSize)
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	if normalized[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, fmt.Errorf("invalid recovery id %d", sig[crypto.RecoveryIDOffset])
	}

	pub, err := crypto.SigToPub(accounts.TextHash(hash.Bytes()), normalized)
	if err != nil {
		return common.Address{}, err
	}

	return crypto.PubkeyToAddress(*pub), nil
}
