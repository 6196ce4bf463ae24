package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureSize is the size of a recoverable secp256k1 signature (r || s || v).
const SignatureSize = crypto.SignatureLength

// DkgResult is the bundle a group member submits to publish the outcome of
// the distributed key generation of a request. Signatures[i] is the signature
// of the member at SigningMemberIndices[i]; pairs may come in any order.
type DkgResult struct {
	RequestID            uint64
	SubmitterIndex       uint64
	GroupPublicKey       []byte
	Disqualified         []byte
	Inactive             []byte
	Signatures           [][]byte
	SigningMemberIndices []uint64
}

// ResultHash is the digest every member signs:
// keccak256(groupPublicKey || disqualified || inactive).
func ResultHash(groupPublicKey, disqualified, inactive []byte) common.Hash {
	return crypto.Keccak256Hash(groupPublicKey, disqualified, inactive)
}

func (r *DkgResult) Hash() common.Hash {
	return ResultHash(r.GroupPublicKey, r.Disqualified, r.Inactive)
}

// SplitSignatures cuts a concatenation of 65-byte signatures into its parts.
func SplitSignatures(concatenated []byte) ([][]byte, error) {
	if len(concatenated)%SignatureSize != 0 {
		return nil, fmt.Errorf("signatures length %d is not a multiple of %d", len(concatenated), SignatureSize)
	}
	return ChunkSignatures(concatenated), nil
}

// ChunkSignatures cuts a concatenation into 65-byte chunks. A short trailing
// chunk is kept as is and fails signature recovery later.
func ChunkSignatures(concatenated []byte) [][]byte {
	sigs := make([][]byte, 0, (len(concatenated)+SignatureSize-1)/SignatureSize)
	for i := 0; i < len(concatenated); i += SignatureSize {
		end := i + SignatureSize
		if end > len(concatenated) {
			end = len(concatenated)
		}
		sig := make([]byte, end-i)
		copy(sig, concatenated[i:end])
		sigs = append(sigs, sig)
	}
	return sigs
}

// ConcatSignatures is the inverse of SplitSignatures.
func ConcatSignatures(sigs [][]byte) []byte {
	out := make([]byte, 0, len(sigs)*SignatureSize)
	for _, sig := range sigs {
		out = append(out, sig...)
	}
	return out
}
