package keymanager

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/babylonchain/beacon-committee/types"
)

type KeyManager interface {
	// CreateKey generates a key, stores it in the key directory encrypted
	// with the given 'passphrase', and returns its address.
	CreateKey(passphrase string) (common.Address, error)
	// ImportKey stores the hex encoded private key encrypted with the given
	// 'passphrase' and returns its address.
	ImportKey(privKeyHex, passphrase string) (common.Address, error)
	// ListKeys returns the addresses of every stored key.
	ListKeys() []common.Address
	// SignDkgResult signs the hash of the DKG result with the key of 'addr',
	// decrypting it with the given 'passphrase'.
	SignDkgResult(addr common.Address, passphrase string, result *types.DkgResult) ([]byte, error)
}
