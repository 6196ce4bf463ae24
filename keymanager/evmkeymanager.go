package keymanager

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/types"
)

var _ KeyManager = &EVMKeyManager{}

// EVMKeyManager keeps staker keys in a go-ethereum keystore directory.
type EVMKeyManager struct {
	Keystore *keystore.KeyStore
	Logger   *zap.Logger
}

// NewEVMKeyManager opens the keystore in keyDir. Light scrypt parameters
// trade key file hardness for speed and are meant for tests and local
// development.
func NewEVMKeyManager(keyDir string, light bool, logger *zap.Logger) *EVMKeyManager {
	scryptN, scryptP := keystore.StandardScryptN, keystore.StandardScryptP
	if light {
		scryptN, scryptP = keystore.LightScryptN, keystore.LightScryptP
	}
	return &EVMKeyManager{
		Keystore: keystore.NewKeyStore(keyDir, scryptN, scryptP),
		Logger:   logger,
	}
}

func (evmKey *EVMKeyManager) CreateKey(passphrase string) (common.Address, error) {
	account, err := evmKey.Keystore.NewAccount(passphrase)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to create an EVM key: %w", err)
	}

	evmKey.Logger.Info(
		"successfully created an EVM key",
		zap.String("address", account.Address.Hex()),
	)
	return account.Address, nil
}

func (evmKey *EVMKeyManager) ImportKey(privKeyHex, passphrase string) (common.Address, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privKeyHex, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid private key: %w", err)
	}

	account, err := evmKey.Keystore.ImportECDSA(key, passphrase)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to import the EVM key: %w", err)
	}

	evmKey.Logger.Info(
		"successfully imported an EVM key",
		zap.String("address", account.Address.Hex()),
	)
	return account.Address, nil
}

func (evmKey *EVMKeyManager) ListKeys() []common.Address {
	accs := evmKey.Keystore.Accounts()
	addrs := make([]common.Address, len(accs))
	for i, acc := range accs {
		addrs[i] = acc.Address
	}
	return addrs
}

// SignDkgResult returns the 65 byte wallet style signature (v in {27, 28})
// of the result hash as an Ethereum signed message.
func (evmKey *EVMKeyManager) SignDkgResult(addr common.Address, passphrase string, result *types.DkgResult) ([]byte, error) {
	account := accounts.Account{Address: addr}
	sig, err := evmKey.Keystore.SignHashWithPassphrase(account, passphrase, accounts.TextHash(result.Hash().Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to sign the DKG result of request %d: %w", result.RequestID, err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	return sig, nil
}
