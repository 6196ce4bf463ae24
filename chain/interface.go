package chain

import (
	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// BlockCounter reports the height of the chain the beacon is anchored to.
// Every deadline of a group request is expressed in blocks of this chain.
type BlockCounter interface {
	// CurrentBlock returns the latest block height
	CurrentBlock() (uint64, error)
}

// StakeMonitor reads the stake bookkeeping of the staking contract.
type StakeMonitor interface {
	// StakeOf returns the amount staked by the given address, zero if the
	// address has no stake
	StakeOf(staker common.Address) (sdkmath.Int, error)
}

// Chain is everything the beacon needs from the underlying chain.
type Chain interface {
	BlockCounter
	StakeMonitor
}
