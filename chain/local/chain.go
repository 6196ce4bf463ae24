package local

import (
	"fmt"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/chain"
)

var _ chain.Chain = (*Chain)(nil)

// Chain is an in-process development chain. Its height advances by one on
// every tick once started, or on demand with MineBlocks, and stakes are set
// directly.
type Chain struct {
	isStarted *atomic.Bool
	wg        sync.WaitGroup
	quit      chan struct{}

	mu     sync.RWMutex
	height uint64
	stakes map[common.Address]sdkmath.Int

	blockTime time.Duration
	logger    *zap.Logger
}

func NewChain(logger *zap.Logger, startHeight uint64, blockTime time.Duration) *Chain {
	return &Chain{
		isStarted: atomic.NewBool(false),
		height:    startHeight,
		stakes:    make(map[common.Address]sdkmath.Int),
		blockTime: blockTime,
		logger:    logger,
	}
}

// Start produces a block every block time until Stop is called.
func (c *Chain) Start() error {
	if c.blockTime <= 0 {
		return fmt.Errorf("invalid block time %v", c.blockTime)
	}
	if c.isStarted.Swap(true) {
		return fmt.Errorf("the local chain is already started")
	}

	c.quit = make(chan struct{})
	c.wg.Add(1)
	go c.produceBlocks(c.quit)

	c.logger.Info("the local chain is started",
		zap.Uint64("height", c.Height()), zap.Duration("block_time", c.blockTime))

	return nil
}

func (c *Chain) Stop() error {
	if !c.isStarted.Swap(false) {
		return fmt.Errorf("the local chain has already stopped")
	}

	close(c.quit)
	c.wg.Wait()

	c.logger.Info("the local chain is stopped", zap.Uint64("height", c.Height()))

	return nil
}

func (c *Chain) produceBlocks(quit <-chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.blockTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			height := c.MineBlocks(1)
			c.logger.Debug("produced a new block", zap.Uint64("height", height))
		case <-quit:
			return
		}
	}
}

// MineBlocks advances the chain by n blocks and returns the new height.
func (c *Chain) MineBlocks(n uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += n
	return c.height
}

func (c *Chain) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height
}

func (c *Chain) CurrentBlock() (uint64, error) {
	return c.Height(), nil
}

// SetStake overwrites the stake of the address.
func (c *Chain) SetStake(staker common.Address, amount sdkmath.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stakes[staker] = amount
}

func (c *Chain) StakeOf(staker common.Address) (sdkmath.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stake, ok := c.stakes[staker]
	if !ok {
		return sdkmath.ZeroInt(), nil
	}
	return stake, nil
}
