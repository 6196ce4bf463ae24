package node

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/babylonchain/beacon-committee/types"
)

// ResultSubmitter is the beacon as seen by a group member. It is implemented
// by the daemon's RPC client.
type ResultSubmitter interface {
	// CurrentBlock returns the height the beacon's deadlines are measured in
	CurrentBlock(ctx context.Context) (uint64, error)

	// GetRequest returns the ledger record of the group request
	GetRequest(ctx context.Context, requestID uint64) (*types.GroupRequest, error)

	// IsResultSubmitted reports whether a DKG result has been accepted
	IsResultSubmitted(ctx context.Context, requestID uint64) (bool, error)

	// SubmitDkgResult submits the result on behalf of the caller
	SubmitDkgResult(ctx context.Context, caller common.Address, result *types.DkgResult) error
}
