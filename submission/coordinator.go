package submission

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/babylonchain/beacon-committee/quorum"
	"github.com/babylonchain/beacon-committee/sortition"
	"github.com/babylonchain/beacon-committee/types"
)

// Coordinator drives a group request from group selection to the acceptance
// of exactly one DKG result. It works on a request loaded by the caller and
// only mutates it when the transition succeeds, so the caller can persist the
// request as is or drop it on error.
type Coordinator struct {
	verifier *quorum.Verifier
}

func NewCoordinator(verifier *quorum.Verifier) *Coordinator {
	return &Coordinator{verifier: verifier}
}

// SelectGroup freezes the request's ticket pool and starts the submission
// windows at currentBlock.
func (c *Coordinator) SelectGroup(req *types.GroupRequest, currentBlock uint64) (*types.SelectedGroup, error) {
	if req.State != types.AwaitingGroup {
		return nil, errorsmod.Wrapf(types.ErrWindowClosed, "group of request %d is already selected", req.ID)
	}

	pool, err := sortition.RestorePool(req.Seed, req.Params.GroupSize, req.Tickets)
	if err != nil {
		return nil, err
	}
	group, err := pool.Freeze()
	if err != nil {
		return nil, errorsmod.Wrapf(err, "request %d", req.ID)
	}

	req.Group = group
	req.Tickets = nil
	req.BaseBlock = currentBlock
	req.State = types.AwaitingSubmission

	return group, nil
}

// Submit accepts the result if the caller holds the submitter index, the
// index's window is open and the signatures reach the threshold. A finalized
// request rejects every submission before anything else is checked.
func (c *Coordinator) Submit(req *types.GroupRequest, caller common.Address, result *types.DkgResult, currentBlock uint64) error {
	if req.Finalized {
		return errorsmod.Wrapf(types.ErrAlreadyFinalized, "request %d", req.ID)
	}
	if req.State == types.AwaitingGroup || req.Group == nil {
		return errorsmod.Wrapf(types.ErrGroupNotSelected, "request %d", req.ID)
	}

	if !req.Group.Contains(caller) {
		return errorsmod.Wrapf(types.ErrNotSelected, "%s is not a member of the group of request %d",
			caller.Hex(), req.ID)
	}
	member, ok := req.Group.Member(result.SubmitterIndex)
	if !ok || member != caller {
		return errorsmod.Wrapf(types.ErrNotSelected, "%s does not hold member index %d of request %d",
			caller.Hex(), result.SubmitterIndex, req.ID)
	}

	window := NewWindow(req.Params)
	if eligible := window.EligibleBlock(req.BaseBlock, result.SubmitterIndex); currentBlock < eligible {
		return errorsmod.Wrapf(types.ErrTooEarly, "member %d may submit from block %d, current block is %d",
			result.SubmitterIndex, eligible, currentBlock)
	}

	if err := c.verifier.Verify(result, req.Group, req.Params.GroupThreshold); err != nil {
		return err
	}

	req.Result = result
	req.ResultBlock = currentBlock
	req.Finalized = true
	req.State = types.Finalized

	return nil
}
