package node

import (
	"context"
	"errors"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/submission"
	"github.com/babylonchain/beacon-committee/types"
)

var (
	RtyAttNum = uint(5)
	RtyAtt    = retry.Attempts(RtyAttNum)
	RtyDel    = retry.Delay(time.Millisecond * 400)
	RtyErr    = retry.LastErrorOnly(true)
)

// Publisher submits a DKG result for the node's staker once the staker's
// member index is eligible.
type Publisher struct {
	node         *Node
	submitter    ResultSubmitter
	pollInterval time.Duration
	logger       *zap.Logger
}

func NewPublisher(node *Node, submitter ResultSubmitter, pollInterval time.Duration, logger *zap.Logger) *Publisher {
	return &Publisher{
		node:         node,
		submitter:    submitter,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Publish waits for the submitter index of the result to become eligible and
// submits the result. A zero submitter index publishes under the staker's
// lowest seat. It returns without error when another member gets its result
// accepted first.
func (p *Publisher) Publish(ctx context.Context, result *types.DkgResult) error {
	req, err := p.submitter.GetRequest(ctx, result.RequestID)
	if err != nil {
		return err
	}
	if req.Finalized {
		p.logger.Info("the DKG result is already submitted", zap.Uint64("request_id", req.ID))
		return nil
	}
	if req.Group == nil {
		return errorsmod.Wrapf(types.ErrGroupNotSelected, "request %d", req.ID)
	}

	memberships := p.node.JoinGroupIfEligible(req.ID, req.Group)
	if len(memberships) == 0 {
		return errorsmod.Wrapf(types.ErrNotSelected, "%s is not a member of the group of request %d",
			p.node.Staker().Hex(), req.ID)
	}
	if result.SubmitterIndex == 0 {
		// the lowest seat has the earliest window
		withIndex := *result
		withIndex.SubmitterIndex = memberships[0].MemberIndex
		result = &withIndex
	} else if !holdsSeat(memberships, result.SubmitterIndex) {
		return errorsmod.Wrapf(types.ErrNotSelected, "%s does not hold member index %d of request %d",
			p.node.Staker().Hex(), result.SubmitterIndex, req.ID)
	}

	window := submission.NewWindow(req.Params)
	eligibleBlock := window.EligibleBlock(req.BaseBlock, result.SubmitterIndex)
	p.logger.Info("waiting for the submission window",
		zap.Uint64("request_id", req.ID),
		zap.Uint64("member_index", result.SubmitterIndex),
		zap.Uint64("eligible_block", eligibleBlock),
	)

	submitted, err := p.waitForBlock(ctx, req, window, eligibleBlock)
	if err != nil {
		return err
	}
	if submitted {
		p.logger.Info("another member submitted the DKG result first", zap.Uint64("request_id", req.ID))
		return nil
	}

	err = retry.Do(func() error {
		return p.submitter.SubmitDkgResult(ctx, p.node.Staker(), result)
	},
		retry.Context(ctx),
		retry.RetryIf(types.IsRetriable),
		RtyAtt, RtyDel, RtyErr,
		retry.OnRetry(func(n uint, err error) {
			p.logger.Debug(
				"failed to submit the DKG result",
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", RtyAttNum),
				zap.Uint64("request_id", req.ID),
				zap.Error(err),
			)
		}))
	if errors.Is(err, types.ErrAlreadyFinalized) {
		p.logger.Info("another member submitted the DKG result first", zap.Uint64("request_id", req.ID))
		return nil
	}
	if err != nil {
		return err
	}

	p.logger.Info("the DKG result is accepted",
		zap.Uint64("request_id", req.ID),
		zap.Uint64("member_index", result.SubmitterIndex),
	)

	return nil
}

// waitForBlock polls until the chain reaches height. It returns true early if
// a result gets accepted for the request in the meantime.
func (p *Publisher) waitForBlock(ctx context.Context, req *types.GroupRequest, window submission.Window, height uint64) (bool, error) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		current, err := p.submitter.CurrentBlock(ctx)
		if err != nil {
			p.logger.Debug("failed to query the current block", zap.Error(err))
		} else if current >= height {
			return false, nil
		} else {
			p.logger.Debug("the submission window is not open yet",
				zap.Uint64("request_id", req.ID),
				zap.Uint64("current_block", current),
				zap.Uint64("eligible_members", window.EligibleMembers(req.BaseBlock, current, req.Group.Size())),
			)
		}

		submitted, err := p.submitter.IsResultSubmitted(ctx, req.ID)
		if err != nil {
			p.logger.Debug("failed to query the request status", zap.Error(err))
		} else if submitted {
			return true, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

func holdsSeat(memberships []*Membership, index uint64) bool {
	for _, m := range memberships {
		if m.MemberIndex == index {
			return true
		}
	}
	return false
}
