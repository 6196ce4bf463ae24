package node_test

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/node"
	"github.com/babylonchain/beacon-committee/testutil"
	"github.com/babylonchain/beacon-committee/testutil/mocks"
	"github.com/babylonchain/beacon-committee/types"
)

// selectedRequest returns a request whose group was selected at block 100;
// member index 2 belongs to staker and is eligible from block 100+60+20+3
func selectedRequest(r *rand.Rand, staker common.Address) *types.GroupRequest {
	req := types.NewGroupRequest(1, testutil.GenRandomSeed(r), types.DefaultGroupParams(), 1)
	req.State = types.AwaitingSubmission
	req.BaseBlock = 100
	req.Group = &types.SelectedGroup{
		Members: []common.Address{testutil.GenRandomAddress(r), staker, testutil.GenRandomAddress(r)},
	}
	return req
}

func newPublisher(t *testing.T, staker common.Address, submitter node.ResultSubmitter) *node.Publisher {
	n, closeStore := newNode(t, staker, filepath.Join(t.TempDir(), "node.db"))
	t.Cleanup(closeStore)
	return node.NewPublisher(n, submitter, time.Millisecond, zap.NewNop())
}

func TestPublishWaitsForWindow(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	staker := testutil.GenRandomAddress(r)
	req := selectedRequest(r, staker)
	result := &types.DkgResult{RequestID: 1, SubmitterIndex: 2}

	ctl := gomock.NewController(t)
	submitter := mocks.NewMockResultSubmitter(ctl)
	submitter.EXPECT().GetRequest(gomock.Any(), uint64(1)).Return(req, nil)
	gomock.InOrder(
		submitter.EXPECT().CurrentBlock(gomock.Any()).Return(uint64(150), nil),
		submitter.EXPECT().CurrentBlock(gomock.Any()).Return(uint64(182), nil),
		submitter.EXPECT().CurrentBlock(gomock.Any()).Return(uint64(183), nil),
	)
	submitter.EXPECT().IsResultSubmitted(gomock.Any(), uint64(1)).Return(false, nil).Times(2)
	gomock.InOrder(
		submitter.EXPECT().SubmitDkgResult(gomock.Any(), staker, result).
			Return(errorsmod.Wrap(types.ErrTooEarly, "clock skew")),
		submitter.EXPECT().SubmitDkgResult(gomock.Any(), staker, result).Return(nil),
	)

	p := newPublisher(t, staker, submitter)
	require.NoError(t, p.Publish(context.Background(), result))
}

func TestPublishStopsWhenFinalized(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	staker := testutil.GenRandomAddress(r)
	req := selectedRequest(r, staker)
	result := &types.DkgResult{RequestID: 1, SubmitterIndex: 2}

	ctl := gomock.NewController(t)
	submitter := mocks.NewMockResultSubmitter(ctl)
	submitter.EXPECT().GetRequest(gomock.Any(), uint64(1)).Return(req, nil)
	submitter.EXPECT().CurrentBlock(gomock.Any()).Return(uint64(150), nil).AnyTimes()
	gomock.InOrder(
		submitter.EXPECT().IsResultSubmitted(gomock.Any(), uint64(1)).Return(false, nil),
		submitter.EXPECT().IsResultSubmitted(gomock.Any(), uint64(1)).Return(true, nil),
	)

	p := newPublisher(t, staker, submitter)
	require.NoError(t, p.Publish(context.Background(), result))
}

func TestPublishLosesRace(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	staker := testutil.GenRandomAddress(r)
	req := selectedRequest(r, staker)
	result := &types.DkgResult{RequestID: 1, SubmitterIndex: 2}

	ctl := gomock.NewController(t)
	submitter := mocks.NewMockResultSubmitter(ctl)
	submitter.EXPECT().GetRequest(gomock.Any(), uint64(1)).Return(req, nil)
	submitter.EXPECT().CurrentBlock(gomock.Any()).Return(uint64(1000), nil)
	submitter.EXPECT().SubmitDkgResult(gomock.Any(), staker, result).
		Return(errorsmod.Wrap(types.ErrAlreadyFinalized, "request 1")).Times(1)

	p := newPublisher(t, staker, submitter)
	require.NoError(t, p.Publish(context.Background(), result))
}

func TestPublishRejectsForeignIndex(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	staker := testutil.GenRandomAddress(r)
	req := selectedRequest(r, staker)

	ctl := gomock.NewController(t)
	submitter := mocks.NewMockResultSubmitter(ctl)
	submitter.EXPECT().GetRequest(gomock.Any(), uint64(1)).Return(req, nil).Times(3)

	p := newPublisher(t, staker, submitter)
	err := p.Publish(context.Background(), &types.DkgResult{RequestID: 1, SubmitterIndex: 1})
	require.ErrorIs(t, err, types.ErrNotSelected)

	outsider := newPublisher(t, testutil.GenRandomAddress(r), submitter)
	err = outsider.Publish(context.Background(), &types.DkgResult{RequestID: 1})
	require.ErrorIs(t, err, types.ErrNotSelected)

	req.Group = nil
	req.State = types.AwaitingGroup
	err = p.Publish(context.Background(), &types.DkgResult{RequestID: 1, SubmitterIndex: 2})
	require.ErrorIs(t, err, types.ErrGroupNotSelected)
}

func TestPublishDefaultsToLowestSeat(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	staker := testutil.GenRandomAddress(r)
	req := selectedRequest(r, staker)
	// the staker also holds the last seat
	req.Group.Members = append(req.Group.Members, staker)

	result := &types.DkgResult{RequestID: 1}
	expected := &types.DkgResult{RequestID: 1, SubmitterIndex: 2}

	ctl := gomock.NewController(t)
	submitter := mocks.NewMockResultSubmitter(ctl)
	submitter.EXPECT().GetRequest(gomock.Any(), uint64(1)).Return(req, nil)
	submitter.EXPECT().CurrentBlock(gomock.Any()).Return(uint64(1000), nil)
	submitter.EXPECT().SubmitDkgResult(gomock.Any(), staker, expected).Return(nil)

	p := newPublisher(t, staker, submitter)
	require.NoError(t, p.Publish(context.Background(), result))
	require.Zero(t, result.SubmitterIndex)
}

func TestPublishHonorsContext(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	staker := testutil.GenRandomAddress(r)
	req := selectedRequest(r, staker)

	ctl := gomock.NewController(t)
	submitter := mocks.NewMockResultSubmitter(ctl)
	submitter.EXPECT().GetRequest(gomock.Any(), uint64(1)).Return(req, nil)
	submitter.EXPECT().CurrentBlock(gomock.Any()).Return(uint64(101), nil).AnyTimes()
	submitter.EXPECT().IsResultSubmitted(gomock.Any(), uint64(1)).Return(false, nil).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := newPublisher(t, staker, submitter)
	err := p.Publish(ctx, &types.DkgResult{RequestID: 1, SubmitterIndex: 2})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
