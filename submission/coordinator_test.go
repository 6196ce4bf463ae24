package submission_test

import (
	"crypto/ecdsa"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/beacon-committee/quorum"
	"github.com/babylonchain/beacon-committee/sortition"
	"github.com/babylonchain/beacon-committee/submission"
	"github.com/babylonchain/beacon-committee/testutil"
	"github.com/babylonchain/beacon-committee/types"
)

var testParams = types.GroupParams{
	GroupSize:               5,
	GroupThreshold:          3,
	ChallengePeriod:         10,
	DkgPeriod:               5,
	ResultPublicationStep:   2,
	TicketSubmissionTimeout: 50,
}

// newRequest creates a request at height 1 whose pool holds the lowest
// tickets of a few stakers
func newRequest(r *rand.Rand, t *testing.T) (*types.GroupRequest, map[common.Address]*ecdsa.PrivateKey) {
	seed := testutil.GenRandomSeed(r)
	req := types.NewGroupRequest(1, seed, testParams, 1)

	stakers := testutil.GenRandomStakers(r, t, 3)
	pool := sortition.NewPool(seed, testParams.GroupSize)
	for _, s := range stakers {
		for _, ticket := range sortition.GenerateTickets(seed, s.Address, 4) {
			_, err := pool.Submit(ticket, 4)
			require.NoError(t, err)
		}
	}
	req.Tickets = pool.Tickets()

	return req, testutil.KeysOf(stakers)
}

func newCoordinator(t *testing.T) *submission.Coordinator {
	v, err := quorum.NewVerifier(32)
	require.NoError(t, err)
	return submission.NewCoordinator(v)
}

func TestSelectGroup(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	c := newCoordinator(t)

	req, _ := newRequest(r, t)
	expected := types.NewSelectedGroup(req.Tickets)

	group, err := c.SelectGroup(req, 100)
	require.NoError(t, err)
	require.Equal(t, expected, group)
	require.Equal(t, types.AwaitingSubmission, req.State)
	require.Equal(t, uint64(100), req.BaseBlock)
	require.Nil(t, req.Tickets)

	_, err = c.SelectGroup(req, 101)
	require.ErrorIs(t, err, types.ErrWindowClosed)
	require.Equal(t, uint64(100), req.BaseBlock)

	empty := types.NewGroupRequest(2, testutil.GenRandomSeed(r), testParams, 1)
	_, err = c.SelectGroup(empty, 100)
	require.ErrorIs(t, err, types.ErrPoolEmpty)
	require.Equal(t, types.AwaitingGroup, empty.State)
}

func TestSubmitOrdering(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	c := newCoordinator(t)
	req, keys := newRequest(r, t)
	pub, disq, inactive := testutil.GenRandomDkgResultData(r)

	group := types.NewSelectedGroup(req.Tickets)
	res := testutil.SignDkgResult(t, req.ID, 1, group, keys, pub, disq, inactive, []uint64{1, 2, 3})
	submitter := group.Members[0]

	err := c.Submit(req, submitter, res, 1000)
	require.ErrorIs(t, err, types.ErrGroupNotSelected)

	_, err = c.SelectGroup(req, 100)
	require.NoError(t, err)

	// base 100, challenge 10, dkg 5
	err = c.Submit(req, submitter, res, 114)
	require.ErrorIs(t, err, types.ErrTooEarly)

	err = c.Submit(req, testutil.GenRandomAddress(r), res, 115)
	require.ErrorIs(t, err, types.ErrNotSelected)

	outOfRange := *res
	outOfRange.SubmitterIndex = group.Size() + 1
	err = c.Submit(req, submitter, &outOfRange, 115)
	require.ErrorIs(t, err, types.ErrNotSelected)

	short := testutil.SignDkgResult(t, req.ID, 1, group, keys, pub, disq, inactive, []uint64{1, 2})
	err = c.Submit(req, submitter, short, 115)
	require.ErrorIs(t, err, types.ErrQuorumNotMet)
	require.False(t, req.Finalized)
	require.Nil(t, req.Result)

	require.NoError(t, c.Submit(req, submitter, res, 115))
	require.True(t, req.Finalized)
	require.Equal(t, types.Finalized, req.State)
	require.Equal(t, res, req.Result)
	require.Equal(t, uint64(115), req.ResultBlock)

	// finalization hides every other rejection reason
	err = c.Submit(req, testutil.GenRandomAddress(r), short, 0)
	require.ErrorIs(t, err, types.ErrAlreadyFinalized)
	err = c.Submit(req, submitter, res, 200)
	require.ErrorIs(t, err, types.ErrAlreadyFinalized)
	require.Equal(t, uint64(115), req.ResultBlock)
}

func TestSubmitByLaterMember(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	c := newCoordinator(t)
	req, keys := newRequest(r, t)
	pub, disq, inactive := testutil.GenRandomDkgResultData(r)

	group, err := c.SelectGroup(req, 100)
	require.NoError(t, err)

	// member 5 opens 4 steps after member 1
	res := testutil.SignDkgResult(t, req.ID, 5, group, keys, pub, disq, inactive, []uint64{5, 3, 1, 4})
	err = c.Submit(req, group.Members[4], res, 122)
	require.ErrorIs(t, err, types.ErrTooEarly)
	require.NoError(t, c.Submit(req, group.Members[4], res, 123))
}
