package submission_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/babylonchain/beacon-committee/submission"
	"github.com/babylonchain/beacon-committee/testutil"
	"github.com/babylonchain/beacon-committee/types"
)

func TestWindowEligibleBlock(t *testing.T) {
	params := types.DefaultGroupParams()
	w := submission.NewWindow(params)

	// base 100, challenge 60, dkg 20
	require.Equal(t, uint64(180), w.EligibleBlock(100, 1))
	require.Equal(t, uint64(180+4*params.ResultPublicationStep), w.EligibleBlock(100, 5))

	require.False(t, w.IsEligible(100, 1, 179))
	require.True(t, w.IsEligible(100, 1, 180))
	require.False(t, w.IsEligible(100, 5, 180+4*params.ResultPublicationStep-1))
	require.True(t, w.IsEligible(100, 5, 180+4*params.ResultPublicationStep))
	// eligibility never expires
	require.True(t, w.IsEligible(100, 1, 1_000_000))
}

// FuzzWindowIsMonotonic checks that a member is never eligible before a
// lower ranked member and stays eligible once it is
func FuzzWindowIsMonotonic(f *testing.F) {
	testutil.AddRandomSeedsToFuzzer(f, 10)
	f.Fuzz(func(t *testing.T, seed int64) {
		r := rand.New(rand.NewSource(seed))

		w := submission.Window{
			ChallengePeriod: uint64(r.Intn(100) + 1),
			DkgPeriod:       uint64(r.Intn(100) + 1),
			Step:            uint64(r.Intn(10) + 1),
		}
		base := uint64(r.Int63n(1_000_000))
		groupSize := uint64(r.Intn(64) + 1)
		current := base + uint64(r.Intn(1000))

		eligible := w.EligibleMembers(base, current, groupSize)
		for idx := uint64(1); idx <= groupSize; idx++ {
			require.Equal(t, idx <= eligible, w.IsEligible(base, idx, current))
			if idx > 1 {
				require.Equal(t, w.Step, w.EligibleBlock(base, idx)-w.EligibleBlock(base, idx-1))
			}
			require.True(t, w.IsEligible(base, idx, current+w.EligibleBlock(base, idx)))
		}
	})
}

func TestWindowEligibleMembers(t *testing.T) {
	w := submission.Window{ChallengePeriod: 60, DkgPeriod: 20, Step: 3}

	require.Equal(t, uint64(0), w.EligibleMembers(100, 179, 20))
	require.Equal(t, uint64(1), w.EligibleMembers(100, 180, 20))
	require.Equal(t, uint64(1), w.EligibleMembers(100, 182, 20))
	require.Equal(t, uint64(2), w.EligibleMembers(100, 183, 20))
	require.Equal(t, uint64(20), w.EligibleMembers(100, 10_000, 20))

	w.Step = 0
	require.Equal(t, uint64(20), w.EligibleMembers(100, 180, 20))
}
