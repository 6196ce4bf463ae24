package submission

import (
	"github.com/babylonchain/beacon-committee/types"
)

// Window staggers DKG result publication by member rank. Member 1 becomes
// eligible once the challenge and DKG periods have passed and every next
// member one step later. Eligibility never expires.
type Window struct {
	ChallengePeriod uint64
	DkgPeriod       uint64
	Step            uint64
}

func NewWindow(params types.GroupParams) Window {
	return Window{
		ChallengePeriod: params.ChallengePeriod,
		DkgPeriod:       params.DkgPeriod,
		Step:            params.ResultPublicationStep,
	}
}

// EligibleBlock is the first height at which the member with the 1-based
// index may submit a result for a group selected at baseBlock.
func (w Window) EligibleBlock(baseBlock, memberIndex uint64) uint64 {
	if memberIndex == 0 {
		memberIndex = 1
	}
	return baseBlock + w.ChallengePeriod + w.DkgPeriod + (memberIndex-1)*w.Step
}

func (w Window) IsEligible(baseBlock, memberIndex, currentBlock uint64) bool {
	return currentBlock >= w.EligibleBlock(baseBlock, memberIndex)
}

// EligibleMembers returns how many of the first groupSize ranks may submit at
// currentBlock.
func (w Window) EligibleMembers(baseBlock, currentBlock, groupSize uint64) uint64 {
	first := w.EligibleBlock(baseBlock, 1)
	if currentBlock < first {
		return 0
	}
	if w.Step == 0 {
		return groupSize
	}
	n := (currentBlock-first)/w.Step + 1
	if n > groupSize {
		return groupSize
	}
	return n
}
