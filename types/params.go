package types

import (
	errorsmod "cosmossdk.io/errors"
)

// GroupParams are the group selection and result publication parameters of a
// request. They are copied into the request when it is created and never
// change afterwards.
type GroupParams struct {
	// GroupSize is the number of members of a selected group
	GroupSize uint64
	// GroupThreshold is the minimum number of member signatures a DKG result
	// needs to be accepted
	GroupThreshold uint64
	// ChallengePeriod is the number of blocks, counted from the group
	// selection, before any result may be published
	ChallengePeriod uint64
	// DkgPeriod is the number of blocks reserved for the off-chain key generation
	DkgPeriod uint64
	// ResultPublicationStep is the number of blocks between the eligibility
	// of two consecutive member indices
	ResultPublicationStep uint64
	// TicketSubmissionTimeout is the number of blocks, counted from the
	// request, after which no more tickets are accepted
	TicketSubmissionTimeout uint64
}

func DefaultGroupParams() GroupParams {
	return GroupParams{
		GroupSize:               20,
		GroupThreshold:          15,
		ChallengePeriod:         60,
		DkgPeriod:               20,
		ResultPublicationStep:   3,
		TicketSubmissionTimeout: 100,
	}
}

// Validate checks that all parameters are positive and that the threshold
// can be reached by a full group.
func (p GroupParams) Validate() error {
	switch {
	case p.GroupSize == 0:
		return errorsmod.Wrap(ErrInvalidParams, "group size must be positive")
	case p.GroupThreshold == 0:
		return errorsmod.Wrap(ErrInvalidParams, "group threshold must be positive")
	case p.GroupThreshold > p.GroupSize:
		return errorsmod.Wrapf(ErrInvalidParams, "group threshold %d exceeds group size %d",
			p.GroupThreshold, p.GroupSize)
	case p.ChallengePeriod == 0:
		return errorsmod.Wrap(ErrInvalidParams, "challenge period must be positive")
	case p.DkgPeriod == 0:
		return errorsmod.Wrap(ErrInvalidParams, "dkg period must be positive")
	case p.ResultPublicationStep == 0:
		return errorsmod.Wrap(ErrInvalidParams, "result publication step must be positive")
	case p.TicketSubmissionTimeout == 0:
		return errorsmod.Wrap(ErrInvalidParams, "ticket submission timeout must be positive")
	}
	return nil
}
