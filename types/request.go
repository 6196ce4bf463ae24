package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RequestState is the lifecycle stage of a group request.
type RequestState uint8

const (
	// AwaitingGroup tickets are being collected
	AwaitingGroup RequestState = iota
	// AwaitingSubmission the group is selected and waits for a DKG result
	AwaitingSubmission
	// Finalized a DKG result has been accepted, terminal
	Finalized
)

func (s RequestState) String() string {
	switch s {
	case AwaitingGroup:
		return "AWAITING_GROUP"
	case AwaitingSubmission:
		return "AWAITING_SUBMISSION"
	case Finalized:
		return "FINALIZED"
	default:
		return "UNKNOWN"
	}
}

// ParseRequestState is the inverse of RequestState.String.
func ParseRequestState(s string) (RequestState, error) {
	for _, state := range []RequestState{AwaitingGroup, AwaitingSubmission, Finalized} {
		if state.String() == s {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown request state %q", s)
}

// GroupRequest is the ledger state of one group selection and DKG result
// publication round.
type GroupRequest struct {
	ID     uint64
	Seed   common.Hash
	Params GroupParams
	State  RequestState

	// StartBlock is the height the request was created at
	StartBlock uint64
	// BaseBlock is the height the group was selected at
	BaseBlock uint64

	// Tickets are the retained tickets while the request awaits its group
	Tickets []*Ticket
	Group   *SelectedGroup

	Result      *DkgResult
	ResultBlock uint64
	Finalized   bool
}

func NewGroupRequest(id uint64, seed common.Hash, params GroupParams, startBlock uint64) *GroupRequest {
	return &GroupRequest{
		ID:         id,
		Seed:       seed,
		Params:     params,
		State:      AwaitingGroup,
		StartBlock: startBlock,
	}
}

// TicketSubmissionEnd is the first height at which tickets are rejected.
func (r *GroupRequest) TicketSubmissionEnd() uint64 {
	return r.StartBlock + r.Params.TicketSubmissionTimeout
}

// IsTicketSubmissionOpen reports whether tickets are accepted at the height.
func (r *GroupRequest) IsTicketSubmissionOpen(currentBlock uint64) bool {
	return r.State == AwaitingGroup && currentBlock < r.TicketSubmissionEnd()
}
