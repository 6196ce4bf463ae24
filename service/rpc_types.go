package service

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/babylonchain/beacon-committee/types"
)

// Ticket is the JSON form of types.Ticket.
type Ticket struct {
	Value        *hexutil.Big   `json:"value"`
	Owner        common.Address `json:"owner"`
	VirtualIndex hexutil.Uint64 `json:"virtualIndex"`
}

func NewTicket(t *types.Ticket) *Ticket {
	return &Ticket{
		Value:        (*hexutil.Big)(t.Value.ToBig()),
		Owner:        t.Owner,
		VirtualIndex: hexutil.Uint64(t.VirtualIndex),
	}
}

func (t *Ticket) ToTicket() (*types.Ticket, error) {
	if t.Value == nil {
		return nil, fmt.Errorf("missing ticket value")
	}
	value, overflow := uint256.FromBig((*big.Int)(t.Value))
	if overflow || (*big.Int)(t.Value).Sign() < 0 {
		return nil, fmt.Errorf("ticket value %s is not a 256-bit unsigned integer", t.Value.String())
	}
	return types.NewTicket(value, t.Owner, uint64(t.VirtualIndex)), nil
}

// SelectedGroup is the JSON form of types.SelectedGroup. Members[i] holds
// member index i+1.
type SelectedGroup struct {
	Members      []common.Address `json:"members"`
	TicketValues []*hexutil.Big   `json:"ticketValues"`
}

func NewSelectedGroup(g *types.SelectedGroup) *SelectedGroup {
	if g == nil {
		return nil
	}
	out := &SelectedGroup{
		Members:      append([]common.Address{}, g.Members...),
		TicketValues: make([]*hexutil.Big, len(g.TicketValues)),
	}
	for i, v := range g.TicketValues {
		out.TicketValues[i] = (*hexutil.Big)(v.ToBig())
	}
	return out
}

func (g *SelectedGroup) ToSelectedGroup() (*types.SelectedGroup, error) {
	if len(g.Members) != len(g.TicketValues) {
		return nil, fmt.Errorf("%d members for %d ticket values", len(g.Members), len(g.TicketValues))
	}
	out := &types.SelectedGroup{
		Members:      append([]common.Address{}, g.Members...),
		TicketValues: make([]*uint256.Int, len(g.TicketValues)),
	}
	for i, v := range g.TicketValues {
		value, overflow := uint256.FromBig((*big.Int)(v))
		if overflow {
			return nil, fmt.Errorf("ticket value %s overflows 256 bits", v.String())
		}
		out.TicketValues[i] = value
	}
	return out, nil
}

// DkgResult is the JSON form of types.DkgResult. Signatures are the 65-byte
// member signatures concatenated in the order of SigningMemberIndices.
type DkgResult struct {
	RequestID            hexutil.Uint64   `json:"requestId"`
	SubmitterIndex       hexutil.Uint64   `json:"submitterIndex"`
	GroupPublicKey       hexutil.Bytes    `json:"groupPublicKey"`
	Disqualified         hexutil.Bytes    `json:"disqualified"`
	Inactive             hexutil.Bytes    `json:"inactive"`
	Signatures           hexutil.Bytes    `json:"signatures"`
	SigningMemberIndices []hexutil.Uint64 `json:"signingMemberIndices"`
}

func NewDkgResult(r *types.DkgResult) *DkgResult {
	if r == nil {
		return nil
	}
	out := &DkgResult{
		RequestID:            hexutil.Uint64(r.RequestID),
		SubmitterIndex:       hexutil.Uint64(r.SubmitterIndex),
		GroupPublicKey:       r.GroupPublicKey,
		Disqualified:         r.Disqualified,
		Inactive:             r.Inactive,
		Signatures:           types.ConcatSignatures(r.Signatures),
		SigningMemberIndices: make([]hexutil.Uint64, len(r.SigningMemberIndices)),
	}
	for i, index := range r.SigningMemberIndices {
		out.SigningMemberIndices[i] = hexutil.Uint64(index)
	}
	return out
}

// ToDkgResult decodes the bundle. Malformed signature bytes are passed on
// and rejected by the verifier.
func (r *DkgResult) ToDkgResult() *types.DkgResult {
	out := &types.DkgResult{
		RequestID:            uint64(r.RequestID),
		SubmitterIndex:       uint64(r.SubmitterIndex),
		GroupPublicKey:       r.GroupPublicKey,
		Disqualified:         r.Disqualified,
		Inactive:             r.Inactive,
		Signatures:           types.ChunkSignatures(r.Signatures),
		SigningMemberIndices: make([]uint64, len(r.SigningMemberIndices)),
	}
	for i, index := range r.SigningMemberIndices {
		out.SigningMemberIndices[i] = uint64(index)
	}
	return out
}

type GroupParams struct {
	GroupSize               hexutil.Uint64 `json:"groupSize"`
	GroupThreshold          hexutil.Uint64 `json:"groupThreshold"`
	ChallengePeriod         hexutil.Uint64 `json:"challengePeriod"`
	DkgPeriod               hexutil.Uint64 `json:"dkgPeriod"`
	ResultPublicationStep   hexutil.Uint64 `json:"resultPublicationStep"`
	TicketSubmissionTimeout hexutil.Uint64 `json:"ticketSubmissionTimeout"`
}

// GroupRequest is the JSON form of types.GroupRequest.
type GroupRequest struct {
	ID          hexutil.Uint64 `json:"id"`
	Seed        common.Hash    `json:"seed"`
	Params      GroupParams    `json:"params"`
	State       string         `json:"state"`
	StartBlock  hexutil.Uint64 `json:"startBlock"`
	BaseBlock   hexutil.Uint64 `json:"baseBlock"`
	Tickets     []*Ticket      `json:"tickets,omitempty"`
	Group       *SelectedGroup `json:"group,omitempty"`
	Result      *DkgResult     `json:"result,omitempty"`
	ResultBlock hexutil.Uint64 `json:"resultBlock"`
	Finalized   bool           `json:"finalized"`
}

func NewGroupRequest(req *types.GroupRequest) *GroupRequest {
	out := &GroupRequest{
		ID:   hexutil.Uint64(req.ID),
		Seed: req.Seed,
		Params: GroupParams{
			GroupSize:               hexutil.Uint64(req.Params.GroupSize),
			GroupThreshold:          hexutil.Uint64(req.Params.GroupThreshold),
			ChallengePeriod:         hexutil.Uint64(req.Params.ChallengePeriod),
			DkgPeriod:               hexutil.Uint64(req.Params.DkgPeriod),
			ResultPublicationStep:   hexutil.Uint64(req.Params.ResultPublicationStep),
			TicketSubmissionTimeout: hexutil.Uint64(req.Params.TicketSubmissionTimeout),
		},
		State:       req.State.String(),
		StartBlock:  hexutil.Uint64(req.StartBlock),
		BaseBlock:   hexutil.Uint64(req.BaseBlock),
		Group:       NewSelectedGroup(req.Group),
		Result:      NewDkgResult(req.Result),
		ResultBlock: hexutil.Uint64(req.ResultBlock),
		Finalized:   req.Finalized,
	}
	for _, t := range req.Tickets {
		out.Tickets = append(out.Tickets, NewTicket(t))
	}
	return out
}

func (r *GroupRequest) ToGroupRequest() (*types.GroupRequest, error) {
	state, err := types.ParseRequestState(r.State)
	if err != nil {
		return nil, err
	}

	out := &types.GroupRequest{
		ID:   uint64(r.ID),
		Seed: r.Seed,
		Params: types.GroupParams{
			GroupSize:               uint64(r.Params.GroupSize),
			GroupThreshold:          uint64(r.Params.GroupThreshold),
			ChallengePeriod:         uint64(r.Params.ChallengePeriod),
			DkgPeriod:               uint64(r.Params.DkgPeriod),
			ResultPublicationStep:   uint64(r.Params.ResultPublicationStep),
			TicketSubmissionTimeout: uint64(r.Params.TicketSubmissionTimeout),
		},
		State:       state,
		StartBlock:  uint64(r.StartBlock),
		BaseBlock:   uint64(r.BaseBlock),
		ResultBlock: uint64(r.ResultBlock),
		Finalized:   r.Finalized,
	}
	for _, t := range r.Tickets {
		ticket, err := t.ToTicket()
		if err != nil {
			return nil, err
		}
		out.Tickets = append(out.Tickets, ticket)
	}
	if r.Group != nil {
		if out.Group, err = r.Group.ToSelectedGroup(); err != nil {
			return nil, err
		}
	}
	if r.Result != nil {
		out.Result = r.Result.ToDkgResult()
	}
	return out, nil
}

// DkgResultResponse is the accepted result with the block it was accepted at.
type DkgResultResponse struct {
	Result *DkgResult     `json:"result"`
	Block  hexutil.Uint64 `json:"block"`
}
