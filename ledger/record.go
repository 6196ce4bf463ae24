package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/babylonchain/beacon-committee/types"
)

// requestRecord is the rlp layout of a group request.
type requestRecord struct {
	ID          uint64
	Seed        common.Hash
	Params      paramsRecord
	State       uint8
	StartBlock  uint64
	BaseBlock   uint64
	Tickets     []ticketRecord
	HasGroup    bool
	Members     []common.Address
	Values      []common.Hash
	HasResult   bool
	Result      resultRecord
	ResultBlock uint64
	Finalized   bool
}

type paramsRecord struct {
	GroupSize               uint64
	GroupThreshold          uint64
	ChallengePeriod         uint64
	DkgPeriod               uint64
	ResultPublicationStep   uint64
	TicketSubmissionTimeout uint64
}

type ticketRecord struct {
	Value        common.Hash
	Owner        common.Address
	VirtualIndex uint64
}

type resultRecord struct {
	RequestID            uint64
	SubmitterIndex       uint64
	GroupPublicKey       []byte
	Disqualified         []byte
	Inactive             []byte
	Signatures           [][]byte
	SigningMemberIndices []uint64
}

func encodeRequest(req *types.GroupRequest) ([]byte, error) {
	rec := requestRecord{
		ID:          req.ID,
		Seed:        req.Seed,
		Params:      paramsRecord(req.Params),
		State:       uint8(req.State),
		StartBlock:  req.StartBlock,
		BaseBlock:   req.BaseBlock,
		ResultBlock: req.ResultBlock,
		Finalized:   req.Finalized,
	}

	for _, t := range req.Tickets {
		rec.Tickets = append(rec.Tickets, ticketRecord{
			Value:        t.Value.Bytes32(),
			Owner:        t.Owner,
			VirtualIndex: t.VirtualIndex,
		})
	}

	if req.Group != nil {
		rec.HasGroup = true
		rec.Members = req.Group.Members
		for _, v := range req.Group.TicketValues {
			rec.Values = append(rec.Values, v.Bytes32())
		}
	}

	if req.Result != nil {
		rec.HasResult = true
		rec.Result = resultRecord(*req.Result)
	}

	data, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode group request %d: %w", req.ID, err)
	}
	return data, nil
}

func decodeRequest(data []byte) (*types.GroupRequest, error) {
	var rec requestRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedLedgerDb, err)
	}

	req := &types.GroupRequest{
		ID:          rec.ID,
		Seed:        rec.Seed,
		Params:      types.GroupParams(rec.Params),
		State:       types.RequestState(rec.State),
		StartBlock:  rec.StartBlock,
		BaseBlock:   rec.BaseBlock,
		ResultBlock: rec.ResultBlock,
		Finalized:   rec.Finalized,
	}

	for _, t := range rec.Tickets {
		req.Tickets = append(req.Tickets, types.NewTicket(
			new(uint256.Int).SetBytes32(t.Value[:]), t.Owner, t.VirtualIndex))
	}

	if rec.HasGroup {
		if len(rec.Members) != len(rec.Values) {
			return nil, fmt.Errorf("%w: group of request %d has %d members and %d ticket values",
				ErrCorruptedLedgerDb, rec.ID, len(rec.Members), len(rec.Values))
		}
		group := &types.SelectedGroup{
			Members:      rec.Members,
			TicketValues: make([]*uint256.Int, len(rec.Values)),
		}
		for i, v := range rec.Values {
			group.TicketValues[i] = new(uint256.Int).SetBytes32(v[:])
		}
		req.Group = group
	}

	if rec.HasResult {
		result := types.DkgResult(rec.Result)
		req.Result = &result
	}

	return req, nil
}
