package sortition

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/babylonchain/beacon-committee/types"
)

// TicketValue computes the sortition value of a virtual staker:
// keccak256(seed || owner || uint256(virtualIndex)), read as a big-endian
// 256-bit integer.
func TicketValue(seed common.Hash, owner common.Address, virtualIndex uint64) *uint256.Int {
	index := uint256.NewInt(virtualIndex).Bytes32()
	digest := crypto.Keccak256(seed.Bytes(), owner.Bytes(), index[:])
	return new(uint256.Int).SetBytes(digest)
}

// NewTicket computes the ticket of the given virtual staker.
func NewTicket(seed common.Hash, owner common.Address, virtualIndex uint64) *types.Ticket {
	return types.NewTicket(TicketValue(seed, owner, virtualIndex), owner, virtualIndex)
}

// GenerateTickets returns the tickets of all virtual stakers 1..weight of the
// owner, in virtual index order.
func GenerateTickets(seed common.Hash, owner common.Address, weight uint64) []*types.Ticket {
	tickets := make([]*types.Ticket, 0, weight)
	for i := uint64(1); i <= weight; i++ {
		tickets = append(tickets, NewTicket(seed, owner, i))
	}
	return tickets
}

// IsValidTicket reports whether the ticket value matches its inputs.
func IsValidTicket(seed common.Hash, t *types.Ticket) bool {
	if t == nil || t.Value == nil {
		return false
	}
	return TicketValue(seed, t.Owner, t.VirtualIndex).Eq(t.Value)
}
