package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// SelectedGroup is the committee frozen out of a sortition pool. Members are
// ordered by ascending ticket value and addressed with 1-based member indices.
// A staker holding several selected tickets appears once per ticket.
type SelectedGroup struct {
	Members      []common.Address
	TicketValues []*uint256.Int
}

// NewSelectedGroup builds a group out of tickets that are already sorted.
func NewSelectedGroup(tickets []*Ticket) *SelectedGroup {
	g := &SelectedGroup{
		Members:      make([]common.Address, len(tickets)),
		TicketValues: make([]*uint256.Int, len(tickets)),
	}
	for i, t := range tickets {
		g.Members[i] = t.Owner
		g.TicketValues[i] = new(uint256.Int).Set(t.Value)
	}
	return g
}

func (g *SelectedGroup) Size() uint64 {
	return uint64(len(g.Members))
}

// Member returns the member at the 1-based index.
func (g *SelectedGroup) Member(index uint64) (common.Address, bool) {
	if index == 0 || index > g.Size() {
		return common.Address{}, false
	}
	return g.Members[index-1], true
}

// IndicesOf returns every 1-based member index held by the staker.
func (g *SelectedGroup) IndicesOf(staker common.Address) []uint64 {
	var indices []uint64
	for i, m := range g.Members {
		if m == staker {
			indices = append(indices, uint64(i+1))
		}
	}
	return indices
}

func (g *SelectedGroup) Contains(staker common.Address) bool {
	return len(g.IndicesOf(staker)) > 0
}
