package sortition

import (
	"container/heap"

	"github.com/babylonchain/beacon-committee/types"
)

var _ heap.Interface = (*ticketHeap)(nil)

// ticketHeap is a max-heap of tickets under the total ticket order, so the
// root is always the worst retained ticket.
//
// Not safe for concurrent access.
type ticketHeap []*types.Ticket

func (h ticketHeap) Len() int { return len(h) }

// Less puts the highest ticket first.
func (h ticketHeap) Less(i, j int) bool {
	return h[i].Compare(h[j]) > 0
}

func (h ticketHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *ticketHeap) Push(x any) {
	*h = append(*h, x.(*types.Ticket))
}

func (h *ticketHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// max returns the highest retained ticket. The heap must not be empty.
func (h ticketHeap) max() *types.Ticket {
	return h[0]
}
