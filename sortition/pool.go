package sortition

import (
	"container/heap"
	"fmt"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/babylonchain/beacon-committee/types"
)

type ticketKey struct {
	owner common.Address
	index uint64
}

func keyOf(t *types.Ticket) ticketKey {
	return ticketKey{owner: t.Owner, index: t.VirtualIndex}
}

// Pool keeps the groupSize lowest tickets submitted for one seed. Memory is
// bounded by the group size no matter how many tickets are submitted.
//
// Pool is not safe for concurrent use; the ledger transaction that owns it
// serializes access.
type Pool struct {
	seed     common.Hash
	capacity uint64

	tickets  ticketHeap
	retained map[ticketKey]struct{}
	closed   bool
}

func NewPool(seed common.Hash, groupSize uint64) *Pool {
	return &Pool{
		seed:     seed,
		capacity: groupSize,
		tickets:  make(ticketHeap, 0, groupSize),
		retained: make(map[ticketKey]struct{}, groupSize),
	}
}

// RestorePool rebuilds an open pool out of previously retained tickets.
func RestorePool(seed common.Hash, groupSize uint64, tickets []*types.Ticket) (*Pool, error) {
	if uint64(len(tickets)) > groupSize {
		return nil, fmt.Errorf("cannot restore %d tickets into a pool of size %d", len(tickets), groupSize)
	}

	p := NewPool(seed, groupSize)
	for _, t := range tickets {
		if _, ok := p.retained[keyOf(t)]; ok {
			return nil, fmt.Errorf("duplicate retained ticket %s", t)
		}
		p.tickets = append(p.tickets, t)
		p.retained[keyOf(t)] = struct{}{}
	}
	heap.Init(&p.tickets)

	return p, nil
}

// Submit offers a ticket whose owner has the given weight. It returns true if
// the ticket is retained and false if it ranks too high to be retained, which
// is not an error.
func (p *Pool) Submit(t *types.Ticket, weight uint64) (bool, error) {
	if p.closed {
		return false, types.ErrWindowClosed
	}
	if err := p.validate(t, weight); err != nil {
		return false, err
	}

	if !p.IsFull() {
		heap.Push(&p.tickets, t)
		p.retained[keyOf(t)] = struct{}{}
		return true, nil
	}

	worst := p.Max()
	if t.Compare(worst) >= 0 {
		return false, nil
	}

	delete(p.retained, keyOf(worst))
	p.tickets[0] = t
	heap.Fix(&p.tickets, 0)
	p.retained[keyOf(t)] = struct{}{}

	return true, nil
}

func (p *Pool) validate(t *types.Ticket, weight uint64) error {
	if t == nil || t.Value == nil {
		return errorsmod.Wrap(types.ErrInvalidTicket, "empty ticket")
	}
	if t.VirtualIndex == 0 {
		return errorsmod.Wrap(types.ErrInvalidTicket, "virtual index must be positive")
	}
	if t.VirtualIndex > weight {
		return errorsmod.Wrapf(types.ErrInvalidTicket, "virtual index %d exceeds weight %d of %s",
			t.VirtualIndex, weight, t.Owner.Hex())
	}
	if !IsValidTicket(p.seed, t) {
		return errorsmod.Wrapf(types.ErrInvalidTicket, "value does not match %s", t)
	}
	if _, ok := p.retained[keyOf(t)]; ok {
		return errorsmod.Wrapf(types.ErrInvalidTicket, "virtual index %d of %s already submitted",
			t.VirtualIndex, t.Owner.Hex())
	}
	return nil
}

// Freeze closes the pool and returns the selected group.
func (p *Pool) Freeze() (*types.SelectedGroup, error) {
	if p.closed {
		return nil, types.ErrWindowClosed
	}
	if p.tickets.Len() == 0 {
		return nil, types.ErrPoolEmpty
	}

	p.closed = true

	return types.NewSelectedGroup(p.Tickets()), nil
}

// Tickets returns the retained tickets in ascending order.
func (p *Pool) Tickets() []*types.Ticket {
	sorted := make([]*types.Ticket, len(p.tickets))
	copy(sorted, p.tickets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	return sorted
}

// Max returns the highest retained ticket, nil if the pool is empty.
func (p *Pool) Max() *types.Ticket {
	if p.tickets.Len() == 0 {
		return nil
	}
	return p.tickets.max()
}

// DistinctOwners counts the stakers holding at least one retained ticket.
func (p *Pool) DistinctOwners() int {
	owners := make(map[common.Address]struct{}, len(p.tickets))
	for _, t := range p.tickets {
		owners[t.Owner] = struct{}{}
	}
	return len(owners)
}

func (p *Pool) IsFull() bool {
	return uint64(p.tickets.Len()) == p.capacity
}

func (p *Pool) Len() int {
	return p.tickets.Len()
}

func (p *Pool) IsClosed() bool {
	return p.closed
}
