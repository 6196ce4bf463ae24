package types

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Ticket is a stake-weighted sortition entry. A staker with weight W owns the
// virtual indices 1..W and each of them yields one independently ranked ticket.
type Ticket struct {
	Value        *uint256.Int
	Owner        common.Address
	VirtualIndex uint64
}

func NewTicket(value *uint256.Int, owner common.Address, virtualIndex uint64) *Ticket {
	return &Ticket{
		Value:        value,
		Owner:        owner,
		VirtualIndex: virtualIndex,
	}
}

// Compare orders tickets by ascending value. Equal values are ordered by
// owner address bytes and then by virtual index so the order is total.
func (t *Ticket) Compare(other *Ticket) int {
	if c := t.Value.Cmp(other.Value); c != 0 {
		return c
	}
	if c := bytes.Compare(t.Owner.Bytes(), other.Owner.Bytes()); c != 0 {
		return c
	}
	switch {
	case t.VirtualIndex < other.VirtualIndex:
		return -1
	case t.VirtualIndex > other.VirtualIndex:
		return 1
	}
	return 0
}

func (t *Ticket) String() string {
	return fmt.Sprintf("ticket{owner: %s, index: %d, value: %s}", t.Owner.Hex(), t.VirtualIndex, t.Value.Hex())
}
