package registry

import (
	"encoding/hex"
	"fmt"
	"time"
)

const (
	EventTypeTransfer             = "TRANSFER"
	EventTypeApproval             = "APPROVAL"
	EventTypeAttributeSet         = "ATTRIBUTE"
	EventTypeOwnershipTransferred = "OWNERSHIP"
)

// Event is a committed registry mutation surfaced to the entry layer.
// A single flat record covers all four domain events; the empty
// account string stands for the absent side of a mint or burn
// transfer and for a renounced contract owner.
type Event struct {
	Type      string
	From      string
	To        string
	Operator  string
	Id        *Id
	Approved  bool
	Key       []byte
	Value     []byte
	Data      []byte
	CreatedAt time.Time
}

func TransferEvent(from, to string, id Id, data []byte) *Event {
	return &Event{
		Type: EventTypeTransfer,
		From: from,
		To:   to,
		Id:   &id,
		Data: data,
	}
}

func ApprovalEvent(owner, operator string, id *Id, approved bool) *Event {
	return &Event{
		Type:     EventTypeApproval,
		From:     owner,
		Operator: operator,
		Id:       id,
		Approved: approved,
	}
}

func AttributeSetEvent(id Id, key, value []byte) *Event {
	return &Event{
		Type:  EventTypeAttributeSet,
		Id:    &id,
		Key:   key,
		Value: value,
	}
}

func OwnershipTransferredEvent(oldOwner, newOwner string) *Event {
	return &Event{
		Type: EventTypeOwnershipTransferred,
		From: oldOwner,
		To:   newOwner,
	}
}

func (e *Event) String() string {
	switch e.Type {
	case EventTypeTransfer:
		return fmt.Sprintf("Transfer(from %s, to %s, id %s)", e.From, e.To, e.Id)
	case EventTypeApproval:
		id := "all"
		if e.Id != nil {
			id = e.Id.String()
		}
		return fmt.Sprintf("Approval(owner %s, operator %s, id %s, approved %t)", e.From, e.Operator, id, e.Approved)
	case EventTypeAttributeSet:
		return fmt.Sprintf("AttributeSet(id %s, key %s, value %s)", e.Id, e.Key, hex.EncodeToString(e.Value))
	case EventTypeOwnershipTransferred:
		return fmt.Sprintf("OwnershipTransferred(old %s, new %s)", e.From, e.To)
	}
	panic(e.Type)
}
