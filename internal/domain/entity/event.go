package entity

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

type OfferEventType string

const (
	EventOfferOpened    OfferEventType = "offer.opened"
	EventOfferResponded OfferEventType = "offer.responded"
	EventOfferExpired   OfferEventType = "offer.expired"
)

// OfferEvent - событие, фиксируемое в одной транзакции с переходом.
type OfferEvent struct {
	ID       uuid.UUID               `json:"id"`
	Type     OfferEventType          `json:"type"`
	Kind     valueobject.OfferKind   `json:"kind"`
	Address  derive.RecordAddress    `json:"address"`
	Opener   identity.Address        `json:"opener"`
	Target   derive.RecordAddress    `json:"target"`
	Owner    identity.Address        `json:"target_owner"`
	Amount   valueobject.Amount      `json:"amount"`
	Accepted *bool                   `json:"accepted,omitempty"`
	Status   valueobject.OfferStatus `json:"status"`
	At       int64                   `json:"at"`
}

func newEvent(typ OfferEventType, r *EscrowRecord, at int64) OfferEvent {
	return OfferEvent{
		ID:      uuid.New(),
		Type:    typ,
		Kind:    r.Kind,
		Address: r.Address,
		Opener:  r.Opener,
		Target:  r.TargetProfile,
		Owner:   r.TargetOwner,
		Amount:  r.Amount,
		Status:  r.Status,
		At:      at,
	}
}

// OfferOpened{address, opener, target, amount}.
func NewOfferOpened(r *EscrowRecord) OfferEvent {
	return newEvent(EventOfferOpened, r, r.CreatedAt)
}

// OfferResponded{address, accepted}.
func NewOfferResponded(r *EscrowRecord, accepted bool) OfferEvent {
	evt := newEvent(EventOfferResponded, r, r.ResolvedAt)
	evt.Accepted = &accepted
	return evt
}

func NewOfferExpired(r *EscrowRecord) OfferEvent {
	return newEvent(EventOfferExpired, r, r.ResolvedAt)
}

// Recipients - участники, которым доставляется событие.
func (e OfferEvent) Recipients() []identity.Address {
	if e.Opener == e.Owner {
		return []identity.Address{e.Opener}
	}
	return []identity.Address{e.Opener, e.Owner}
}
