// Package escrow - машина состояний эскроу-предложений: открытие, ответ
// адресата и возврат средств после истечения срока.
package escrow

import (
	"time"

	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

// EventPublisher доставляет события после фиксации транзакции.
type EventPublisher interface {
	Publish(event entity.OfferEvent)
}

// Observer получает сведения об операциях для метрик.
type Observer interface {
	OfferOpened(kind valueobject.OfferKind, amount valueobject.Amount)
	OfferResolved(kind valueobject.OfferKind, status valueobject.OfferStatus, amount valueobject.Amount)
	OperationFailed(op string, err error)
}

// Dependencies - общие зависимости сценариев.
type Dependencies struct {
	Store     repository.EscrowStore
	Profiles  repository.ProfileRepository
	Kinds     valueobject.Kinds
	Publisher EventPublisher
	Observer  Observer
	// Now - источник времени в unix-секундах.
	Now func() int64
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Kinds == nil {
		d.Kinds = valueobject.NewKinds(valueobject.ScoutConfig(0, 0), valueobject.ContactConfig(0, 0))
	}
	if d.Publisher == nil {
		d.Publisher = nopPublisher{}
	}
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	if d.Now == nil {
		d.Now = func() int64 { return time.Now().Unix() }
	}
	return d
}

type nopPublisher struct{}

func (nopPublisher) Publish(entity.OfferEvent) {}

type nopObserver struct{}

func (nopObserver) OfferOpened(valueobject.OfferKind, valueobject.Amount) {}
func (nopObserver) OfferResolved(valueobject.OfferKind, valueobject.OfferStatus, valueobject.Amount) {
}
func (nopObserver) OperationFailed(string, error) {}
