package escrow

import (
	"context"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
)

// ReclaimExpiredUseCase возвращает средства отправителю после истечения срока.
// Вызвать может кто угодно: получатель выплаты всегда отправитель.
type ReclaimExpiredUseCase struct {
	deps  Dependencies
	guard AuthorizationGuard
}

func NewReclaimExpiredUseCase(deps Dependencies) *ReclaimExpiredUseCase {
	return &ReclaimExpiredUseCase{deps: deps.withDefaults()}
}

func (uc *ReclaimExpiredUseCase) Execute(ctx context.Context, caller identity.Address, address derive.RecordAddress) (*entity.EscrowRecord, error) {
	var (
		record *entity.EscrowRecord
		event  entity.OfferEvent
	)

	err := uc.deps.Store.Atomic(ctx, func(tx repository.EscrowTx) error {
		rec, err := tx.LockRecord(ctx, address)
		if err != nil {
			return err
		}
		cfg, err := uc.deps.Kinds.Get(rec.Kind)
		if err != nil {
			return err
		}
		if err := uc.guard.CheckRecord(cfg, rec); err != nil {
			return err
		}

		recipient, err := rec.Expire(uc.deps.Now(), caller)
		if err != nil {
			return err
		}
		if err := settle(ctx, tx, rec, recipient, entity.LedgerEscrowExpireRefund); err != nil {
			return err
		}
		if err := tx.UpdateRecord(ctx, rec); err != nil {
			return err
		}
		event = entity.NewOfferExpired(rec)
		if err := tx.AppendEvent(ctx, event); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, uc.deps.fail("reclaim", translate(err, "не удалось вернуть средства"))
	}

	uc.deps.Observer.OfferResolved(record.Kind, record.Status, record.Amount)
	uc.deps.Publisher.Publish(event)
	logTransition(record, "escrow offer expired")
	return record, nil
}
