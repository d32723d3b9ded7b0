package escrow

import (
	"context"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

type RespondOfferInput struct {
	Signer   identity.Address
	Address  derive.RecordAddress
	Accounts RespondAccounts
	Accept   bool
}

type RespondOfferUseCase struct {
	deps  Dependencies
	guard AuthorizationGuard
}

func NewRespondOfferUseCase(deps Dependencies) *RespondOfferUseCase {
	return &RespondOfferUseCase{deps: deps.withDefaults()}
}

// Execute принимает или отклоняет предложение. Переход статуса и перевод
// средств выполняются в одной транзакции.
func (uc *RespondOfferUseCase) Execute(ctx context.Context, input RespondOfferInput) (*entity.EscrowRecord, error) {
	var (
		record *entity.EscrowRecord
		event  entity.OfferEvent
	)

	err := uc.deps.Store.Atomic(ctx, func(tx repository.EscrowTx) error {
		rec, err := tx.LockRecord(ctx, input.Address)
		if err != nil {
			return err
		}
		cfg, err := uc.deps.Kinds.Get(rec.Kind)
		if err != nil {
			return err
		}
		profile, err := uc.deps.Profiles.FindByAddress(ctx, rec.TargetProfile)
		if err != nil {
			return err
		}
		if err := uc.guard.CheckResponder(input.Signer, cfg, rec, profile, input.Accounts); err != nil {
			return err
		}

		now := uc.deps.Now()
		var recipient identity.Address
		entryType := entity.LedgerEscrowRelease
		if input.Accept {
			recipient, err = rec.Accept(now)
		} else {
			recipient, err = rec.Reject(now)
			entryType = entity.LedgerEscrowRefund
		}
		if err != nil {
			return err
		}

		if err := settle(ctx, tx, rec, recipient, entryType); err != nil {
			return err
		}
		if err := tx.UpdateRecord(ctx, rec); err != nil {
			return err
		}
		event = entity.NewOfferResponded(rec, input.Accept)
		if err := tx.AppendEvent(ctx, event); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, uc.deps.fail("respond", translate(err, "не удалось обработать ответ"))
	}

	uc.deps.Observer.OfferResolved(record.Kind, record.Status, record.Amount)
	uc.deps.Publisher.Publish(event)
	logTransition(record, "escrow offer responded")
	return record, nil
}

// settle выплачивает весь баланс записи одному получателю.
func settle(ctx context.Context, tx repository.EscrowTx, rec *entity.EscrowRecord, recipient identity.Address, entryType entity.LedgerEntryType) error {
	released, err := tx.Ledger().Release(ctx, rec.Address, recipient, entryType)
	if err != nil {
		return err
	}
	if released != rec.Amount {
		return apperror.Wrap(repository.ErrCustodyMismatch, apperror.ErrCodeInternal, "баланс эскроу не совпадает с суммой предложения")
	}
	return nil
}
