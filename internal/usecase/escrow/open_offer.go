package escrow

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/logger"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

type OpenOfferInput struct {
	Kind          valueobject.OfferKind
	Signer        identity.Address
	TargetProfile derive.RecordAddress
	Message       string
	Amount        valueobject.Amount
}

type OpenOfferUseCase struct {
	deps  Dependencies
	guard AuthorizationGuard
}

func NewOpenOfferUseCase(deps Dependencies) *OpenOfferUseCase {
	return &OpenOfferUseCase{deps: deps.withDefaults()}
}

func (uc *OpenOfferUseCase) Execute(ctx context.Context, input OpenOfferInput) (*entity.EscrowRecord, error) {
	record, event, err := uc.open(ctx, input)
	if err != nil {
		return nil, uc.deps.fail("open", err)
	}

	uc.deps.Observer.OfferOpened(record.Kind, record.Amount)
	uc.deps.Publisher.Publish(event)
	logTransition(record, "escrow offer opened")
	return record, nil
}

func (uc *OpenOfferUseCase) open(ctx context.Context, input OpenOfferInput) (*entity.EscrowRecord, entity.OfferEvent, error) {
	var event entity.OfferEvent

	cfg, err := uc.deps.Kinds.Get(input.Kind)
	if err != nil {
		return nil, event, err
	}

	profile, err := uc.deps.Profiles.FindByAddress(ctx, input.TargetProfile)
	if err != nil {
		return nil, event, translate(err, "не удалось загрузить профиль")
	}
	if err := uc.guard.CheckOpener(input.Signer, profile); err != nil {
		return nil, event, err
	}
	if cfg.RequirePublic && !profile.IsPublic {
		return nil, event, apperror.New(apperror.ErrCodeValidation, "профиль скрыт и не принимает запросы")
	}

	address, bump, err := derive.Offer(cfg.Namespace, input.Signer, profile.Address)
	if err != nil {
		return nil, event, err
	}

	params := entity.OpenParams{
		Config:        cfg,
		Address:       address,
		Bump:          bump,
		Opener:        input.Signer,
		TargetProfile: profile.Address,
		TargetOwner:   profile.Owner,
		Message:       input.Message,
		Amount:        input.Amount,
		Now:           uc.deps.Now(),
	}
	if cfg.UseProfilePrices {
		params.MinAmount = profile.MinContactPrice()
	}
	if cfg.UseProfileWindow && profile.ResponseTimeHours > 0 {
		params.Window = time.Duration(profile.ResponseTimeHours) * time.Hour
	}

	record, err := entity.NewEscrowRecord(params)
	if err != nil {
		return nil, event, err
	}

	err = uc.deps.Store.Atomic(ctx, func(tx repository.EscrowTx) error {
		if err := tx.InsertRecord(ctx, record); err != nil {
			return err
		}
		if err := tx.Ledger().Open(ctx, record.Opener, record.Address, record.Amount); err != nil {
			return err
		}
		event = entity.NewOfferOpened(record)
		return tx.AppendEvent(ctx, event)
	})
	if err != nil {
		return nil, event, translate(err, "не удалось открыть предложение")
	}
	return record, event, nil
}

func logTransition(r *entity.EscrowRecord, msg string) {
	logger.L().WithFields(logrus.Fields{
		"address": r.Address.String(),
		"kind":    r.Kind,
		"opener":  r.Opener.Hex(),
		"target":  r.TargetOwner.Hex(),
		"amount":  r.Amount.Int64(),
		"status":  r.Status,
	}).Info(msg)
}
