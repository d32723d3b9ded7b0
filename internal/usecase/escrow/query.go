package escrow

import (
	"context"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// OfferView - запись вместе с текущим балансом эскроу.
type OfferView struct {
	Record  *entity.EscrowRecord
	Custody valueobject.Amount
	// Expired - срок истёк, но запись ещё ожидает возврата.
	Expired bool
}

type GetOfferUseCase struct {
	deps Dependencies
}

func NewGetOfferUseCase(deps Dependencies) *GetOfferUseCase {
	return &GetOfferUseCase{deps: deps.withDefaults()}
}

func (uc *GetOfferUseCase) Execute(ctx context.Context, address derive.RecordAddress) (*OfferView, error) {
	rec, custody, err := uc.deps.Store.FindRecordWithCustody(ctx, address)
	if err != nil {
		return nil, translate(err, "не удалось получить предложение")
	}
	return &OfferView{
		Record:  rec,
		Custody: custody,
		Expired: rec.IsPending() && rec.IsExpiredAt(uc.deps.Now()),
	}, nil
}

type ListOffersInput struct {
	Party  identity.Address
	Role   string
	Status string
	Limit  int
	Offset int
}

type ListOffersUseCase struct {
	deps Dependencies
}

func NewListOffersUseCase(deps Dependencies) *ListOffersUseCase {
	return &ListOffersUseCase{deps: deps.withDefaults()}
}

func (uc *ListOffersUseCase) Execute(ctx context.Context, input ListOffersInput) ([]*entity.EscrowRecord, error) {
	filter := repository.RecordFilter{
		Party:  input.Party,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	switch input.Role {
	case "", repository.RoleOpener, repository.RoleTarget:
		filter.Role = input.Role
	default:
		return nil, validationf("неизвестная роль: %q", input.Role)
	}
	if input.Status != "" {
		status, err := valueobject.NewOfferStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	records, err := uc.deps.Store.ListRecords(ctx, filter)
	if err != nil {
		return nil, translate(err, "не удалось получить список предложений")
	}
	return records, nil
}

// DeriveOfferAddress вычисляет адрес записи без обращения к хранилищу.
func DeriveOfferAddress(kinds valueobject.Kinds, kind valueobject.OfferKind, opener identity.Address, target derive.RecordAddress) (derive.RecordAddress, uint8, error) {
	cfg, err := kinds.Get(kind)
	if err != nil {
		return derive.ZeroRecord, 0, err
	}
	return derive.Offer(cfg.Namespace, opener, target)
}
