package repository

import (
	"context"

	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

// PaymentRepository - балансы участников вне эскроу-операций.
type PaymentRepository interface {
	GetBalance(ctx context.Context, owner identity.Address) (*entity.AccountBalance, error)
	Deposit(ctx context.Context, owner identity.Address, amount valueobject.Amount, description string) (*entity.LedgerEntry, error)
	ListEntries(ctx context.Context, owner identity.Address, limit, offset int) ([]entity.LedgerEntry, error)
}
