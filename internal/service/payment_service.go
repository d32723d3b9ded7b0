package service

import (
	"context"

	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// MaxDeposit - верхняя граница одного пополнения через faucet.
const MaxDeposit valueobject.Amount = 1_000_000_000_000

// PaymentService - доступные балансы и история движений. Средства эскроу
// двигает только машина состояний предложений.
type PaymentService struct {
	repo repository.PaymentRepository
}

func NewPaymentService(repo repository.PaymentRepository) *PaymentService {
	return &PaymentService{repo: repo}
}

func (s *PaymentService) GetBalance(ctx context.Context, owner identity.Address) (*entity.AccountBalance, error) {
	balance, err := s.repo.GetBalance(ctx, owner)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить баланс")
	}
	return balance, nil
}

// Deposit пополняет баланс.
func (s *PaymentService) Deposit(ctx context.Context, owner identity.Address, amount valueobject.Amount) (*entity.LedgerEntry, error) {
	if amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}
	if amount > MaxDeposit {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "сумма пополнения больше %d", MaxDeposit)
	}
	entry, err := s.repo.Deposit(ctx, owner, amount, "Пополнение баланса")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось пополнить баланс")
	}
	return entry, nil
}

// ListTransactions возвращает историю движений средств.
func (s *PaymentService) ListTransactions(ctx context.Context, owner identity.Address, limit, offset int) ([]entity.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.repo.ListEntries(ctx, owner, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить историю")
	}
	return entries, nil
}
