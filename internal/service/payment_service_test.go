package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

var party = identity.MustParseAddress("0x1000000000000000000000000000000000000001")

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) GetBalance(ctx context.Context, owner identity.Address) (*entity.AccountBalance, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AccountBalance), args.Error(1)
}

func (m *mockPaymentRepo) Deposit(ctx context.Context, owner identity.Address, amount valueobject.Amount, description string) (*entity.LedgerEntry, error) {
	args := m.Called(ctx, owner, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LedgerEntry), args.Error(1)
}

func (m *mockPaymentRepo) ListEntries(ctx context.Context, owner identity.Address, limit, offset int) ([]entity.LedgerEntry, error) {
	args := m.Called(ctx, owner, limit, offset)
	return args.Get(0).([]entity.LedgerEntry), args.Error(1)
}

func TestPaymentService_GetBalance(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo)
	ctx := context.Background()

	expected := &entity.AccountBalance{Owner: party, Available: 1000}
	repo.On("GetBalance", ctx, party).Return(expected, nil)

	balance, err := svc.GetBalance(ctx, party)
	assert.NoError(t, err)
	assert.Equal(t, expected, balance)
	repo.AssertExpectations(t)
}

func TestPaymentService_GetBalance_Error(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo)
	ctx := context.Background()

	repo.On("GetBalance", ctx, party).Return(nil, errors.New("db down"))

	_, err := svc.GetBalance(ctx, party)
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
}

func TestPaymentService_Deposit(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo)
	ctx := context.Background()

	entry := &entity.LedgerEntry{Owner: party, Type: entity.LedgerDeposit, Amount: 500}
	repo.On("Deposit", ctx, party, valueobject.Amount(500), "Пополнение баланса").Return(entry, nil)

	got, err := svc.Deposit(ctx, party, 500)
	assert.NoError(t, err)
	assert.Equal(t, entry, got)
	repo.AssertExpectations(t)
}

func TestPaymentService_Deposit_InvalidAmount(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo)

	for _, amount := range []valueobject.Amount{0, -100, MaxDeposit + 1} {
		_, err := svc.Deposit(context.Background(), party, amount)
		assert.True(t, apperror.IsValidation(err))
	}
	repo.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_ListTransactions_DefaultLimit(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo)
	ctx := context.Background()

	repo.On("ListEntries", ctx, party, 20, 0).Return([]entity.LedgerEntry{}, nil)

	_, err := svc.ListTransactions(ctx, party, 0, -1)
	assert.NoError(t, err)

	repo.On("ListEntries", ctx, party, 20, 10).Return([]entity.LedgerEntry{}, nil)
	_, err = svc.ListTransactions(ctx, party, 500, 10)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
