package memstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/infrastructure/memstore"
)

var (
	opener = identity.MustParseAddress("0x1000000000000000000000000000000000000001")
	target = identity.MustParseAddress("0x2000000000000000000000000000000000000002")
)

func record(t *testing.T) *entity.EscrowRecord {
	t.Helper()
	addr, bump, err := derive.Offer(derive.NamespaceScout, opener, derive.ZeroRecord)
	require.NoError(t, err)
	return &entity.EscrowRecord{
		Address:     addr,
		Bump:        bump,
		Kind:        valueobject.OfferKindScout,
		Opener:      opener,
		TargetOwner: target,
		Amount:      1_000_000,
		CreatedAt:   1,
		ExpiresAt:   2,
		Status:      valueobject.OfferStatusPending,
	}
}

func TestAtomic_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	_, err := s.Deposit(ctx, opener, 1_000_000, "")
	require.NoError(t, err)

	rec := record(t)
	boom := errors.New("boom")
	err = s.Atomic(ctx, func(tx repository.EscrowTx) error {
		require.NoError(t, tx.InsertRecord(ctx, rec))
		require.NoError(t, tx.Ledger().Open(ctx, opener, rec.Address, rec.Amount))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindRecord(ctx, rec.Address)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	balance, err := s.GetBalance(ctx, opener)
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, balance.Available)
	custody, err := s.CustodyBalance(ctx, rec.Address)
	require.NoError(t, err)
	assert.Zero(t, custody)
	_, _, err = s.FindRecordWithCustody(ctx, rec.Address)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestLedger_OpenRelease(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	_, err := s.Deposit(ctx, opener, 1_500_000, "faucet")
	require.NoError(t, err)
	rec := record(t)

	err = s.Atomic(ctx, func(tx repository.EscrowTx) error {
		if err := tx.InsertRecord(ctx, rec); err != nil {
			return err
		}
		return tx.Ledger().Open(ctx, opener, rec.Address, rec.Amount)
	})
	require.NoError(t, err)

	err = s.Atomic(ctx, func(tx repository.EscrowTx) error {
		return tx.InsertRecord(ctx, rec)
	})
	assert.ErrorIs(t, err, repository.ErrRecordExists)

	err = s.Atomic(ctx, func(tx repository.EscrowTx) error {
		released, err := tx.Ledger().Release(ctx, rec.Address, target, entity.LedgerEscrowRelease)
		assert.EqualValues(t, 1_000_000, released)
		return err
	})
	require.NoError(t, err)

	err = s.Atomic(ctx, func(tx repository.EscrowTx) error {
		_, err := tx.Ledger().Release(ctx, rec.Address, target, entity.LedgerEscrowRelease)
		return err
	})
	assert.ErrorIs(t, err, repository.ErrCustodyMismatch)

	entries, err := s.ListEntries(ctx, target, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LedgerEscrowRelease, entries[0].Type)

	entries, err = s.ListEntries(ctx, opener, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.LedgerEscrowHold, entries[0].Type)
	assert.Equal(t, entity.LedgerDeposit, entries[1].Type)

	err = s.Atomic(ctx, func(tx repository.EscrowTx) error {
		return tx.Ledger().Open(ctx, opener, derive.ZeroRecord, 1_000_000)
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)
}

func TestListRecords_Filter(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	rec := record(t)
	require.NoError(t, s.Atomic(ctx, func(tx repository.EscrowTx) error {
		return tx.InsertRecord(ctx, rec)
	}))

	found, err := s.ListRecords(ctx, repository.RecordFilter{Status: valueobject.OfferStatusPending, ExpiresBefore: 2})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = s.ListRecords(ctx, repository.RecordFilter{Party: target, Role: repository.RoleOpener})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = s.ListRecords(ctx, repository.RecordFilter{ExpiresBefore: 1})
	require.NoError(t, err)
	assert.Empty(t, found)
}
