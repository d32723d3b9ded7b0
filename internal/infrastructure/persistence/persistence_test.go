package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/talent-escrow/internal/db"
	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

var (
	opener = identity.MustParseAddress("0x1000000000000000000000000000000000000001")
	owner  = identity.MustParseAddress("0x2000000000000000000000000000000000000002")
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505", Constraint: "profiles_handle_key"})
	assert.True(t, isUniqueViolation(err, "profiles_handle_key"))
	assert.True(t, isUniqueViolation(err, ""))
	assert.False(t, isUniqueViolation(err, "profiles_pkey"))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("boom"), ""))
}

func TestBuildListQuery(t *testing.T) {
	query, args := buildListQuery(repository.RecordFilter{
		Party:  opener,
		Role:   repository.RoleOpener,
		Status: valueobject.OfferStatusPending,
		Limit:  10,
		Offset: 5,
	})
	assert.Contains(t, query, "WHERE opener = $1 AND status = $2")
	assert.Contains(t, query, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []interface{}{opener, "pending", 10, 5}, args)

	query, args = buildListQuery(repository.RecordFilter{Party: owner})
	assert.Contains(t, query, "(opener = $1 OR target_owner = $1)")
	assert.Len(t, args, 1)

	query, args = buildListQuery(repository.RecordFilter{ExpiresBefore: 42})
	assert.Contains(t, query, "expires_at <= $1")
	assert.Equal(t, []interface{}{int64(42)}, args)
}

func TestProfileRow_RoundTrip(t *testing.T) {
	addr, bump, err := derive.Profile(owner)
	require.NoError(t, err)
	p := &entity.Profile{
		Address:           addr,
		Bump:              bump,
		Owner:             owner,
		Handle:            "candidate",
		Skills:            []string{"go"},
		ContactPrices:     []entity.ContactPriceTier{{Price: 1_000_000, Description: "call"}},
		ResponseTimeHours: 24,
		IsPublic:          true,
		CreatedAt:         100,
	}

	row, err := newProfileRow(p)
	require.NoError(t, err)
	back, err := row.toEntity()
	require.NoError(t, err)
	assert.Equal(t, p, back)

	empty, err := newProfileRow(&entity.Profile{})
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(empty.Skills))
}

func TestRecordRow_ResolvedBy(t *testing.T) {
	row := recordRow{Status: "expired", ResolvedBy: owner.Hex(), Bump: 254}
	rec, err := row.toEntity()
	require.NoError(t, err)
	assert.Equal(t, owner, rec.ResolvedBy)
	assert.Equal(t, uint8(254), rec.Bump)
	assert.Equal(t, owner.Hex(), resolvedBy(rec))

	rec, err = recordRow{Status: "pending"}.toEntity()
	require.NoError(t, err)
	assert.True(t, rec.ResolvedBy.IsZero())
	assert.Equal(t, "", resolvedBy(rec))

	_, err = recordRow{Status: "expired", ResolvedBy: "0xnot-an-address"}.toEntity()
	assert.Error(t, err)
	_, err = toRecordEntities([]recordRow{{Status: "pending"}, {Status: "expired", ResolvedBy: "garbage"}})
	assert.Error(t, err)
}

// Интеграционная проверка на живой базе: TEST_DATABASE_URL.
func TestEscrowStore_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	ctx := context.Background()
	conn, err := db.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.RunMigrations(ctx, conn, db.Migrations()))

	for _, table := range []string{"escrow_events", "ledger_entries", "escrow_records", "profiles", "account_balances"} {
		_, err := conn.ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}

	profiles := NewProfileRepositoryAdapter(conn)
	payments := NewPaymentRepositoryAdapter(conn)
	store := NewEscrowStoreAdapter(conn)

	paddr, pbump, err := derive.Profile(owner)
	require.NoError(t, err)
	require.NoError(t, profiles.Create(ctx, &entity.Profile{Address: paddr, Bump: pbump, Owner: owner, Handle: "candidate", ResponseTimeHours: 24, IsPublic: true}))
	oaddr, obump, err := derive.Profile(opener)
	require.NoError(t, err)
	assert.ErrorIs(t, profiles.Create(ctx, &entity.Profile{Address: oaddr, Bump: obump, Owner: opener, Handle: "candidate", ResponseTimeHours: 24}), repository.ErrHandleTaken)

	_, err = payments.Deposit(ctx, opener, 3_000_000, "test")
	require.NoError(t, err)

	raddr, rbump, err := derive.Offer(derive.NamespaceScout, opener, paddr)
	require.NoError(t, err)
	rec := &entity.EscrowRecord{
		Address: raddr, Bump: rbump, Kind: valueobject.OfferKindScout,
		Opener: opener, TargetProfile: paddr, TargetOwner: owner,
		Amount: 2_000_000, CreatedAt: 1, ExpiresAt: 604801, Status: valueobject.OfferStatusPending,
	}
	require.NoError(t, store.Atomic(ctx, func(tx repository.EscrowTx) error {
		if err := tx.InsertRecord(ctx, rec); err != nil {
			return err
		}
		if err := tx.Ledger().Open(ctx, opener, rec.Address, rec.Amount); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, entity.NewOfferOpened(rec))
	}))

	custody, err := store.CustodyBalance(ctx, raddr)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000, custody)

	found, custody, err := store.FindRecordWithCustody(ctx, raddr)
	require.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusPending, found.Status)
	assert.EqualValues(t, 2_000_000, custody)

	err = store.Atomic(ctx, func(tx repository.EscrowTx) error { return tx.InsertRecord(ctx, rec) })
	assert.ErrorIs(t, err, repository.ErrRecordExists)

	require.NoError(t, store.Atomic(ctx, func(tx repository.EscrowTx) error {
		locked, err := tx.LockRecord(ctx, raddr)
		if err != nil {
			return err
		}
		if _, err := locked.Accept(100); err != nil {
			return err
		}
		if _, err := tx.Ledger().Release(ctx, raddr, owner, entity.LedgerEscrowRelease); err != nil {
			return err
		}
		return tx.UpdateRecord(ctx, locked)
	}))

	balance, err := payments.GetBalance(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000, balance.Available)

	got, err := store.FindRecord(ctx, raddr)
	require.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusAccepted, got.Status)
}
