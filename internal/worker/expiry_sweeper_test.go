package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/infrastructure/memstore"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
	"github.com/ignatzorin/talent-escrow/internal/usecase/escrow"
	"github.com/ignatzorin/talent-escrow/internal/worker"
)

const T int64 = 1_700_000_000

func newParty(t *testing.T) identity.Address {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return identity.AddressOf(key)
}

func openScout(t *testing.T, ctx context.Context, store *memstore.Store, open *escrow.OpenOfferUseCase, opener identity.Address, handle string) *entity.EscrowRecord {
	t.Helper()
	owner := newParty(t)
	address, bump, err := derive.Profile(owner)
	require.NoError(t, err)
	hours := uint16(24)
	profile, err := entity.NewProfile(address, bump, owner, handle, entity.ProfileFields{ResponseTimeHours: &hours}, T)
	require.NoError(t, err)
	require.NoError(t, store.Profiles().Create(ctx, profile))

	rec, err := open.Execute(ctx, escrow.OpenOfferInput{
		Kind:          valueobject.OfferKindScout,
		Signer:        opener,
		TargetProfile: profile.Address,
		Amount:        1_000_000,
	})
	require.NoError(t, err)
	return rec
}

func TestExpirySweeper_ReclaimsOnlyExpired(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	now := T
	deps := escrow.Dependencies{
		Store:    store,
		Profiles: store.Profiles(),
		Now:      func() int64 { return now },
	}
	open := escrow.NewOpenOfferUseCase(deps)
	reclaim := escrow.NewReclaimExpiredUseCase(deps)

	opener := newParty(t)
	_, err := store.Deposit(ctx, opener, 3_000_000, "test")
	require.NoError(t, err)

	old := openScout(t, ctx, store, open, opener, "first")
	now = T + 3600
	fresh := openScout(t, ctx, store, open, opener, "second")

	now = old.ExpiresAt
	sweeper := worker.NewExpirySweeper(store, reclaim, time.Minute).WithClock(func() int64 { return now })
	assert.Equal(t, 1, sweeper.Sweep(ctx))

	got, err := store.FindRecord(ctx, old.Address)
	require.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusExpired, got.Status)
	assert.Equal(t, worker.SweeperCaller, got.ResolvedBy)

	got, err = store.FindRecord(ctx, fresh.Address)
	require.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusPending, got.Status)

	balance, err := store.GetBalance(ctx, opener)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000, balance.Available)

	// повторный проход ничего не находит
	assert.Equal(t, 0, sweeper.Sweep(ctx))
}

type stubLister struct {
	records []*entity.EscrowRecord
	filter  repository.RecordFilter
	err     error
}

func (s *stubLister) ListRecords(_ context.Context, filter repository.RecordFilter) ([]*entity.EscrowRecord, error) {
	s.filter = filter
	return s.records, s.err
}

type stubReclaimer struct {
	errs  map[derive.RecordAddress]error
	calls []derive.RecordAddress
}

func (s *stubReclaimer) Execute(_ context.Context, caller identity.Address, address derive.RecordAddress) (*entity.EscrowRecord, error) {
	s.calls = append(s.calls, address)
	if err := s.errs[address]; err != nil {
		return nil, err
	}
	return &entity.EscrowRecord{Address: address, ResolvedBy: caller}, nil
}

func recordAt(b byte) *entity.EscrowRecord {
	var addr derive.RecordAddress
	addr[0] = b
	return &entity.EscrowRecord{Address: addr}
}

func TestExpirySweeper_SkipsFailuresAndContinues(t *testing.T) {
	a, b, c := recordAt(1), recordAt(2), recordAt(3)
	lister := &stubLister{records: []*entity.EscrowRecord{a, b, c}}
	reclaimer := &stubReclaimer{errs: map[derive.RecordAddress]error{
		a.Address: apperror.ErrOfferNotPending,
		b.Address: errors.New("db down"),
	}}

	sweeper := worker.NewExpirySweeper(lister, reclaimer, time.Minute).WithClock(func() int64 { return 42 })
	assert.Equal(t, 1, sweeper.Sweep(context.Background()))
	assert.Len(t, reclaimer.calls, 3)

	assert.Equal(t, valueobject.OfferStatusPending, lister.filter.Status)
	assert.EqualValues(t, 42, lister.filter.ExpiresBefore)
	assert.True(t, lister.filter.Party.IsZero())
}

// pendingLister отдаёт страницы из набора ожидающих записей; успешный возврат
// убирает запись из набора, как это делает хранилище.
type pendingLister struct {
	pending []*entity.EscrowRecord
	offsets []int
}

func (l *pendingLister) ListRecords(_ context.Context, filter repository.RecordFilter) ([]*entity.EscrowRecord, error) {
	l.offsets = append(l.offsets, filter.Offset)
	if filter.Offset >= len(l.pending) {
		return nil, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(l.pending) {
		end = len(l.pending)
	}
	return append([]*entity.EscrowRecord(nil), l.pending[filter.Offset:end]...), nil
}

type removingReclaimer struct {
	lister *pendingLister
	failed map[derive.RecordAddress]bool
}

func (r *removingReclaimer) Execute(_ context.Context, caller identity.Address, address derive.RecordAddress) (*entity.EscrowRecord, error) {
	if r.failed[address] {
		return nil, errors.New("db down")
	}
	for i, rec := range r.lister.pending {
		if rec.Address == address {
			r.lister.pending = append(r.lister.pending[:i], r.lister.pending[i+1:]...)
			break
		}
	}
	return &entity.EscrowRecord{Address: address, ResolvedBy: caller}, nil
}

func TestExpirySweeper_PagesPastStuckRecords(t *testing.T) {
	stuck1, stuck2, stuck3 := recordAt(1), recordAt(2), recordAt(3)
	ok1, ok2 := recordAt(4), recordAt(5)
	lister := &pendingLister{pending: []*entity.EscrowRecord{stuck1, stuck2, stuck3, ok1, ok2}}
	reclaimer := &removingReclaimer{lister: lister, failed: map[derive.RecordAddress]bool{
		stuck1.Address: true,
		stuck2.Address: true,
		stuck3.Address: true,
	}}

	sweeper := worker.NewExpirySweeper(lister, reclaimer, time.Minute).WithBatchSize(2)
	assert.Equal(t, 2, sweeper.Sweep(context.Background()))
	assert.Equal(t, []*entity.EscrowRecord{stuck1, stuck2, stuck3}, lister.pending)
	assert.Equal(t, []int{0, 2, 3}, lister.offsets)
}

func TestExpirySweeper_ListError(t *testing.T) {
	lister := &stubLister{err: errors.New("boom")}
	reclaimer := &stubReclaimer{}

	assert.Equal(t, 0, worker.NewExpirySweeper(lister, reclaimer, time.Minute).Sweep(context.Background()))
	assert.Empty(t, reclaimer.calls)
}

func TestExpirySweeper_RunStopsOnCancel(t *testing.T) {
	lister := &stubLister{}
	sweeper := worker.NewExpirySweeper(lister, &stubReclaimer{}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper не остановился")
	}
}

func TestExpirySweeper_DisabledReturnsImmediately(t *testing.T) {
	sweeper := worker.NewExpirySweeper(&stubLister{}, &stubReclaimer{}, 0)
	done := make(chan struct{})
	go func() {
		sweeper.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("отключённый sweeper должен сразу вернуться")
	}
}
