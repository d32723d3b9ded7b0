// Package memstore - хранилище в памяти для локального запуска и тестов.
// Атомарность обеспечивается глобальной блокировкой и копией состояния,
// которая применяется только при успешном завершении операции.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

type state struct {
	records  map[derive.RecordAddress]*entity.EscrowRecord
	custody  map[derive.RecordAddress]valueobject.Amount
	balances map[identity.Address]valueobject.Amount
	entries  []entity.LedgerEntry
	events   []entity.OfferEvent
}

func newState() *state {
	return &state{
		records:  make(map[derive.RecordAddress]*entity.EscrowRecord),
		custody:  make(map[derive.RecordAddress]valueobject.Amount),
		balances: make(map[identity.Address]valueobject.Amount),
	}
}

func (s *state) clone() *state {
	next := &state{
		records:  make(map[derive.RecordAddress]*entity.EscrowRecord, len(s.records)),
		custody:  make(map[derive.RecordAddress]valueobject.Amount, len(s.custody)),
		balances: make(map[identity.Address]valueobject.Amount, len(s.balances)),
		entries:  append([]entity.LedgerEntry(nil), s.entries...),
		events:   append([]entity.OfferEvent(nil), s.events...),
	}
	for k, v := range s.records {
		next.records[k] = v.Clone()
	}
	for k, v := range s.custody {
		next.custody[k] = v
	}
	for k, v := range s.balances {
		next.balances[k] = v
	}
	return next
}

// Store реализует EscrowStore, PaymentRepository и ProfileRepository.
type Store struct {
	mu    sync.Mutex
	state *state
	// Profiles хранятся отдельно: они не участвуют в эскроу-транзакциях.
	profiles *profileStore
	nowFn    func() time.Time
}

var (
	_ repository.EscrowStore       = (*Store)(nil)
	_ repository.PaymentRepository = (*Store)(nil)
)

func New() *Store {
	return &Store{
		state:    newState(),
		profiles: newProfileStore(),
		nowFn:    time.Now,
	}
}

// Profiles возвращает репозиторий профилей этого хранилища.
func (s *Store) Profiles() repository.ProfileRepository {
	return s.profiles
}

func (s *Store) Atomic(ctx context.Context, fn func(tx repository.EscrowTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&tx{ctx: ctx, st: snapshot, now: s.nowFn}); err != nil {
		return err
	}
	s.state = snapshot
	return nil
}

func (s *Store) FindRecord(ctx context.Context, address derive.RecordAddress) (*entity.EscrowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.state.records[address]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) ListRecords(ctx context.Context, filter repository.RecordFilter) ([]*entity.EscrowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*entity.EscrowRecord
	for _, rec := range s.state.records {
		if matches(rec, filter) {
			result = append(result, rec.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].Address.Hex() < result[j].Address.Hex()
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func matches(rec *entity.EscrowRecord, f repository.RecordFilter) bool {
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	if f.ExpiresBefore > 0 && rec.ExpiresAt > f.ExpiresBefore {
		return false
	}
	if f.Party.IsZero() {
		return true
	}
	switch f.Role {
	case repository.RoleOpener:
		return rec.Opener == f.Party
	case repository.RoleTarget:
		return rec.TargetOwner == f.Party
	default:
		return rec.Opener == f.Party || rec.TargetOwner == f.Party
	}
}

func (s *Store) FindRecordWithCustody(ctx context.Context, address derive.RecordAddress) (*entity.EscrowRecord, valueobject.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.state.records[address]
	if !ok {
		return nil, 0, repository.ErrRecordNotFound
	}
	return rec.Clone(), s.state.custody[address], nil
}

func (s *Store) CustodyBalance(ctx context.Context, address derive.RecordAddress) (valueobject.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.custody[address], nil
}

// Events возвращает журнал событий в порядке фиксации.
func (s *Store) Events() []entity.OfferEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.OfferEvent(nil), s.state.events...)
}

func (s *Store) GetBalance(ctx context.Context, owner identity.Address) (*entity.AccountBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &entity.AccountBalance{
		Owner:     owner,
		Available: s.state.balances[owner],
		UpdatedAt: s.nowFn(),
	}, nil
}

func (s *Store) Deposit(ctx context.Context, owner identity.Address, amount valueobject.Amount, description string) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := s.Atomic(ctx, func(t repository.EscrowTx) error {
		tx := t.(*tx)
		tx.st.balances[owner] += amount
		entry = tx.journal(owner, nil, entity.LedgerDeposit, amount, description)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) ListEntries(ctx context.Context, owner identity.Address, limit, offset int) ([]entity.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []entity.LedgerEntry
	for i := len(s.state.entries) - 1; i >= 0; i-- {
		if s.state.entries[i].Owner == owner {
			result = append(result, s.state.entries[i])
		}
	}
	if offset >= len(result) {
		return []entity.LedgerEntry{}, nil
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
