package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

// tx работает с копией состояния; копия применяется в Store.Atomic.
type tx struct {
	ctx context.Context
	st  *state
	now func() time.Time
}

func (t *tx) Ledger() repository.EscrowLedger {
	return ledger{t}
}

func (t *tx) InsertRecord(ctx context.Context, record *entity.EscrowRecord) error {
	if _, exists := t.st.records[record.Address]; exists {
		return repository.ErrRecordExists
	}
	t.st.records[record.Address] = record.Clone()
	return nil
}

func (t *tx) LockRecord(ctx context.Context, address derive.RecordAddress) (*entity.EscrowRecord, error) {
	rec, ok := t.st.records[address]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (t *tx) UpdateRecord(ctx context.Context, record *entity.EscrowRecord) error {
	if _, ok := t.st.records[record.Address]; !ok {
		return repository.ErrRecordNotFound
	}
	t.st.records[record.Address] = record.Clone()
	return nil
}

func (t *tx) AppendEvent(ctx context.Context, event entity.OfferEvent) error {
	t.st.events = append(t.st.events, event)
	return nil
}

func (t *tx) journal(owner identity.Address, record *derive.RecordAddress, typ entity.LedgerEntryType, amount valueobject.Amount, description string) entity.LedgerEntry {
	entry := entity.LedgerEntry{
		ID:          uuid.New(),
		Owner:       owner,
		Record:      record,
		Type:        typ,
		Amount:      amount,
		Description: description,
		CreatedAt:   t.now(),
	}
	t.st.entries = append(t.st.entries, entry)
	return entry
}

type ledger struct {
	t *tx
}

func (l ledger) Open(ctx context.Context, opener identity.Address, escrow derive.RecordAddress, amount valueobject.Amount) error {
	if l.t.st.balances[opener] < amount {
		return repository.ErrInsufficientFunds
	}
	if l.t.st.custody[escrow] != 0 {
		return repository.ErrRecordExists
	}
	l.t.st.balances[opener] -= amount
	l.t.st.custody[escrow] = amount

	record := escrow
	l.t.journal(opener, &record, entity.LedgerEscrowHold, amount, "")
	return nil
}

func (l ledger) Release(ctx context.Context, escrow derive.RecordAddress, recipient identity.Address, entryType entity.LedgerEntryType) (valueobject.Amount, error) {
	amount := l.t.st.custody[escrow]
	if amount <= 0 {
		return 0, repository.ErrCustodyMismatch
	}
	delete(l.t.st.custody, escrow)
	l.t.st.balances[recipient] += amount

	record := escrow
	l.t.journal(recipient, &record, entryType, amount, "")
	return amount, nil
}
