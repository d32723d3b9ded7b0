package repository

import (
	"context"
	"errors"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

var (
	ErrRecordExists      = errors.New("escrow record already exists")
	ErrRecordNotFound    = errors.New("escrow record not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCustodyMismatch   = errors.New("escrow custody balance does not match record amount")
)

// EscrowLedger - единственный способ двигать средства эскроу.
// Методы вызываются только внутри EscrowTx.
type EscrowLedger interface {
	// Open списывает amount с доступного баланса opener на счёт записи.
	Open(ctx context.Context, opener identity.Address, escrow derive.RecordAddress, amount valueobject.Amount) error
	// Release переводит весь баланс записи получателю и возвращает сумму.
	Release(ctx context.Context, escrow derive.RecordAddress, recipient identity.Address, entryType entity.LedgerEntryType) (valueobject.Amount, error)
}

// EscrowTx - одна неделимая операция над записями и леджером.
type EscrowTx interface {
	Ledger() EscrowLedger
	InsertRecord(ctx context.Context, record *entity.EscrowRecord) error
	LockRecord(ctx context.Context, address derive.RecordAddress) (*entity.EscrowRecord, error)
	UpdateRecord(ctx context.Context, record *entity.EscrowRecord) error
	AppendEvent(ctx context.Context, event entity.OfferEvent) error
}

// RecordFilter - выборка записей для списков и фоновой обработки.
type RecordFilter struct {
	Party identity.Address
	Role  string // "opener", "target" или пусто - любая роль
	// Status пустой - любой статус.
	Status valueobject.OfferStatus
	// ExpiresBefore > 0 - только записи с expires_at <= ExpiresBefore.
	ExpiresBefore int64
	Limit         int
	Offset        int
}

const (
	RoleOpener = "opener"
	RoleTarget = "target"
)

type EscrowStore interface {
	// Atomic выполняет fn в транзакции: либо применяются все изменения, либо ни одно.
	Atomic(ctx context.Context, fn func(tx EscrowTx) error) error
	FindRecord(ctx context.Context, address derive.RecordAddress) (*entity.EscrowRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]*entity.EscrowRecord, error)
	CustodyBalance(ctx context.Context, address derive.RecordAddress) (valueobject.Amount, error)
	// FindRecordWithCustody читает запись и её баланс из одного снимка.
	FindRecordWithCustody(ctx context.Context, address derive.RecordAddress) (*entity.EscrowRecord, valueobject.Amount, error)
}
