package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

type PaymentRepositoryAdapter struct {
	db *sqlx.DB
}

var _ repository.PaymentRepository = (*PaymentRepositoryAdapter)(nil)

func NewPaymentRepositoryAdapter(db *sqlx.DB) *PaymentRepositoryAdapter {
	return &PaymentRepositoryAdapter{db: db}
}

// GetBalance возвращает баланс участника, создаёт если не существует.
func (r *PaymentRepositoryAdapter) GetBalance(ctx context.Context, owner identity.Address) (*entity.AccountBalance, error) {
	var row struct {
		Owner     identity.Address `db:"owner"`
		Available int64            `db:"available"`
		UpdatedAt time.Time        `db:"updated_at"`
	}
	query := `
		INSERT INTO account_balances (owner, available) VALUES ($1, 0)
		ON CONFLICT (owner) DO UPDATE SET updated_at = account_balances.updated_at
		RETURNING owner, available, updated_at
	`
	if err := r.db.GetContext(ctx, &row, query, owner); err != nil {
		return nil, fmt.Errorf("payment repository: get balance %w", err)
	}
	return &entity.AccountBalance{
		Owner:     row.Owner,
		Available: valueobject.Amount(row.Available),
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Deposit пополняет баланс участника.
func (r *PaymentRepositoryAdapter) Deposit(ctx context.Context, owner identity.Address, amount valueobject.Amount, description string) (*entity.LedgerEntry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := credit(ctx, tx, owner, amount.Int64()); err != nil {
		return nil, err
	}

	entry := entity.LedgerEntry{
		ID:          uuid.New(),
		Owner:       owner,
		Type:        entity.LedgerDeposit,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := insertEntryRow(ctx, tx, entry); err != nil {
		return nil, err
	}
	return &entry, tx.Commit()
}

func (r *PaymentRepositoryAdapter) ListEntries(ctx context.Context, owner identity.Address, limit, offset int) ([]entity.LedgerEntry, error) {
	var rows []ledgerRow
	query := `
		SELECT id, owner, record, type, amount, description, created_at
		FROM ledger_entries WHERE owner = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &rows, query, owner, limit, offset); err != nil {
		return nil, fmt.Errorf("payment repository: list entries %w", err)
	}

	entries := make([]entity.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntity())
	}
	return entries, nil
}

type ledgerRow struct {
	ID          uuid.UUID        `db:"id"`
	Owner       identity.Address `db:"owner"`
	Record      *string          `db:"record"`
	Type        string           `db:"type"`
	Amount      int64            `db:"amount"`
	Description string           `db:"description"`
	CreatedAt   time.Time        `db:"created_at"`
}

func (r ledgerRow) toEntity() entity.LedgerEntry {
	entry := entity.LedgerEntry{
		ID:          r.ID,
		Owner:       r.Owner,
		Type:        entity.LedgerEntryType(r.Type),
		Amount:      valueobject.Amount(r.Amount),
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
	if r.Record != nil {
		if addr, err := derive.ParseRecordAddress(*r.Record); err == nil {
			entry.Record = &addr
		}
	}
	return entry
}

func insertEntry(ctx context.Context, tx *sqlx.Tx, owner identity.Address, record *derive.RecordAddress, typ entity.LedgerEntryType, amount valueobject.Amount, description string) error {
	return insertEntryRow(ctx, tx, entity.LedgerEntry{
		ID:          uuid.New(),
		Owner:       owner,
		Record:      record,
		Type:        typ,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	})
}

func insertEntryRow(ctx context.Context, tx *sqlx.Tx, e entity.LedgerEntry) error {
	var record interface{}
	if e.Record != nil {
		record = *e.Record
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, owner, record, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Owner, record, string(e.Type), e.Amount.Int64(), e.Description, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("ledger: insert entry %w", err)
	}
	return nil
}
