package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

// EscrowStoreAdapter - эскроу-записи и леджер в PostgreSQL. Каждая операция
// выполняется в одной транзакции, строки блокируются через FOR UPDATE.
type EscrowStoreAdapter struct {
	db *sqlx.DB
}

var _ repository.EscrowStore = (*EscrowStoreAdapter)(nil)

func NewEscrowStoreAdapter(db *sqlx.DB) *EscrowStoreAdapter {
	return &EscrowStoreAdapter{db: db}
}

func (s *EscrowStoreAdapter) Atomic(ctx context.Context, fn func(tx repository.EscrowTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("escrow store: begin %w", err)
	}
	defer tx.Rollback()

	if err := fn(&escrowTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("escrow store: commit %w", err)
	}
	return nil
}

func (s *EscrowStoreAdapter) FindRecord(ctx context.Context, address derive.RecordAddress) (*entity.EscrowRecord, error) {
	var row recordRow
	query := `SELECT ` + recordColumns + ` FROM escrow_records WHERE address = $1`
	if err := s.db.GetContext(ctx, &row, query, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrRecordNotFound
		}
		return nil, fmt.Errorf("escrow store: find record %w", err)
	}
	return row.toEntity()
}

func (s *EscrowStoreAdapter) ListRecords(ctx context.Context, filter repository.RecordFilter) ([]*entity.EscrowRecord, error) {
	query, args := buildListQuery(filter)

	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("escrow store: list records %w", err)
	}
	return toRecordEntities(rows)
}

func buildListQuery(filter repository.RecordFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.Party.IsZero() {
		switch filter.Role {
		case repository.RoleOpener:
			conditions = append(conditions, "opener = "+arg(filter.Party))
		case repository.RoleTarget:
			conditions = append(conditions, "target_owner = "+arg(filter.Party))
		default:
			p := arg(filter.Party)
			conditions = append(conditions, "(opener = "+p+" OR target_owner = "+p+")")
		}
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(string(filter.Status)))
	}
	if filter.ExpiresBefore > 0 {
		conditions = append(conditions, "expires_at <= "+arg(filter.ExpiresBefore))
	}

	query := `SELECT ` + recordColumns + ` FROM escrow_records`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, address"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}
	return query, args
}

func (s *EscrowStoreAdapter) FindRecordWithCustody(ctx context.Context, address derive.RecordAddress) (*entity.EscrowRecord, valueobject.Amount, error) {
	var row struct {
		recordRow
		Custody int64 `db:"custody"`
	}
	query := `SELECT ` + recordColumns + `, custody FROM escrow_records WHERE address = $1`
	if err := s.db.GetContext(ctx, &row, query, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, repository.ErrRecordNotFound
		}
		return nil, 0, fmt.Errorf("escrow store: find record %w", err)
	}
	rec, err := row.toEntity()
	if err != nil {
		return nil, 0, err
	}
	return rec, valueobject.Amount(row.Custody), nil
}

func (s *EscrowStoreAdapter) CustodyBalance(ctx context.Context, address derive.RecordAddress) (valueobject.Amount, error) {
	var custody int64
	err := s.db.GetContext(ctx, &custody, `SELECT custody FROM escrow_records WHERE address = $1`, address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("escrow store: custody %w", err)
	}
	return valueobject.Amount(custody), nil
}

type escrowTx struct {
	tx *sqlx.Tx
}

func (t *escrowTx) Ledger() repository.EscrowLedger {
	return &escrowLedger{tx: t.tx}
}

func (t *escrowTx) InsertRecord(ctx context.Context, rec *entity.EscrowRecord) error {
	query := `
		INSERT INTO escrow_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := t.tx.ExecContext(ctx, query,
		rec.Address, int16(rec.Bump), string(rec.Kind), rec.Opener, rec.TargetProfile, rec.TargetOwner,
		rec.Message, rec.Amount.Int64(), rec.CreatedAt, rec.ExpiresAt, string(rec.Status),
		rec.ResolvedAt, resolvedBy(rec),
	)
	if err != nil {
		if isUniqueViolation(err, "escrow_records_pkey") {
			return repository.ErrRecordExists
		}
		return fmt.Errorf("escrow store: insert record %w", err)
	}
	return nil
}

func (t *escrowTx) LockRecord(ctx context.Context, address derive.RecordAddress) (*entity.EscrowRecord, error) {
	var row recordRow
	query := `SELECT ` + recordColumns + ` FROM escrow_records WHERE address = $1 FOR UPDATE`
	if err := t.tx.GetContext(ctx, &row, query, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrRecordNotFound
		}
		return nil, fmt.Errorf("escrow store: lock record %w", err)
	}
	return row.toEntity()
}

// UpdateRecord меняет только поля жизненного цикла; остальное неизменно.
func (t *escrowTx) UpdateRecord(ctx context.Context, rec *entity.EscrowRecord) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE escrow_records SET status = $2, resolved_at = $3, resolved_by = $4
		WHERE address = $1
	`, rec.Address, string(rec.Status), rec.ResolvedAt, resolvedBy(rec))
	if err != nil {
		return fmt.Errorf("escrow store: update record %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (t *escrowTx) AppendEvent(ctx context.Context, event entity.OfferEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("escrow store: encode event %w", err)
	}
	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO escrow_events (id, type, record, payload) VALUES ($1, $2, $3, $4)
	`, event.ID, string(event.Type), event.Address, payload)
	if err != nil {
		return fmt.Errorf("escrow store: append event %w", err)
	}
	return nil
}

type escrowLedger struct {
	tx *sqlx.Tx
}

func (l *escrowLedger) Open(ctx context.Context, opener identity.Address, escrow derive.RecordAddress, amount valueobject.Amount) error {
	var available int64
	err := l.tx.GetContext(ctx, &available, `SELECT available FROM account_balances WHERE owner = $1 FOR UPDATE`, opener)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrInsufficientFunds
		}
		return fmt.Errorf("escrow ledger: lock balance %w", err)
	}
	if available < amount.Int64() {
		return repository.ErrInsufficientFunds
	}

	if _, err := l.tx.ExecContext(ctx, `
		UPDATE account_balances SET available = available - $2, updated_at = NOW() WHERE owner = $1
	`, opener, amount.Int64()); err != nil {
		return fmt.Errorf("escrow ledger: debit %w", err)
	}

	res, err := l.tx.ExecContext(ctx, `
		UPDATE escrow_records SET custody = custody + $2 WHERE address = $1 AND custody = 0
	`, escrow, amount.Int64())
	if err != nil {
		return fmt.Errorf("escrow ledger: hold %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrRecordExists
	}

	return insertEntry(ctx, l.tx, opener, &escrow, entity.LedgerEscrowHold, amount, "")
}

func (l *escrowLedger) Release(ctx context.Context, escrow derive.RecordAddress, recipient identity.Address, entryType entity.LedgerEntryType) (valueobject.Amount, error) {
	var custody int64
	err := l.tx.GetContext(ctx, &custody, `SELECT custody FROM escrow_records WHERE address = $1 FOR UPDATE`, escrow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrRecordNotFound
		}
		return 0, fmt.Errorf("escrow ledger: lock custody %w", err)
	}
	if custody <= 0 {
		return 0, repository.ErrCustodyMismatch
	}

	if _, err := l.tx.ExecContext(ctx, `UPDATE escrow_records SET custody = 0 WHERE address = $1`, escrow); err != nil {
		return 0, fmt.Errorf("escrow ledger: clear custody %w", err)
	}
	if err := credit(ctx, l.tx, recipient, custody); err != nil {
		return 0, err
	}

	amount := valueobject.Amount(custody)
	if err := insertEntry(ctx, l.tx, recipient, &escrow, entryType, amount, ""); err != nil {
		return 0, err
	}
	return amount, nil
}

func credit(ctx context.Context, tx *sqlx.Tx, owner identity.Address, amount int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO account_balances (owner, available) VALUES ($1, $2)
		ON CONFLICT (owner) DO UPDATE SET available = account_balances.available + $2, updated_at = NOW()
	`, owner, amount)
	if err != nil {
		return fmt.Errorf("escrow ledger: credit %w", err)
	}
	return nil
}
