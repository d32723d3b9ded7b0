package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

// Типы записей журнала леджера.
type LedgerEntryType string

const (
	LedgerDeposit            LedgerEntryType = "deposit"
	LedgerEscrowHold         LedgerEntryType = "escrow_hold"
	LedgerEscrowRelease      LedgerEntryType = "escrow_release"
	LedgerEscrowRefund       LedgerEntryType = "escrow_refund"
	LedgerEscrowExpireRefund LedgerEntryType = "escrow_expire_refund"
)

// AccountBalance - доступный баланс участника.
type AccountBalance struct {
	Owner     identity.Address   `json:"owner"`
	Available valueobject.Amount `json:"available"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// LedgerEntry - движение средств участника. Record заполнен для эскроу-операций.
type LedgerEntry struct {
	ID          uuid.UUID             `json:"id"`
	Owner       identity.Address      `json:"owner"`
	Record      *derive.RecordAddress `json:"record,omitempty"`
	Type        LedgerEntryType       `json:"type"`
	Amount      valueobject.Amount    `json:"amount"`
	Description string                `json:"description,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}
