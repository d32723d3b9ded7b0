package entity

import (
	"time"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
	"github.com/ignatzorin/talent-escrow/internal/validation"
)

// EscrowRecord - эскроу-запись предложения. Средства записи хранятся в
// леджере по её адресу; сама запись переводов не делает.
type EscrowRecord struct {
	Address       derive.RecordAddress
	Bump          uint8
	Kind          valueobject.OfferKind
	Opener        identity.Address
	TargetProfile derive.RecordAddress
	TargetOwner   identity.Address
	Message       string
	Amount        valueobject.Amount
	CreatedAt     int64
	ExpiresAt     int64
	Status        valueobject.OfferStatus
	ResolvedAt    int64
	ResolvedBy    identity.Address
}

// OpenParams - входные данные для создания записи.
type OpenParams struct {
	Config        valueobject.KindConfig
	Address       derive.RecordAddress
	Bump          uint8
	Opener        identity.Address
	TargetProfile derive.RecordAddress
	TargetOwner   identity.Address
	Message       string
	Amount        valueobject.Amount
	MinAmount     valueobject.Amount
	Window        time.Duration
	Now           int64
}

// NewEscrowRecord проверяет сообщение и сумму и создаёт запись в статусе Pending.
func NewEscrowRecord(p OpenParams) (*EscrowRecord, error) {
	if p.Opener.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "не указан отправитель предложения")
	}
	if err := validation.ValidateText("сообщение", p.Message, p.Config.MaxMessageBytes); err != nil {
		return nil, err
	}
	if p.Amount <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}
	minAmount := p.MinAmount
	if minAmount < p.Config.MinAmount {
		minAmount = p.Config.MinAmount
	}
	if err := p.Amount.AtLeast(minAmount); err != nil {
		return nil, err
	}
	window := p.Window
	if window <= 0 {
		window = p.Config.Window
	}
	seconds := int64(window / time.Second)
	if seconds <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "окно ответа должно быть положительным")
	}

	return &EscrowRecord{
		Address:       p.Address,
		Bump:          p.Bump,
		Kind:          p.Config.Kind,
		Opener:        p.Opener,
		TargetProfile: p.TargetProfile,
		TargetOwner:   p.TargetOwner,
		Message:       p.Message,
		Amount:        p.Amount,
		CreatedAt:     p.Now,
		ExpiresAt:     p.Now + seconds,
		Status:        valueobject.OfferStatusPending,
	}, nil
}

// Accept переводит запись в Accepted и возвращает получателя средств.
func (r *EscrowRecord) Accept(now int64) (identity.Address, error) {
	if err := r.checkRespondable(valueobject.OfferStatusAccepted, now); err != nil {
		return identity.ZeroAddress, err
	}
	r.resolve(valueobject.OfferStatusAccepted, now, r.TargetOwner)
	return r.TargetOwner, nil
}

// Reject переводит запись в Rejected; средства возвращаются отправителю.
func (r *EscrowRecord) Reject(now int64) (identity.Address, error) {
	if err := r.checkRespondable(valueobject.OfferStatusRejected, now); err != nil {
		return identity.ZeroAddress, err
	}
	r.resolve(valueobject.OfferStatusRejected, now, r.TargetOwner)
	return r.Opener, nil
}

// Expire доступен любому вызывающему после истечения срока.
func (r *EscrowRecord) Expire(now int64, caller identity.Address) (identity.Address, error) {
	if !r.Status.CanTransitionTo(valueobject.OfferStatusExpired) {
		return identity.ZeroAddress, apperror.ErrOfferNotPending
	}
	if !r.IsExpiredAt(now) {
		return identity.ZeroAddress, apperror.ErrOfferNotExpired
	}
	r.resolve(valueobject.OfferStatusExpired, now, caller)
	return r.Opener, nil
}

func (r *EscrowRecord) checkRespondable(next valueobject.OfferStatus, now int64) error {
	if !r.Status.CanTransitionTo(next) {
		return apperror.ErrOfferNotPending
	}
	if r.IsExpiredAt(now) {
		return apperror.ErrOfferExpired
	}
	return nil
}

func (r *EscrowRecord) resolve(status valueobject.OfferStatus, now int64, by identity.Address) {
	r.Status = status
	r.ResolvedAt = now
	r.ResolvedBy = by
}

func (r *EscrowRecord) IsPending() bool {
	return r.Status == valueobject.OfferStatusPending
}

// IsExpiredAt - ответ допустим только при now < expires_at.
func (r *EscrowRecord) IsExpiredAt(now int64) bool {
	return now >= r.ExpiresAt
}

// Clone возвращает независимую копию записи.
func (r *EscrowRecord) Clone() *EscrowRecord {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
