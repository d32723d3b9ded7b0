package escrow

import (
	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// AuthorizationGuard проверяет роль подписанта и все адреса, переданные
// в операцию, пересчитывая их через derive с сохранёнными bump.
type AuthorizationGuard struct{}

// CheckOpener - открыть предложение может только сам отправитель,
// и не самому себе.
func (AuthorizationGuard) CheckOpener(signer identity.Address, target *entity.Profile) error {
	if signer.IsZero() {
		return apperror.ErrUnauthorized
	}
	if err := derive.VerifyProfile(target.Address, target.Bump, target.Owner); err != nil {
		return err
	}
	if target.IsOwnedBy(signer) {
		return apperror.New(apperror.ErrCodeForbidden, "нельзя отправить предложение собственному профилю")
	}
	return nil
}

// RespondAccounts - счета, которые адресат передаёт вместе с ответом.
type RespondAccounts struct {
	Profile derive.RecordAddress
	Opener  identity.Address
}

// CheckResponder - ответить может только владелец целевого профиля.
func (AuthorizationGuard) CheckResponder(signer identity.Address, cfg valueobject.KindConfig, record *entity.EscrowRecord, profile *entity.Profile, accounts RespondAccounts) error {
	if signer.IsZero() {
		return apperror.ErrUnauthorized
	}
	if !profile.IsOwnedBy(signer) || record.TargetOwner != signer {
		return apperror.New(apperror.ErrCodeForbidden, "ответить может только адресат предложения")
	}
	if err := derive.VerifyProfile(profile.Address, profile.Bump, signer); err != nil {
		return err
	}
	if accounts.Profile != profile.Address || record.TargetProfile != profile.Address {
		return apperror.ErrAddressMismatch
	}
	if accounts.Opener != record.Opener {
		return apperror.New(apperror.ErrCodeForbidden, "счёт возврата не совпадает с отправителем предложения")
	}
	return derive.VerifyOffer(record.Address, cfg.Namespace, record.Bump, record.Opener, profile.Address)
}

// CheckRecord - адрес записи пересчитывается из её содержимого.
func (AuthorizationGuard) CheckRecord(cfg valueobject.KindConfig, record *entity.EscrowRecord) error {
	return derive.VerifyOffer(record.Address, cfg.Namespace, record.Bump, record.Opener, record.TargetProfile)
}
