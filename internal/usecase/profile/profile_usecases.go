package profile

import (
	"context"
	"errors"
	"time"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

type CreateProfileInput struct {
	Owner  identity.Address
	Handle string
	Fields entity.ProfileFields
}

type CreateProfileUseCase struct {
	profileRepo repository.ProfileRepository
	now         func() int64
}

func NewCreateProfileUseCase(profileRepo repository.ProfileRepository) *CreateProfileUseCase {
	return &CreateProfileUseCase{
		profileRepo: profileRepo,
		now:         func() int64 { return time.Now().Unix() },
	}
}

// Профиль хранится по адресу derive("profile", owner): один профиль на владельца.
func (uc *CreateProfileUseCase) Execute(ctx context.Context, input CreateProfileInput) (*entity.Profile, error) {
	if input.Owner.IsZero() {
		return nil, apperror.ErrUnauthorized
	}
	address, bump, err := derive.Profile(input.Owner)
	if err != nil {
		return nil, err
	}

	profile, err := entity.NewProfile(address, bump, input.Owner, input.Handle, input.Fields, uc.now())
	if err != nil {
		return nil, err
	}

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		switch {
		case errors.Is(err, repository.ErrProfileExists):
			return nil, apperror.New(apperror.ErrCodeStateConflict, "профиль уже создан")
		case errors.Is(err, repository.ErrHandleTaken):
			return nil, apperror.New(apperror.ErrCodeStateConflict, "ник уже занят")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать профиль")
	}
	return profile, nil
}

type UpdateProfileUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewUpdateProfileUseCase(profileRepo repository.ProfileRepository) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{profileRepo: profileRepo}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, owner identity.Address, fields entity.ProfileFields) (*entity.Profile, error) {
	profile, err := findByOwner(ctx, uc.profileRepo, owner)
	if err != nil {
		return nil, err
	}
	if !profile.IsOwnedBy(owner) {
		return nil, apperror.ErrForbidden
	}
	if err := profile.Apply(fields); err != nil {
		return nil, err
	}
	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить профиль")
	}
	return profile, nil
}

type GetProfileUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewGetProfileUseCase(profileRepo repository.ProfileRepository) *GetProfileUseCase {
	return &GetProfileUseCase{profileRepo: profileRepo}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, address derive.RecordAddress) (*entity.Profile, error) {
	profile, err := uc.profileRepo.FindByAddress(ctx, address)
	if err != nil {
		return nil, translate(err)
	}
	return profile, nil
}

func (uc *GetProfileUseCase) ByOwner(ctx context.Context, owner identity.Address) (*entity.Profile, error) {
	return findByOwner(ctx, uc.profileRepo, owner)
}

func findByOwner(ctx context.Context, repo repository.ProfileRepository, owner identity.Address) (*entity.Profile, error) {
	address, _, err := derive.Profile(owner)
	if err != nil {
		return nil, err
	}
	profile, err := repo.FindByAddress(ctx, address)
	if err != nil {
		return nil, translate(err)
	}
	return profile, nil
}

func translate(err error) error {
	if errors.Is(err, repository.ErrProfileNotFound) {
		return apperror.ErrProfileNotFound
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль")
}
