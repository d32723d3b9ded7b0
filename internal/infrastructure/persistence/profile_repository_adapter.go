package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
)

type ProfileRepositoryAdapter struct {
	db *sqlx.DB
}

var _ repository.ProfileRepository = (*ProfileRepositoryAdapter)(nil)

func NewProfileRepositoryAdapter(db *sqlx.DB) *ProfileRepositoryAdapter {
	return &ProfileRepositoryAdapter{db: db}
}

func (r *ProfileRepositoryAdapter) Create(ctx context.Context, profile *entity.Profile) error {
	row, err := newProfileRow(profile)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (:address, :bump, :owner, :handle, :skills, :experience_years, :region, :bio,
			:contact_prices, :response_time_hours, :is_public, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		switch {
		case isUniqueViolation(err, "profiles_handle_key"):
			return repository.ErrHandleTaken
		case isUniqueViolation(err, ""):
			return repository.ErrProfileExists
		}
		return fmt.Errorf("profile repository: create %w", err)
	}
	return nil
}

func (r *ProfileRepositoryAdapter) Update(ctx context.Context, profile *entity.Profile) error {
	row, err := newProfileRow(profile)
	if err != nil {
		return err
	}
	query := `
		UPDATE profiles SET skills = :skills, experience_years = :experience_years, region = :region,
			bio = :bio, contact_prices = :contact_prices, response_time_hours = :response_time_hours,
			is_public = :is_public
		WHERE address = :address
	`
	res, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("profile repository: update %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryAdapter) FindByAddress(ctx context.Context, address derive.RecordAddress) (*entity.Profile, error) {
	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE address = $1`
	if err := r.db.GetContext(ctx, &row, query, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile repository: find %w", err)
	}
	return row.toEntity()
}
