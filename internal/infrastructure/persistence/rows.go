package persistence

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

type recordRow struct {
	Address       derive.RecordAddress `db:"address"`
	Bump          int16                `db:"bump"`
	Kind          string               `db:"kind"`
	Opener        identity.Address     `db:"opener"`
	TargetProfile derive.RecordAddress `db:"target_profile"`
	TargetOwner   identity.Address     `db:"target_owner"`
	Message       string               `db:"message"`
	Amount        int64                `db:"amount"`
	CreatedAt     int64                `db:"created_at"`
	ExpiresAt     int64                `db:"expires_at"`
	Status        string               `db:"status"`
	ResolvedAt    int64                `db:"resolved_at"`
	ResolvedBy    string               `db:"resolved_by"`
}

const recordColumns = `address, bump, kind, opener, target_profile, target_owner, message,
	amount, created_at, expires_at, status, resolved_at, resolved_by`

func (r recordRow) toEntity() (*entity.EscrowRecord, error) {
	rec := &entity.EscrowRecord{
		Address:       r.Address,
		Bump:          uint8(r.Bump),
		Kind:          valueobject.OfferKind(r.Kind),
		Opener:        r.Opener,
		TargetProfile: r.TargetProfile,
		TargetOwner:   r.TargetOwner,
		Message:       r.Message,
		Amount:        valueobject.Amount(r.Amount),
		CreatedAt:     r.CreatedAt,
		ExpiresAt:     r.ExpiresAt,
		Status:        valueobject.OfferStatus(r.Status),
		ResolvedAt:    r.ResolvedAt,
	}
	if err := rec.ResolvedBy.Scan(r.ResolvedBy); err != nil {
		return nil, fmt.Errorf("escrow record %s: resolved_by: %w", r.Address, err)
	}
	return rec, nil
}

// resolvedBy - пустая строка, пока запись не решена.
func resolvedBy(rec *entity.EscrowRecord) string {
	if rec.ResolvedBy.IsZero() {
		return ""
	}
	return rec.ResolvedBy.Hex()
}

func toRecordEntities(rows []recordRow) ([]*entity.EscrowRecord, error) {
	result := make([]*entity.EscrowRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, nil
}

type profileRow struct {
	Address           derive.RecordAddress `db:"address"`
	Bump              int16                `db:"bump"`
	Owner             identity.Address     `db:"owner"`
	Handle            string               `db:"handle"`
	Skills            []byte               `db:"skills"`
	ExperienceYears   int32                `db:"experience_years"`
	Region            string               `db:"region"`
	Bio               string               `db:"bio"`
	ContactPrices     []byte               `db:"contact_prices"`
	ResponseTimeHours int32                `db:"response_time_hours"`
	IsPublic          bool                 `db:"is_public"`
	CreatedAt         int64                `db:"created_at"`
}

const profileColumns = `address, bump, owner, handle, skills, experience_years, region, bio,
	contact_prices, response_time_hours, is_public, created_at`

func newProfileRow(p *entity.Profile) (profileRow, error) {
	skills, err := json.Marshal(nonNil(p.Skills))
	if err != nil {
		return profileRow{}, err
	}
	prices, err := json.Marshal(nonNil(p.ContactPrices))
	if err != nil {
		return profileRow{}, err
	}
	return profileRow{
		Address:           p.Address,
		Bump:              int16(p.Bump),
		Owner:             p.Owner,
		Handle:            p.Handle,
		Skills:            skills,
		ExperienceYears:   int32(p.ExperienceYears),
		Region:            p.Region,
		Bio:               p.Bio,
		ContactPrices:     prices,
		ResponseTimeHours: int32(p.ResponseTimeHours),
		IsPublic:          p.IsPublic,
		CreatedAt:         p.CreatedAt,
	}, nil
}

func (r profileRow) toEntity() (*entity.Profile, error) {
	p := &entity.Profile{
		Address:           r.Address,
		Bump:              uint8(r.Bump),
		Owner:             r.Owner,
		Handle:            r.Handle,
		ExperienceYears:   uint16(r.ExperienceYears),
		Region:            r.Region,
		Bio:               r.Bio,
		ResponseTimeHours: uint16(r.ResponseTimeHours),
		IsPublic:          r.IsPublic,
		CreatedAt:         r.CreatedAt,
	}
	if len(r.Skills) > 0 {
		if err := json.Unmarshal(r.Skills, &p.Skills); err != nil {
			return nil, err
		}
	}
	if len(r.ContactPrices) > 0 {
		if err := json.Unmarshal(r.ContactPrices, &p.ContactPrices); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
