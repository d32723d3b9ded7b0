package dto

import (
	"time"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
)

type ContactPriceTier struct {
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

type CreateProfileRequest struct {
	Handle            string             `json:"handle" binding:"required"`
	Skills            []string           `json:"skills"`
	ExperienceYears   uint16             `json:"experience_years"`
	Region            string             `json:"region"`
	Bio               string             `json:"bio"`
	ContactPrices     []ContactPriceTier `json:"contact_prices"`
	ResponseTimeHours uint16             `json:"response_time_hours" binding:"required"`
}

// UpdateProfileRequest - отсутствующие поля не меняются.
type UpdateProfileRequest struct {
	Skills            *[]string           `json:"skills"`
	ExperienceYears   *uint16             `json:"experience_years"`
	Region            *string             `json:"region"`
	Bio               *string             `json:"bio"`
	ContactPrices     *[]ContactPriceTier `json:"contact_prices"`
	ResponseTimeHours *uint16             `json:"response_time_hours"`
	IsPublic          *bool               `json:"is_public"`
}

type ProfileResponse struct {
	Address           derive.RecordAddress `json:"address"`
	Bump              uint8                `json:"bump"`
	Owner             identity.Address     `json:"owner"`
	Handle            string               `json:"handle"`
	Skills            []string             `json:"skills"`
	ExperienceYears   uint16               `json:"experience_years"`
	Region            string               `json:"region"`
	Bio               string               `json:"bio"`
	ContactPrices     []ContactPriceTier   `json:"contact_prices"`
	ResponseTimeHours uint16               `json:"response_time_hours"`
	IsPublic          bool                 `json:"is_public"`
	CreatedAt         time.Time            `json:"created_at"`
}

func toTiers(in []ContactPriceTier) []entity.ContactPriceTier {
	out := make([]entity.ContactPriceTier, 0, len(in))
	for _, t := range in {
		out = append(out, entity.ContactPriceTier{Price: valueobject.Amount(t.Price), Description: t.Description})
	}
	return out
}

func (r CreateProfileRequest) Fields() entity.ProfileFields {
	tiers := toTiers(r.ContactPrices)
	skills := r.Skills
	return entity.ProfileFields{
		Skills:            &skills,
		ExperienceYears:   &r.ExperienceYears,
		Region:            &r.Region,
		Bio:               &r.Bio,
		ContactPrices:     &tiers,
		ResponseTimeHours: &r.ResponseTimeHours,
	}
}

func (r UpdateProfileRequest) Fields() entity.ProfileFields {
	fields := entity.ProfileFields{
		Skills:            r.Skills,
		ExperienceYears:   r.ExperienceYears,
		Region:            r.Region,
		Bio:               r.Bio,
		ResponseTimeHours: r.ResponseTimeHours,
		IsPublic:          r.IsPublic,
	}
	if r.ContactPrices != nil {
		tiers := toTiers(*r.ContactPrices)
		fields.ContactPrices = &tiers
	}
	return fields
}

func ToProfileResponse(p *entity.Profile) ProfileResponse {
	tiers := make([]ContactPriceTier, 0, len(p.ContactPrices))
	for _, t := range p.ContactPrices {
		tiers = append(tiers, ContactPriceTier{Price: t.Price.Int64(), Description: t.Description})
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		Address:           p.Address,
		Bump:              p.Bump,
		Owner:             p.Owner,
		Handle:            p.Handle,
		Skills:            skills,
		ExperienceYears:   p.ExperienceYears,
		Region:            p.Region,
		Bio:               p.Bio,
		ContactPrices:     tiers,
		ResponseTimeHours: p.ResponseTimeHours,
		IsPublic:          p.IsPublic,
		CreatedAt:         time.Unix(p.CreatedAt, 0).UTC(),
	}
}
