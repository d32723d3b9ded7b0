package entity

import (
	"strings"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
	"github.com/ignatzorin/talent-escrow/internal/validation"
)

const (
	MaxSkills          = 10
	MaxSkillLength     = 50
	MaxBioLength       = 500
	MaxRegionLength    = 50
	MinHandleLength    = 3
	MaxHandleLength    = 30
	MaxPriceTiers      = 5
	MaxTierDescription = 50
	MaxResponseHours   = 168
)

// ContactPriceTier - тариф на контакт с владельцем профиля.
type ContactPriceTier struct {
	Price       valueobject.Amount `json:"price"`
	Description string             `json:"description"`
}

// Profile - публичный профиль кандидата, цель предложений.
type Profile struct {
	Address           derive.RecordAddress
	Bump              uint8
	Owner             identity.Address
	Handle            string
	Skills            []string
	ExperienceYears   uint16
	Region            string
	Bio               string
	ContactPrices     []ContactPriceTier
	ResponseTimeHours uint16
	IsPublic          bool
	CreatedAt         int64
}

// ProfileFields - изменяемые поля профиля; nil означает «не менять».
type ProfileFields struct {
	Skills            *[]string
	ExperienceYears   *uint16
	Region            *string
	Bio               *string
	ContactPrices     *[]ContactPriceTier
	ResponseTimeHours *uint16
	IsPublic          *bool
}

func NewProfile(address derive.RecordAddress, bump uint8, owner identity.Address, handle string, fields ProfileFields, now int64) (*Profile, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	if err := validation.ValidateHandle(handle, MinHandleLength, MaxHandleLength); err != nil {
		return nil, err
	}
	if fields.ResponseTimeHours == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "время ответа обязательно")
	}

	p := &Profile{
		Address:   address,
		Bump:      bump,
		Owner:     owner,
		Handle:    handle,
		IsPublic:  true,
		CreatedAt: now,
	}
	if err := p.Apply(fields); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply применяет изменения с проверкой границ. При ошибке профиль не меняется.
func (p *Profile) Apply(f ProfileFields) error {
	next := *p

	if f.Skills != nil {
		if err := validation.ValidateSkills(*f.Skills, MaxSkills, MaxSkillLength); err != nil {
			return err
		}
		next.Skills = append([]string(nil), *f.Skills...)
	}
	if f.ExperienceYears != nil {
		next.ExperienceYears = *f.ExperienceYears
	}
	if f.Region != nil {
		if err := validation.ValidateText("регион", *f.Region, MaxRegionLength); err != nil {
			return err
		}
		next.Region = *f.Region
	}
	if f.Bio != nil {
		if err := validation.ValidateText("описание", *f.Bio, MaxBioLength); err != nil {
			return err
		}
		next.Bio = *f.Bio
	}
	if f.ContactPrices != nil {
		if len(*f.ContactPrices) > MaxPriceTiers {
			return apperror.Newf(apperror.ErrCodeValidation, "не более %d тарифов", MaxPriceTiers)
		}
		for _, tier := range *f.ContactPrices {
			if tier.Price <= 0 {
				return apperror.New(apperror.ErrCodeValidation, "цена тарифа должна быть положительной")
			}
			if err := validation.ValidateText("описание тарифа", tier.Description, MaxTierDescription); err != nil {
				return err
			}
		}
		next.ContactPrices = append([]ContactPriceTier(nil), *f.ContactPrices...)
	}
	if f.ResponseTimeHours != nil {
		if *f.ResponseTimeHours == 0 || *f.ResponseTimeHours > MaxResponseHours {
			return apperror.Newf(apperror.ErrCodeValidation, "время ответа должно быть от 1 до %d часов", MaxResponseHours)
		}
		next.ResponseTimeHours = *f.ResponseTimeHours
	}
	if f.IsPublic != nil {
		next.IsPublic = *f.IsPublic
	}

	*p = next
	return nil
}

// MinContactPrice - самый дешёвый тариф или 0, если тарифов нет.
func (p *Profile) MinContactPrice() valueobject.Amount {
	var min valueobject.Amount
	for i, tier := range p.ContactPrices {
		if i == 0 || tier.Price < min {
			min = tier.Price
		}
	}
	return min
}

func (p *Profile) IsOwnedBy(addr identity.Address) bool {
	return p.Owner == addr
}
