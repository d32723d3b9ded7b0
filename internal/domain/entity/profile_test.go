package entity_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

func ptr[T any](v T) *T { return &v }

func TestNewProfile(t *testing.T) {
	p, err := entity.NewProfile(derive.ZeroRecord, 255, target, "  SolDev123 ", entity.ProfileFields{
		Skills:            ptr([]string{"Go", "Rust"}),
		Bio:               ptr("Senior developer"),
		ResponseTimeHours: ptr(uint16(24)),
		ContactPrices:     ptr([]entity.ContactPriceTier{{Price: 50_000_000, Description: "standard"}, {Price: 5_000_000, Description: "short"}}),
	}, T)
	require.NoError(t, err)

	assert.Equal(t, "soldev123", p.Handle)
	assert.True(t, p.IsPublic)
	assert.Equal(t, uint16(24), p.ResponseTimeHours)
	assert.EqualValues(t, 5_000_000, p.MinContactPrice())
}

func TestNewProfile_Validation(t *testing.T) {
	base := entity.ProfileFields{ResponseTimeHours: ptr(uint16(24))}

	_, err := entity.NewProfile(derive.ZeroRecord, 0, target, "ab", base, T)
	assert.True(t, apperror.IsValidation(err))

	_, err = entity.NewProfile(derive.ZeroRecord, 0, target, "handle", entity.ProfileFields{}, T)
	assert.True(t, apperror.IsValidation(err))

	cases := []entity.ProfileFields{
		{ResponseTimeHours: ptr(uint16(0))},
		{ResponseTimeHours: ptr(uint16(169))},
		{ResponseTimeHours: ptr(uint16(1)), Bio: ptr(strings.Repeat("x", 501))},
		{ResponseTimeHours: ptr(uint16(1)), Skills: ptr(make([]string, 11))},
		{ResponseTimeHours: ptr(uint16(1)), ContactPrices: ptr([]entity.ContactPriceTier{{Price: 0}})},
	}
	for _, fields := range cases {
		_, err := entity.NewProfile(derive.ZeroRecord, 0, target, "handle", fields, T)
		assert.True(t, apperror.IsValidation(err))
	}
}

func TestProfile_ApplyIsAtomic(t *testing.T) {
	p, err := entity.NewProfile(derive.ZeroRecord, 0, target, "handle", entity.ProfileFields{
		ResponseTimeHours: ptr(uint16(12)),
		Bio:               ptr("old"),
	}, T)
	require.NoError(t, err)

	err = p.Apply(entity.ProfileFields{
		Bio:               ptr("new"),
		ResponseTimeHours: ptr(uint16(500)),
	})
	assert.Error(t, err)
	assert.Equal(t, "old", p.Bio)
	assert.Equal(t, uint16(12), p.ResponseTimeHours)

	require.NoError(t, p.Apply(entity.ProfileFields{IsPublic: ptr(false)}))
	assert.False(t, p.IsPublic)
	assert.EqualValues(t, 0, p.MinContactPrice())
}
