package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/talent-escrow/internal/domain/valueobject"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

func TestOfferStatus_Transitions(t *testing.T) {
	pending := valueobject.OfferStatusPending
	assert.True(t, pending.CanTransitionTo(valueobject.OfferStatusAccepted))
	assert.True(t, pending.CanTransitionTo(valueobject.OfferStatusRejected))
	assert.True(t, pending.CanTransitionTo(valueobject.OfferStatusExpired))
	assert.False(t, pending.CanTransitionTo(valueobject.OfferStatusPending))

	for _, terminal := range []valueobject.OfferStatus{
		valueobject.OfferStatusAccepted,
		valueobject.OfferStatusRejected,
		valueobject.OfferStatusExpired,
	} {
		assert.False(t, terminal.CanTransitionTo(valueobject.OfferStatusPending))
		assert.False(t, terminal.CanTransitionTo(valueobject.OfferStatusAccepted))
	}
}

func TestNewOfferStatus(t *testing.T) {
	s, err := valueobject.NewOfferStatus("rejected")
	assert.NoError(t, err)
	assert.Equal(t, valueobject.OfferStatusRejected, s)

	_, err = valueobject.NewOfferStatus("responded")
	assert.True(t, apperror.IsValidation(err))
}

func TestAmount(t *testing.T) {
	_, err := valueobject.NewAmount(0)
	assert.True(t, apperror.IsValidation(err))

	a, err := valueobject.NewAmount(2_000_000)
	assert.NoError(t, err)
	assert.NoError(t, a.AtLeast(valueobject.DefaultMinAmount))
	assert.Error(t, valueobject.Amount(999_999).AtLeast(valueobject.DefaultMinAmount))
}

func TestKinds(t *testing.T) {
	kinds := valueobject.NewKinds(
		valueobject.ScoutConfig(0, 0),
		valueobject.ContactConfig(0, 0),
	)

	scout, err := kinds.Get(valueobject.OfferKindScout)
	assert.NoError(t, err)
	assert.Equal(t, 500, scout.MaxMessageBytes)
	assert.Equal(t, valueobject.DefaultMinAmount, scout.MinAmount)
	assert.Equal(t, valueobject.DefaultWindow, scout.Window)

	contact, err := kinds.Get(valueobject.OfferKindContact)
	assert.NoError(t, err)
	assert.Equal(t, 1000, contact.MaxMessageBytes)
	assert.True(t, contact.UseProfileWindow)

	_, err = valueobject.NewOfferKind("job")
	assert.True(t, apperror.IsValidation(err))
}
