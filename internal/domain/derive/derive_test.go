package derive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

var (
	recruiter = identity.MustParseAddress("0x1000000000000000000000000000000000000001")
	owner     = identity.MustParseAddress("0x2000000000000000000000000000000000000002")
)

func TestDerive_Deterministic(t *testing.T) {
	a1, b1, err := derive.Derive(derive.NamespaceScout, recruiter.Bytes(), owner.Bytes())
	require.NoError(t, err)
	a2, b2, err := derive.Derive(derive.NamespaceScout, recruiter.Bytes(), owner.Bytes())
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.False(t, a1.IsZero())
}

func TestDerive_DistinctInputs(t *testing.T) {
	scout, _, err := derive.Derive(derive.NamespaceScout, recruiter.Bytes(), owner.Bytes())
	require.NoError(t, err)
	contact, _, err := derive.Derive(derive.NamespaceContact, recruiter.Bytes(), owner.Bytes())
	require.NoError(t, err)
	swapped, _, err := derive.Derive(derive.NamespaceScout, owner.Bytes(), recruiter.Bytes())
	require.NoError(t, err)

	assert.NotEqual(t, scout, contact, "разные пространства имён дают разные адреса")
	assert.NotEqual(t, scout, swapped, "порядок участников важен")

	// Конкатенация сидов без длины дала бы одинаковый результат.
	x, _, err := derive.Derive("ns", []byte("ab"), []byte("c"))
	require.NoError(t, err)
	y, _, err := derive.Derive("ns", []byte("a"), []byte("bc"))
	require.NoError(t, err)
	assert.NotEqual(t, x, y)
}

func TestVerify(t *testing.T) {
	profile, pBump, err := derive.Profile(owner)
	require.NoError(t, err)
	require.NoError(t, derive.VerifyProfile(profile, pBump, owner))

	offer, bump, err := derive.Offer(derive.NamespaceScout, recruiter, profile)
	require.NoError(t, err)
	require.NoError(t, derive.VerifyOffer(offer, derive.NamespaceScout, bump, recruiter, profile))

	err = derive.VerifyOffer(offer, derive.NamespaceScout, bump, owner, profile)
	assert.True(t, apperror.IsAuthorization(err))

	err = derive.VerifyProfile(profile, pBump, recruiter)
	assert.True(t, apperror.IsAuthorization(err))
}

func TestOffer_ExtraSeed(t *testing.T) {
	profile, _, err := derive.Profile(owner)
	require.NoError(t, err)

	plain, _, err := derive.Offer("job_offer", recruiter, profile)
	require.NoError(t, err)
	withJob, bump, err := derive.Offer("job_offer", recruiter, profile, []byte{1, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)

	assert.NotEqual(t, plain, withJob)
	assert.NoError(t, derive.VerifyOffer(withJob, "job_offer", bump, recruiter, profile, []byte{1, 0, 0, 0, 0, 0, 0, 0}))
}

func TestDerive_SeedLimits(t *testing.T) {
	_, _, err := derive.Derive("", recruiter.Bytes())
	assert.True(t, apperror.IsValidation(err))

	_, _, err = derive.Derive("ns", make([]byte, derive.MaxSeedLength+1))
	assert.True(t, apperror.IsValidation(err))

	seeds := make([][]byte, derive.MaxSeeds+1)
	_, _, err = derive.Derive("ns", seeds...)
	assert.True(t, apperror.IsValidation(err))
}

func TestRecordAddress_Encoding(t *testing.T) {
	addr, _, err := derive.Profile(owner)
	require.NoError(t, err)

	encoded := addr.String()
	assert.Contains(t, encoded, derive.RecordHRP+"1")

	parsed, err := derive.ParseRecordAddress(encoded)
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	parsed, err = derive.ParseRecordAddress(addr.Hex())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = derive.ParseRecordAddress("esc1qqqq")
	assert.True(t, apperror.IsValidation(err))
	_, err = derive.ParseRecordAddress("0xdeadbeef")
	assert.True(t, apperror.IsValidation(err))
}
