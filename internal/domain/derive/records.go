package derive

import "github.com/ignatzorin/talent-escrow/internal/domain/identity"

// Profile - адрес профиля владельца: ("profile", owner).
func Profile(owner identity.Address) (RecordAddress, uint8, error) {
	return Derive(NamespaceProfile, owner.Bytes())
}

// Offer - адрес эскроу-записи: (namespace, opener, target[, extra]).
// extra задаётся для вариантов, привязанных к конкретной записи (например, вакансии).
func Offer(namespace string, opener identity.Address, target RecordAddress, extra ...[]byte) (RecordAddress, uint8, error) {
	seeds := append([][]byte{opener.Bytes(), target.Bytes()}, extra...)
	return Derive(namespace, seeds...)
}

// VerifyProfile проверяет адрес профиля с сохранённым bump.
func VerifyProfile(expected RecordAddress, bump uint8, owner identity.Address) error {
	return Verify(expected, NamespaceProfile, bump, owner.Bytes())
}

// VerifyOffer проверяет адрес эскроу-записи с сохранённым bump.
func VerifyOffer(expected RecordAddress, namespace string, bump uint8, opener identity.Address, target RecordAddress, extra ...[]byte) error {
	seeds := append([][]byte{opener.Bytes(), target.Bytes()}, extra...)
	return Verify(expected, namespace, bump, seeds...)
}
