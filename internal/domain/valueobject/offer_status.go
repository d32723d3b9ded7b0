package valueobject

import "github.com/ignatzorin/talent-escrow/internal/pkg/apperror"

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
	OfferStatusExpired  OfferStatus = "expired"
)

func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusAccepted, OfferStatusRejected, OfferStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo - из Pending допустим любой итоговый статус, итоговые статусы конечны.
func (s OfferStatus) CanTransitionTo(newStatus OfferStatus) bool {
	transitions := map[OfferStatus][]OfferStatus{
		OfferStatusPending:  {OfferStatusAccepted, OfferStatusRejected, OfferStatusExpired},
		OfferStatusAccepted: {},
		OfferStatusRejected: {},
		OfferStatusExpired:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewOfferStatus(status string) (OfferStatus, error) {
	s := OfferStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус предложения")
	}
	return s, nil
}
