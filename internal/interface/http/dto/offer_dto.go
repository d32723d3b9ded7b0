package dto

import (
	"time"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/entity"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/usecase/escrow"
)

type OpenOfferRequest struct {
	TargetProfile string `json:"target_profile" binding:"required"`
	Message       string `json:"message"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

// RespondOfferRequest - accept обязателен, поэтому указатель: false тоже валидное значение.
type RespondOfferRequest struct {
	Accept  *bool  `json:"accept" binding:"required"`
	Profile string `json:"profile" binding:"required"`
	Opener  string `json:"opener" binding:"required"`
}

type OfferResponse struct {
	Address       derive.RecordAddress `json:"address"`
	Bump          uint8                `json:"bump"`
	Kind          string               `json:"kind"`
	Opener        identity.Address     `json:"opener"`
	TargetProfile derive.RecordAddress `json:"target_profile"`
	TargetOwner   identity.Address     `json:"target_owner"`
	Message       string               `json:"message"`
	Amount        int64                `json:"amount"`
	Status        string               `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	ExpiresAt     time.Time            `json:"expires_at"`
	ResolvedAt    *time.Time           `json:"resolved_at,omitempty"`
	ResolvedBy    *identity.Address    `json:"resolved_by,omitempty"`
}

type OfferViewResponse struct {
	OfferResponse
	Custody int64 `json:"custody"`
	Expired bool  `json:"expired"`
}

type DeriveOfferResponse struct {
	Address derive.RecordAddress `json:"address"`
	Hex     string               `json:"hex"`
	Bump    uint8                `json:"bump"`
}

func ToOfferResponse(r *entity.EscrowRecord) OfferResponse {
	resp := OfferResponse{
		Address:       r.Address,
		Bump:          r.Bump,
		Kind:          string(r.Kind),
		Opener:        r.Opener,
		TargetProfile: r.TargetProfile,
		TargetOwner:   r.TargetOwner,
		Message:       r.Message,
		Amount:        r.Amount.Int64(),
		Status:        string(r.Status),
		CreatedAt:     time.Unix(r.CreatedAt, 0).UTC(),
		ExpiresAt:     time.Unix(r.ExpiresAt, 0).UTC(),
	}
	if r.ResolvedAt != 0 {
		at := time.Unix(r.ResolvedAt, 0).UTC()
		resp.ResolvedAt = &at
	}
	if !r.ResolvedBy.IsZero() {
		by := r.ResolvedBy
		resp.ResolvedBy = &by
	}
	return resp
}

func ToOfferViewResponse(v *escrow.OfferView) OfferViewResponse {
	return OfferViewResponse{
		OfferResponse: ToOfferResponse(v.Record),
		Custody:       v.Custody.Int64(),
		Expired:       v.Expired,
	}
}

func ToOfferResponses(records []*entity.EscrowRecord) []OfferResponse {
	responses := make([]OfferResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, ToOfferResponse(r))
	}
	return responses
}
