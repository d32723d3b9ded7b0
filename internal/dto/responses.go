package dto

import (
	"time"

	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/service"
)

type AuthResponse struct {
	Address identity.Address   `json:"address"`
	Tokens  *service.TokenPair `json:"tokens"`
}

type BalanceResponse struct {
	Owner     identity.Address `json:"owner"`
	Available int64            `json:"available"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
}

func NewAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{Address: result.Address, Tokens: result.TokenPair}
}
