package dto

// LoginRequest - подпись challenge, выданного GET /api/auth/challenge.
type LoginRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}
