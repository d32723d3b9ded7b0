package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/dto"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/response"
	"github.com/ignatzorin/talent-escrow/internal/service"
)

// AuthHandler предоставляет HTTP слой входа по подписи.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Challenge обрабатывает GET /auth/challenge?address=0x...
func (h *AuthHandler) Challenge(c *gin.Context) {
	addr, err := identity.ParseAddress(c.Query("address"))
	if err != nil {
		response.Error(c, err)
		return
	}

	challenge, err := h.auth.Challenge(c.Request.Context(), addr)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, challenge)
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "address и signature обязательны")
		return
	}

	addr, err := identity.ParseAddress(req.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), addr, req.Signature)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewAuthResponse(result))
}

// Refresh обрабатывает POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "refresh_token обязателен")
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewAuthResponse(result))
}

// Logout обрабатывает POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "refresh_token обязателен")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"logged_out": true})
}
