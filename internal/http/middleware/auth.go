package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/response"
)

// ContextAddressKey - адрес участника, подтверждённый access токеном.
const ContextAddressKey = "address"

// TokenParser проверяет access токен и возвращает адрес участника.
type TokenParser interface {
	ParseAccessToken(token string) (identity.Address, error)
}

// AuthMiddleware проверяет JWT access токен из заголовка Authorization.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		addr, err := tokens.ParseAccessToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil || addr.IsZero() {
			response.Unauthorized(c, "токен невалиден")
			return
		}

		c.Set(ContextAddressKey, addr)
		c.Next()
	}
}

// CurrentAddress достаёт адрес, выставленный AuthMiddleware.
func CurrentAddress(c *gin.Context) (identity.Address, bool) {
	raw, exists := c.Get(ContextAddressKey)
	if !exists {
		return identity.ZeroAddress, false
	}
	addr, ok := raw.(identity.Address)
	if !ok || addr.IsZero() {
		return identity.ZeroAddress, false
	}
	return addr, true
}
