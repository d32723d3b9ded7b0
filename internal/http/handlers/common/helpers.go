package common

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/http/middleware"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/response"
)

// RequireAddress достаёт адрес из контекста или отвечает 401.
func RequireAddress(c *gin.Context) (identity.Address, bool) {
	addr, ok := middleware.CurrentAddress(c)
	if !ok {
		response.Unauthorized(c, "требуется авторизация")
	}
	return addr, ok
}

// ParseIntQuery safely reads an integer query parameter with a fallback value
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPagination extracts limit and offset from query parameters with defaults
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", 20)
	offset = ParseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return
}
