package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/domain/identity"
	"github.com/ignatzorin/talent-escrow/internal/http/middleware"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/response"
)

// currentAddress отвечает 401, если адрес не выставлен middleware.
func currentAddress(c *gin.Context) (identity.Address, bool) {
	addr, ok := middleware.CurrentAddress(c)
	if !ok {
		response.Unauthorized(c, "требуется авторизация")
	}
	return addr, ok
}

func recordParam(c *gin.Context, name string) (derive.RecordAddress, bool) {
	addr, ok := middleware.RecordAddress(c, name)
	if !ok {
		response.BadRequest(c, "некорректный адрес записи")
	}
	return addr, ok
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
