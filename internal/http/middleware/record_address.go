package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/talent-escrow/internal/domain/derive"
	"github.com/ignatzorin/talent-escrow/internal/interface/http/response"
)

const contextRecordPrefix = "record:"

// RecordAddressParam проверяет, что параметр пути - адрес записи (bech32 или hex).
// Использование: api.GET("/offers/:address", RecordAddressParam("address"), handler.Get)
func RecordAddressParam(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		if raw == "" {
			response.BadRequest(c, "параметр "+paramName+" обязателен")
			return
		}

		addr, err := derive.ParseRecordAddress(raw)
		if err != nil {
			response.BadRequest(c, "параметр "+paramName+" должен быть адресом записи")
			return
		}

		c.Set(contextRecordPrefix+paramName, addr)
		c.Next()
	}
}

// RecordAddress возвращает адрес, разобранный RecordAddressParam.
func RecordAddress(c *gin.Context, paramName string) (derive.RecordAddress, bool) {
	if raw, ok := c.Get(contextRecordPrefix + paramName); ok {
		if addr, ok := raw.(derive.RecordAddress); ok {
			return addr, true
		}
	}
	addr, err := derive.ParseRecordAddress(c.Param(paramName))
	return addr, err == nil
}
