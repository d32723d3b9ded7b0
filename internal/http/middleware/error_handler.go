package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/talent-escrow/internal/interface/http/response"
	"github.com/ignatzorin/talent-escrow/internal/logger"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// ErrorHandler отдаёт ответ по последней ошибке из c.Errors, если хэндлер
// ничего не записал. Внутренние детали клиенту не уходят.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		logger.L().WithFields(logrus.Fields{
			"error":  err.Error(),
			"code":   apperror.CodeOf(err),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("request error")

		response.Error(c, err)
	}
}

// RequestLogger пишет одну строку на запрос через logrus.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"status":   c.Writer.Status(),
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		}
		if addr, ok := CurrentAddress(c); ok {
			fields["address"] = addr.Hex()
		}

		entry := logger.L().WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("http request")
		case c.Writer.Status() >= 400:
			entry.Info("http request")
		default:
			entry.Debug("http request")
		}
	}
}
