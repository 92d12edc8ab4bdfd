package handlers

import (
	"shutterbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves a Zap logger from the Gin context or falls back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// RequestLogger attaches a request-scoped logger and logs each completed request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger().With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Set("logger", logger)
		c.Next()
		logger.Debug("Request completed", zap.Int("status", c.Writer.Status()))
	}
}
