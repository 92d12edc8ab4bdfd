package handlers

import (
	"net/http"

	"shutterbook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /health with the last background health check.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Mongo || !status.Redis {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "mongo": status.Mongo, "redis": status.Redis, "checkedAt": status.CheckedAt})
}
