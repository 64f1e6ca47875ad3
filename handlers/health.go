package handlers

import (
	"net/http"

	"gclient/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /health with the last snapshot from the health monitor.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	message := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		message = "degraded"
	}
	c.JSON(code, gin.H{"success": status.Healthy(), "message": message, "health": status})
}
