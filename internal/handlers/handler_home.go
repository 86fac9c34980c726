package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
)

// registerHealthRoutes registers the liveness endpoint. It reports whether
// the last persistence write succeeded so clients can warn that changes may
// not survive a restart.
func registerHealthRoutes(r *gin.Engine, tx portssvc.TransactionSvcFacade) {
	r.GET("/health", func(c *gin.Context) {
		healthy, detail := tx.PersistenceHealthy()
		status := gin.H{"status": "ok", "persistence": "ok"}
		if !healthy {
			status["persistence"] = "degraded"
			status["persistenceError"] = detail
		}
		c.JSON(http.StatusOK, status)
	})
}
