package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service facades.
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	registerHealthRoutes(r, services.Transaction)

	v1 := r.Group("/api/v1")

	registerTransactionRoutes(v1, services.Transaction, services.Reporting)
	registerRecurringRoutes(v1, services.Recurrence)
	registerTransferRoutes(v1, services.Transfer)
	registerReportingRoutes(v1, services.Reporting)
	registerBackupRoutes(v1, services.Transaction)
}
