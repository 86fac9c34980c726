package handlers

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
	"github.com/spendwise-app/spendwise/internal/dto"
	"github.com/spendwise-app/spendwise/internal/middleware"
)

// backupHandler serializes the full row set out and back in. Cloud upload
// of the exported file is the client's business.
type backupHandler struct {
	txService portssvc.TransactionSvcFacade
}

func newBackupHandler(tx portssvc.TransactionSvcFacade) *backupHandler {
	return &backupHandler{txService: tx}
}

// registerBackupRoutes registers routes related to backup and restore.
func registerBackupRoutes(rg *gin.RouterGroup, tx portssvc.TransactionSvcFacade) {
	h := newBackupHandler(tx)

	backup := rg.Group("/backup")
	{
		backup.GET("/export", h.exportJSON)
		backup.POST("/import", h.importJSON)
		backup.GET("/export.csv", h.exportCSV)
	}
}

func (h *backupHandler) exportJSON(c *gin.Context) {
	rows := h.txService.All(c.Request.Context())
	c.JSON(http.StatusOK, dto.BackupPayload{
		ExportedAt:   time.Now().UTC(),
		Count:        len(rows),
		Transactions: rows,
	})
}

// importJSON replaces the entire stored collection with the payload's rows.
func (h *backupHandler) importJSON(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var payload dto.BackupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("Failed to bind JSON for importJSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backup format: " + err.Error()})
		return
	}

	if err := h.txService.ReplaceAll(c.Request.Context(), payload.Transactions); err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Info("Restored transactions from backup", slog.Int("rows", len(payload.Transactions)))
	c.JSON(http.StatusOK, gin.H{"restored": len(payload.Transactions)})
}

func (h *backupHandler) exportCSV(c *gin.Context) {
	rows := h.txService.All(c.Request.Context())

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"id", "date", "amount", "category", "description", "account", "type", "seriesId", "transferId"})
	for _, row := range rows {
		_ = w.Write([]string{
			row.ID,
			row.Date.String(),
			row.Amount.String(),
			string(row.Category),
			row.Description,
			string(row.Account),
			string(row.Type),
			row.SeriesID,
			row.TransferID,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to stream CSV export", slog.String("error", err.Error()))
	}
}
