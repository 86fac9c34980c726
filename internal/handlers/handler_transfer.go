package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spendwise-app/spendwise/internal/core/domain"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
	"github.com/spendwise-app/spendwise/internal/dto"
	"github.com/spendwise-app/spendwise/internal/middleware"
)

// transferHandler handles HTTP requests for account-to-account transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func newTransferHandler(transfer portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: transfer}
}

// registerTransferRoutes registers routes related to transfers.
func registerTransferRoutes(rg *gin.RouterGroup, transfer portssvc.TransferSvcFacade) {
	h := newTransferHandler(transfer)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.DELETE("/:transferID", h.deleteTransfer)
	}
}

// createTransfer posts a balanced expense/income pair per occurrence.
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	postings, err := h.transferService.Post(c.Request.Context(), req.ToDomain(domain.DateOf(time.Now())))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TransferResponse{Postings: postings, Count: len(postings)})
}

func (h *transferHandler) deleteTransfer(c *gin.Context) {
	transferID := c.Param("transferID")
	removed, err := h.transferService.DeleteTransfer(c.Request.Context(), transferID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transferId": transferID, "deleted": removed})
}
