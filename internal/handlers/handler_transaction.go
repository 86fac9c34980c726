package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/core/domain"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
	"github.com/spendwise-app/spendwise/internal/core/services"
	"github.com/spendwise-app/spendwise/internal/dto"
	"github.com/spendwise-app/spendwise/internal/middleware"
)

// transactionHandler handles HTTP requests for individual transaction rows.
type transactionHandler struct {
	txService        portssvc.TransactionSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

func newTransactionHandler(tx portssvc.TransactionSvcFacade, reporting portssvc.ReportingSvcFacade) *transactionHandler {
	return &transactionHandler{txService: tx, reportingService: reporting}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, tx portssvc.TransactionSvcFacade, reporting portssvc.ReportingSvcFacade) {
	h := newTransactionHandler(tx, reporting)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
}

func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !req.Category.Valid() || !req.Account.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category or account"})
		return
	}

	row := req.ToDomain(uuid.NewString(), domain.DateOf(time.Now()))
	created, err := h.txService.Add(c.Request.Context(), row)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *transactionHandler) listTransactions(c *gin.Context) {
	filter := portssvc.SearchFilter{
		Query:     c.Query("q"),
		Type:      domain.TransactionType(c.Query("type")),
		Category:  domain.Category(c.Query("category")),
		Account:   domain.Account(c.Query("account")),
		Timeframe: portssvc.Timeframe(c.Query("timeframe")),
	}
	if from := c.Query("from"); from != "" {
		parsed, err := domain.ParseDate(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := domain.ParseDate(to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.To = &parsed
	}

	rows, err := h.reportingService.Search(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: rows, Count: len(rows)})
}

func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !req.Category.Valid() || !req.Account.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category or account"})
		return
	}

	updated, err := h.txService.UpdateByID(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	id := c.Param("id")
	if err := h.txService.DeleteByID(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondServiceError maps service-layer sentinel errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, services.ErrInvalidRecurrence),
		errors.Is(err, services.ErrInvalidTransfer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
