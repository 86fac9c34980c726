package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
	"github.com/spendwise-app/spendwise/internal/dto"
	"github.com/spendwise-app/spendwise/internal/middleware"
)

// recurringHandler handles HTTP requests for recurring transaction series.
type recurringHandler struct {
	recurrenceService portssvc.RecurrenceSvcFacade
}

func newRecurringHandler(recurrence portssvc.RecurrenceSvcFacade) *recurringHandler {
	return &recurringHandler{recurrenceService: recurrence}
}

// registerRecurringRoutes registers routes related to recurring series.
func registerRecurringRoutes(rg *gin.RouterGroup, recurrence portssvc.RecurrenceSvcFacade) {
	h := newRecurringHandler(recurrence)

	recurring := rg.Group("/recurring")
	{
		recurring.POST("", h.createSeries)
		recurring.GET("", h.listSeries)
		recurring.PUT("/:seriesID", h.updateSeries)
		recurring.DELETE("/:seriesID", h.deleteSeries)
	}
}

// createSeries materializes a new recurring series from its template and
// returns every stored row, template first.
func (h *recurringHandler) createSeries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createSeries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rows, err := h.recurrenceService.CreateSeries(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SeriesResponse{
		SeriesID:     rows[0].SeriesID,
		Transactions: rows,
		Count:        len(rows),
	})
}

func (h *recurringHandler) listSeries(c *gin.Context) {
	groups := h.recurrenceService.ListSeries(c.Request.Context())
	c.JSON(http.StatusOK, dto.ListSeriesResponse{Series: groups, Count: len(groups)})
}

// updateSeries edits the shared fields of every row of a series and extends
// the materialization when the range grew. The response carries only the
// newly added rows.
func (h *recurringHandler) updateSeries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	seriesID := c.Param("seriesID")

	var req dto.UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateSeries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	added, err := h.recurrenceService.UpdateSeries(c.Request.Context(), seriesID, req.ToChanges())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SeriesResponse{
		SeriesID:     seriesID,
		Transactions: added,
		Count:        len(added),
	})
}

func (h *recurringHandler) deleteSeries(c *gin.Context) {
	seriesID := c.Param("seriesID")
	removed, err := h.recurrenceService.DeleteSeries(c.Request.Context(), seriesID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seriesId": seriesID, "deleted": removed})
}
