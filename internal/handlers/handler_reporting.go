package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise-app/spendwise/internal/core/domain"
	portssvc "github.com/spendwise-app/spendwise/internal/core/ports/services"
)

// reportingHandler exposes the analytics views over the transaction store.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reporting portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reporting}
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reporting portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reporting)

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.getSummary)
		reports.GET("/categories", h.getCategories)
		reports.GET("/monthly", h.getMonthly)
	}
}

// getSummary returns total income, total expenses and net balance for the
// requested timeframe (default: all).
func (h *reportingHandler) getSummary(c *gin.Context) {
	timeframe := portssvc.Timeframe(c.Query("timeframe"))
	summary, err := h.reportingService.Summary(c.Request.Context(), timeframe)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *reportingHandler) getCategories(c *gin.Context) {
	timeframe := portssvc.Timeframe(c.Query("timeframe"))
	txType := domain.TransactionType(c.Query("type"))
	totals, err := h.reportingService.ByCategory(c.Request.Context(), timeframe, txType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": totals, "count": len(totals)})
}

func (h *reportingHandler) getMonthly(c *gin.Context) {
	timeframe := portssvc.Timeframe(c.Query("timeframe"))
	totals, err := h.reportingService.MonthlyTotals(c.Request.Context(), timeframe)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": totals, "count": len(totals)})
}
