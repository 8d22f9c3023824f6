package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/SscSPs/smart_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves reports and exports over stored transactions.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingService) {
	h := &reportingHandler{reportingService: rs}

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.getSummary)
		reports.GET("/categories", h.getCategoryBreakdown)
		reports.GET("/reconciliation-status", h.getReconciliationStatus)
		reports.GET("/cash-flow", h.getCashFlow)
		reports.GET("/top-transactions", h.getTopTransactions)
		reports.GET("/monthly-comparison", h.getMonthlyComparison)
		reports.GET("/dashboard", h.getDashboard)
	}
	rg.POST("/export/csv", h.exportCSV)
	rg.GET("/categories", h.listCategories)
}

// getSummary godoc
// @Summary Income and expense summary
// @Tags reports
// @Produce json
// @Param accountId query string false "Account ID"
// @Param type query string false "CREDIT or DEBIT"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.ReportSummary
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Failed to build report"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	filter, ok := bindReportFilter(c)
	if !ok {
		return
	}
	summary, err := h.reportingService.GetSummary(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getCategoryBreakdown godoc
// @Summary Totals per category
// @Description Count, total, average amount and average confidence per category, largest total first
// @Tags reports
// @Produce json
// @Param accountId query string false "Account ID"
// @Param type query string false "CREDIT or DEBIT"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} domain.CategoryTotal
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Failed to build report"
// @Security BearerAuth
// @Router /reports/categories [get]
func (h *reportingHandler) getCategoryBreakdown(c *gin.Context) {
	filter, ok := bindReportFilter(c)
	if !ok {
		return
	}
	rows, err := h.reportingService.GetCategoryBreakdown(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// getReconciliationStatus godoc
// @Summary Reconciled and pending ledger entries per account
// @Tags reports
// @Produce json
// @Param accountId query string false "Account ID"
// @Success 200 {array} domain.ReconciliationStatus
// @Failure 500 {object} ErrorResponse "Failed to build report"
// @Security BearerAuth
// @Router /reports/reconciliation-status [get]
func (h *reportingHandler) getReconciliationStatus(c *gin.Context) {
	var params dto.AccountScopeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	rows, err := h.reportingService.GetReconciliationStatus(c.Request.Context(), params.Account())
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// getCashFlow godoc
// @Summary Monthly money in and out
// @Tags reports
// @Produce json
// @Param accountId query string false "Account ID"
// @Param type query string false "CREDIT or DEBIT"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} domain.CashFlowPeriod
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Failed to build report"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	filter, ok := bindReportFilter(c)
	if !ok {
		return
	}
	rows, err := h.reportingService.GetCashFlow(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// getTopTransactions godoc
// @Summary Largest transactions
// @Tags reports
// @Produce json
// @Param accountId query string false "Account ID"
// @Param type query string false "CREDIT or DEBIT"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Rows to return (1-100, default 10)"
// @Success 200 {array} domain.TopTransaction
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Failed to build report"
// @Security BearerAuth
// @Router /reports/top-transactions [get]
func (h *reportingHandler) getTopTransactions(c *gin.Context) {
	var params dto.TopTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return
	}
	rows, err := h.reportingService.GetTopTransactions(c.Request.Context(), filter, params.Limit)
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// getMonthlyComparison godoc
// @Summary Each month of a year against the month before
// @Tags reports
// @Produce json
// @Param accountId query string false "Account ID"
// @Param year query int false "Year, defaults to the current one"
// @Success 200 {array} domain.MonthlyComparison
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Failed to build report"
// @Security BearerAuth
// @Router /reports/monthly-comparison [get]
func (h *reportingHandler) getMonthlyComparison(c *gin.Context) {
	var params dto.MonthlyComparisonParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	rows, err := h.reportingService.GetMonthlyComparison(c.Request.Context(), params.Account(), params.Year)
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// getDashboard godoc
// @Summary Headline transaction counts and totals
// @Tags reports
// @Produce json
// @Param accountId query string false "Account ID"
// @Success 200 {object} domain.DashboardSummary
// @Failure 500 {object} ErrorResponse "Failed to build report"
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	var params dto.AccountScopeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	summary, err := h.reportingService.GetDashboard(c.Request.Context(), params.Account())
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func bindReportFilter(c *gin.Context) (domain.ReportFilter, bool) {
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return domain.ReportFilter{}, false
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return domain.ReportFilter{}, false
	}
	return filter, true
}

// exportCSV godoc
// @Summary Export transactions as CSV
// @Tags reports
// @Accept json
// @Produce text/csv
// @Param body body dto.ExportCSVRequest false "Filters"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} ErrorResponse "Invalid filters"
// @Failure 500 {object} ErrorResponse "Failed to export transactions"
// @Security BearerAuth
// @Router /export/csv [post]
func (h *reportingHandler) exportCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExportCSVRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err, "request format")
		return
	}
	filter, err := req.ToTransactionFilter()
	if err != nil {
		respondWithError(c, err, "Failed to export transactions")
		return
	}

	var buf bytes.Buffer
	count, err := h.reportingService.ExportCSV(c.Request.Context(), filter, &buf)
	if err != nil {
		respondWithError(c, err, "Failed to export transactions")
		return
	}

	fileName := fmt.Sprintf("transactions_%s.csv", time.Now().UTC().Format("20060102"))
	logger.Info("CSV export ready", slog.Int("rows", count))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// listCategories godoc
// @Summary List the category catalog
// @Tags reports
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *reportingHandler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToCategoryResponses(domain.Categories()))
}
