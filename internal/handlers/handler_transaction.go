package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/SscSPs/smart_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles stored statement rows and manual entries.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	ledgerService      portssvc.LedgerPosterSvc
	ingestionService   portssvc.IngestionSvc
}

func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade, ls portssvc.LedgerPosterSvc, is portssvc.IngestionSvc) {
	h := &transactionHandler{transactionService: ts, ledgerService: ls, ingestionService: is}

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.POST("", h.createManualTransaction)
		txns.GET("/:id", h.getTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.POST("/:id/post", h.postTransaction)
	}
}

// listTransactions godoc
// @Summary Query transactions
// @Description Filters stored transactions, newest first
// @Tags transactions
// @Produce json
// @Param accountId query string false "Account ID"
// @Param uploadId query string false "Upload ID"
// @Param category query string false "Category code"
// @Param type query string false "CREDIT or DEBIT"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param search query string false "Description or counterparty substring"
// @Param posted query bool false "Only posted (true) or unposted (false) rows"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Failed to query transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondWithError(c, err, "Failed to query transactions")
		return
	}

	txns, err := h.transactionService.QueryTransactions(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err, "Failed to query transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		Limit:        params.Limit,
		Offset:       params.Offset,
	})
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Correct a transaction's category or notes
// @Description Amount, date and type are immutable; the row is flagged as manually edited
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param body body dto.UpdateTransactionRequest true "Correction"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to update transaction"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), c.Param("id"), req.ToUpdate())
	if err != nil {
		respondWithError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// createManualTransaction godoc
// @Summary Record a manual transaction
// @Description Stores a hand-entered transaction and posts it. When posting fails the stored row is returned without an entry.
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body dto.CreateManualTransactionRequest true "Manual transaction"
// @Success 201 {object} dto.ManualTransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to record transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createManualTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateManualTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	txn, entry, err := h.ingestionService.RecordManualTransaction(c.Request.Context(), req)
	if err != nil && txn == nil {
		respondWithError(c, err, "Failed to record transaction")
		return
	}
	if err != nil {
		logger.Warn("Manual transaction stored but not posted",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("error", err.Error()))
	}

	resp := dto.ManualTransactionResponse{Transaction: dto.ToTransactionResponse(txn)}
	if entry != nil {
		e := dto.ToLedgerEntryResponse(entry)
		resp.Entry = &e
	}
	c.JSON(http.StatusCreated, resp)
}

// postTransaction godoc
// @Summary Post a stored transaction to its ledger
// @Description Idempotent: an already posted transaction returns its existing entry
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} ErrorResponse "Transaction has no valid date"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to post transaction"
// @Security BearerAuth
// @Router /transactions/{id}/post [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	entry, err := h.ledgerService.PostTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to post transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}
