package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/SscSPs/smart_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts and their ledgers.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	ledgerService    portssvc.LedgerSvcFacade
	ingestionService portssvc.IngestionSvc
}

func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade, is portssvc.IngestionSvc) *accountHandler {
	return &accountHandler{
		accountService:   as,
		ledgerService:    ls,
		ingestionService: is,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade, is portssvc.IngestionSvc) {
	h := newAccountHandler(as, ls, is)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.GET("/:id/balance", h.getBalance)
		accounts.GET("/:id/ledger", h.listLedger)
		accounts.GET("/:id/summary", h.getSummary)
		accounts.POST("/:id/recompute", h.recomputeBalance)
		accounts.GET("/:id/verify", h.verifyAccount)
		accounts.POST("/:id/retry-unposted", h.retryUnposted)
		accounts.POST("/:id/reconcile/:entryId", h.reconcileEntry)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account. Opening balance defaults to zero and seeds the current balance.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Account number already registered"
// @Failure 500 {object} ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists all accounts ordered by name
// @Tags accounts
// @Produce  json
// @Param   activeOnly query bool false "Only active accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.ActiveOnly)
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates name, type or active flag. Balances and account number are not writable.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req)
	if err != nil {
		respondWithError(c, err, "Failed to update account")
		return
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getBalance godoc
// @Summary Get account balance
// @Description Returns current balance, opening balance and net change
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve balance"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	balance, err := h.accountService.GetBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}

// listLedger godoc
// @Summary List ledger entries of an account
// @Description Entries in (entry date, created at) order with cursor pagination
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(100)
// @Param nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListLedgerResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to list ledger"
// @Security BearerAuth
// @Router /accounts/{id}/ledger [get]
func (h *accountHandler) listLedger(c *gin.Context) {
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	from, to, err := dto.ParseDateRange(params.DateFrom, params.DateTo)
	if err != nil {
		respondWithError(c, err, "Failed to list ledger")
		return
	}

	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	entries, next, err := h.ledgerService.ListLedger(c.Request.Context(), c.Param("id"), from, to, params.Limit, token)
	if err != nil {
		respondWithError(c, err, "Failed to list ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerResponse(entries, next))
}

// getSummary godoc
// @Summary Summarize an account ledger
// @Description Totals credits, debits and entries; final balance is the last running balance in range
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.AccountSummary
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to summarize ledger"
// @Security BearerAuth
// @Router /accounts/{id}/summary [get]
func (h *accountHandler) getSummary(c *gin.Context) {
	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	from, to, err := dto.ParseDateRange(params.DateFrom, params.DateTo)
	if err != nil {
		respondWithError(c, err, "Failed to summarize ledger")
		return
	}

	summary, err := h.ledgerService.GetAccountSummary(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondWithError(c, err, "Failed to summarize ledger")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// recomputeBalance godoc
// @Summary Recompute an account balance
// @Description Sets the current balance to opening balance plus all ledger entries. Idempotent.
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.RecomputeBalanceResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to recompute balance"
// @Security BearerAuth
// @Router /accounts/{id}/recompute [post]
func (h *accountHandler) recomputeBalance(c *gin.Context) {
	accountID := c.Param("id")
	balance, err := h.ledgerService.RecomputeBalance(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, err, "Failed to recompute balance")
		return
	}
	c.JSON(http.StatusOK, dto.RecomputeBalanceResponse{AccountID: accountID, CurrentBalance: balance})
}

// verifyAccount godoc
// @Summary Verify an account ledger
// @Description Checks running balances against prefix sums and the stored current balance
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} domain.LedgerVerification
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to verify ledger"
// @Security BearerAuth
// @Router /accounts/{id}/verify [get]
func (h *accountHandler) verifyAccount(c *gin.Context) {
	result, err := h.ledgerService.VerifyAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to verify ledger")
		return
	}
	c.JSON(http.StatusOK, result)
}

// retryUnposted godoc
// @Summary Post stored transactions that have no ledger entry
// @Tags ledger
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} domain.IngestionResult
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Failed to retry unposted transactions"
// @Security BearerAuth
// @Router /accounts/{id}/retry-unposted [post]
func (h *accountHandler) retryUnposted(c *gin.Context) {
	result, err := h.ingestionService.RetryUnposted(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retry unposted transactions")
		return
	}
	c.JSON(http.StatusOK, result)
}

// reconcileEntry godoc
// @Summary Reconcile a ledger entry
// @Description Marks the entry and its transaction reconciled. Repeating keeps the first date.
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param entryId path string true "Ledger entry ID"
// @Param body body dto.ReconcileEntryRequest false "Reconciliation date (defaults to now)"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} ErrorResponse "Invalid date"
// @Failure 404 {object} ErrorResponse "Entry not found in this account"
// @Failure 500 {object} ErrorResponse "Failed to reconcile entry"
// @Security BearerAuth
// @Router /accounts/{id}/reconcile/{entryId} [post]
func (h *accountHandler) reconcileEntry(c *gin.Context) {
	accountID := c.Param("id")
	entryID := c.Param("entryId")

	var req dto.ReconcileEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err, "request format")
		return
	}
	date, err := dto.ParseDateParam("date", req.Date)
	if err != nil {
		respondWithError(c, err, "Failed to reconcile entry")
		return
	}

	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), entryID)
	if err == nil && entry.AccountID != accountID {
		err = apperrors.NewNotFoundError("ledger entry " + entryID + " in account " + accountID)
	}
	if err != nil {
		respondWithError(c, err, "Failed to reconcile entry")
		return
	}

	entry, err = h.ledgerService.ReconcileEntry(c.Request.Context(), entryID, date)
	if err != nil {
		respondWithError(c, err, "Failed to reconcile entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}
