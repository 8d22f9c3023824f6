package dto

import (
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListLedgerParams defines query parameters for an account ledger.
type ListLedgerParams struct {
	DateFrom  string `form:"dateFrom"`
	DateTo    string `form:"dateTo"`
	Limit     int    `form:"limit,default=100" binding:"min=0,max=1000"`
	NextToken string `form:"nextToken"`
}

// SummaryParams defines the optional date bounds of an account summary.
type SummaryParams struct {
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
}

// ReconcileEntryRequest optionally carries the reconciliation date (YYYY-MM-DD).
type ReconcileEntryRequest struct {
	Date string `json:"date"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID            string          `json:"entryID"`
	AccountID          string          `json:"accountID"`
	TransactionID      string          `json:"transactionID"`
	EntryDate          string          `json:"entryDate"`
	EntryType          string          `json:"entryType"`
	Amount             decimal.Decimal `json:"amount"`
	RunningBalance     decimal.Decimal `json:"runningBalance"`
	Description        string          `json:"description"`
	Notes              string          `json:"notes,omitempty"`
	Reconciled         bool            `json:"reconciled"`
	ReconciliationDate *time.Time      `json:"reconciliationDate"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:            e.EntryID,
		AccountID:          e.AccountID,
		TransactionID:      e.TransactionID,
		EntryDate:          e.EntryDate.Format(domain.ISODate),
		EntryType:          string(e.EntryType),
		Amount:             e.Amount,
		RunningBalance:     e.RunningBalance,
		Description:        e.Description,
		Notes:              e.Notes,
		Reconciled:         e.Reconciled,
		ReconciliationDate: e.ReconciliationDate,
		CreatedAt:          e.CreatedAt,
	}
}

// ListLedgerResponse wraps a page of ledger entries.
type ListLedgerResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToListLedgerResponse converts entries plus an optional continuation token.
func ToListLedgerResponse(entries []domain.LedgerEntry, nextToken *string) ListLedgerResponse {
	res := ListLedgerResponse{Entries: make([]LedgerEntryResponse, len(entries)), NextToken: nextToken}
	for i := range entries {
		res.Entries[i] = ToLedgerEntryResponse(&entries[i])
	}
	return res
}

// RecomputeBalanceResponse reports the recomputed account balance.
type RecomputeBalanceResponse struct {
	AccountID      string          `json:"accountID"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}
