package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxEntryDescriptionLength bounds the denormalized description on entries.
const MaxEntryDescriptionLength = 255

// LedgerEntry is an immutable signed cash movement with a running balance snapshot.
type LedgerEntry struct {
	EntryID            string          `json:"entryID"`
	AccountID          string          `json:"accountID"`
	TransactionID      string          `json:"transactionID"`
	EntryDate          time.Time       `json:"entryDate"`
	EntryType          TransactionType `json:"entryType"`
	Amount             decimal.Decimal `json:"amount"`
	RunningBalance     decimal.Decimal `json:"runningBalance"`
	Description        string          `json:"description"`
	Notes              string          `json:"notes"`
	Reconciled         bool            `json:"reconciled"`
	ReconciliationDate *time.Time      `json:"reconciliationDate"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// AccountSummary aggregates the ledger of one account.
type AccountSummary struct {
	AccountID         string          `json:"accountID"`
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	NetFlow           decimal.Decimal `json:"netFlow"`
	TotalEntries      int             `json:"totalEntries"`
	ReconciledEntries int             `json:"reconciledEntries"`
	FinalBalance      decimal.Decimal `json:"finalBalance"`
}

// LedgerVerification is the outcome of a consistency check of one account.
type LedgerVerification struct {
	AccountID         string          `json:"accountID"`
	EntriesChecked    int             `json:"entriesChecked"`
	StoredBalance     decimal.Decimal `json:"storedBalance"`
	RecomputedBalance decimal.Decimal `json:"recomputedBalance"`
	FirstBrokenEntry  *string         `json:"firstBrokenEntry,omitempty"`
	Consistent        bool            `json:"consistent"`
}
