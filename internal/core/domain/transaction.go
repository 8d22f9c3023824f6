package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a cash movement.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// DefaultConfidence is assigned when the categorizer omits a score.
const DefaultConfidence = 0.5

// Transaction is one stored statement row.
// Date, Amount, Type and Description are immutable after insertion.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	UploadID      *string         `json:"uploadID"` // nil for manual entries
	AccountID     string          `json:"accountID"`
	Date          *time.Time      `json:"date"` // nil when RawDate could not be normalized
	RawDate       string          `json:"rawDate"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"` // magnitude; sign carried by Type
	Type          TransactionType `json:"type"`
	CategoryCode  string          `json:"categoryCode"`
	Confidence    float64         `json:"confidence"`
	Counterparty  string          `json:"counterparty"`
	Reasoning     string          `json:"reasoning"`
	Notes         string          `json:"notes"`
	IsManual      bool            `json:"isManual"`
	Reconciled    bool            `json:"reconciled"`
	LedgerEntryID *string         `json:"ledgerEntryID"`
	PostingError  string          `json:"postingError"`
	AuditFields
}

// IsPosted reports whether the transaction has a ledger entry.
func (t Transaction) IsPosted() bool {
	return t.LedgerEntryID != nil && *t.LedgerEntryID != ""
}

// RawTransaction is an untrusted candidate row produced by the categorizer
// or by manual entry. Only Date, Description, Amount and Type are expected;
// everything else is defaulted by the transaction store. Notes and Manual are
// only set for hand-entered rows.
type RawTransaction struct {
	ExternalID   string
	Date         string
	Description  string
	Amount       decimal.Decimal
	Type         string
	CategoryCode string
	Confidence   *float64
	Counterparty string
	Reasoning    string
	Notes        string
	Manual       bool
}

// TransactionFilter narrows a transaction query.
type TransactionFilter struct {
	AccountID    *string
	UploadID     *string
	CategoryCode *string
	Type         *TransactionType
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       *string
	Posted       *bool
	Limit        int
	Offset       int
}

// TransactionUpdate is the manual correction patch.
type TransactionUpdate struct {
	CategoryCode *string
	Notes        *string
}
