package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row shape of the transactions table.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UploadID      *string         `db:"upload_id"`
	AccountID     string          `db:"account_id"`
	Date          *time.Time      `db:"txn_date"`
	RawDate       string          `db:"raw_date"`
	Description   string          `db:"description"`
	Amount        decimal.Decimal `db:"amount"`
	Type          string          `db:"txn_type"`
	CategoryCode  string          `db:"category_code"`
	Confidence    float64         `db:"confidence"`
	Counterparty  string          `db:"counterparty"`
	Reasoning     string          `db:"reasoning"`
	Notes         string          `db:"notes"`
	IsManual      bool            `db:"is_manual"`
	Reconciled    bool            `db:"reconciled"`
	LedgerEntryID *string         `db:"ledger_entry_id"`
	PostingError  string          `db:"posting_error"`
	AuditFields
}
