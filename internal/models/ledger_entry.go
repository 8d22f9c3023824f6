package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the row shape of the ledger_entries table.
type LedgerEntry struct {
	EntryID            string          `db:"entry_id"`
	AccountID          string          `db:"account_id"`
	TransactionID      string          `db:"transaction_id"`
	EntryDate          time.Time       `db:"entry_date"`
	EntryType          string          `db:"entry_type"`
	Amount             decimal.Decimal `db:"amount"`
	RunningBalance     decimal.Decimal `db:"running_balance"`
	Description        string          `db:"description"`
	Notes              string          `db:"notes"`
	Reconciled         bool            `db:"reconciled"`
	ReconciliationDate *time.Time      `db:"reconciliation_date"`
	CreatedAt          time.Time       `db:"created_at"`
}
