package services

import (
	"context"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerPosterSvc turns stored transactions into ledger entries
type LedgerPosterSvc interface {
	// PostTransaction posts one transaction. Posting an already posted transaction
	// returns its existing entry.
	PostTransaction(ctx context.Context, transactionID string) (*domain.LedgerEntry, error)
}

// LedgerReaderSvc defines read operations over an account ledger
type LedgerReaderSvc interface {
	GetEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListLedger returns entries in ascending order with an optional continuation token.
	ListLedger(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// ReconciliationSvc recomputes, verifies and reconciles account ledgers
type ReconciliationSvc interface {
	// RecomputeBalance recalculates current_balance from the ledger. Idempotent.
	RecomputeBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// ReconcileEntry marks an entry reconciled on date (now when nil). Idempotent.
	ReconcileEntry(ctx context.Context, entryID string, date *time.Time) (*domain.LedgerEntry, error)

	// GetAccountSummary aggregates ledger entries, optionally date bounded.
	GetAccountSummary(ctx context.Context, accountID string, from, to *time.Time) (*domain.AccountSummary, error)

	// VerifyAccount checks the prefix-sum and current balance invariants.
	VerifyAccount(ctx context.Context, accountID string) (*domain.LedgerVerification, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerPosterSvc
	LedgerReaderSvc
	ReconciliationSvc
}
