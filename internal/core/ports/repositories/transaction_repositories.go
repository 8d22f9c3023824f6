package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// TransactionReader defines read operations for stored statement rows
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// QueryTransactions applies the filter, newest first.
	QueryTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// FindUnpostedByAccount returns rows without a ledger entry in insertion order.
	FindUnpostedByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for stored statement rows
type TransactionWriter interface {
	// InsertBatch stores all rows in a single database transaction.
	InsertBatch(ctx context.Context, transactions []domain.Transaction) error

	// UpdateTransactionAnnotations writes category/notes and flags the row as manually edited.
	UpdateTransactionAnnotations(ctx context.Context, transactionID string, patch domain.TransactionUpdate, now time.Time) error

	// SetPostingError records why a row could not be posted.
	SetPostingError(ctx context.Context, transactionID string, message string, now time.Time) error
}

// TransactionRepositoryFacade combines transaction reads and writes
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
