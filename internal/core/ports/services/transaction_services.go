package services

import (
	"context"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// TransactionReaderSvc defines read operations over stored transactions
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	QueryTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations over stored transactions
type TransactionWriterSvc interface {
	// InsertBatch normalizes raw rows and stores them atomically. Rows whose date
	// cannot be normalized are stored unposted and reported as row errors.
	InsertBatch(ctx context.Context, raw []domain.RawTransaction, uploadID *string, accountID string) ([]domain.Transaction, []domain.RowError, error)

	// UpdateTransaction applies a manual category/notes correction.
	UpdateTransaction(ctx context.Context, transactionID string, patch domain.TransactionUpdate) (*domain.Transaction, error)
}

// TransactionSvcFacade combines transaction reads and writes
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
