package services

import (
	"context"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/SscSPs/smart_ledger/internal/dto"
)

// IngestionSvc coordinates storing and posting a batch of extracted transactions
type IngestionSvc interface {
	// Ingest runs the ingestion stages for an upload. Stage 1-4 failures mark the
	// upload failed and return an error; posting failures are row errors.
	Ingest(ctx context.Context, uploadID string, raw []domain.RawTransaction, info *domain.AccountInfo) (*domain.IngestionResult, error)

	// RecordManualTransaction stores one hand-entered transaction and posts it.
	RecordManualTransaction(ctx context.Context, req dto.CreateManualTransactionRequest) (*domain.Transaction, *domain.LedgerEntry, error)

	// RetryUnposted posts every stored transaction of the account that has no entry yet.
	RetryUnposted(ctx context.Context, accountID string) (*domain.IngestionResult, error)
}

// UploadSvc runs the statement file pipeline and exposes upload status
type UploadSvc interface {
	// ProcessStatement archives, decodes, categorizes and ingests a statement file.
	ProcessStatement(ctx context.Context, fileName string, data []byte) (*dto.StatementResult, error)
	GetUpload(ctx context.Context, uploadID string) (*domain.Upload, error)
	ListUploads(ctx context.Context, limit int, offset int) ([]domain.Upload, error)
}
