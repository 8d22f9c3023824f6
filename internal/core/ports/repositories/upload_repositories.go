package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// UploadRepository persists ingestion batches and their status transitions.
type UploadRepository interface {
	CreateUpload(ctx context.Context, upload domain.Upload) error
	FindUploadByID(ctx context.Context, uploadID string) (*domain.Upload, error)
	ListUploads(ctx context.Context, limit int, offset int) ([]domain.Upload, error)

	// AttachAccount ties the batch to the account its rows belong to.
	AttachAccount(ctx context.Context, uploadID string, accountID string, now time.Time) error
	SetArchiveURI(ctx context.Context, uploadID string, uri string, now time.Time) error

	// MarkCompleted and MarkFailed only move an upload out of processing;
	// any other current status yields apperrors.ErrConflict.
	MarkCompleted(ctx context.Context, uploadID string, transactionCount int, postedCount int, now time.Time) error
	MarkFailed(ctx context.Context, uploadID string, message string, now time.Time) error
}
