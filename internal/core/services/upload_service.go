package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/SscSPs/smart_ledger/internal/utils/pagination"
	"github.com/google/uuid"
)

// DefaultMaxUploadBytes bounds uploaded statement files.
const DefaultMaxUploadBytes = 10 << 20

var acceptedFileTypes = map[string]bool{
	"csv":  true,
	"txt":  true,
	"xlsx": true,
}

// ErrNotFinancialData is returned when the categorizer finds no statement in a file.
var ErrNotFinancialData = errors.New("file does not contain financial data")

// uploadService runs the statement pipeline: archive, decode, categorize, ingest.
type uploadService struct {
	BaseService
	uploadRepo  portsrepo.UploadRepository
	decoder     portssvc.StatementDecoder
	categorizer portssvc.Categorizer
	archive     portssvc.FileArchive
	ingestion   portssvc.IngestionSvc
	events      portssvc.EventPublisher
	maxBytes    int64
}

// NewUploadService creates the statement upload pipeline. archive and events may be nil.
func NewUploadService(
	uploadRepo portsrepo.UploadRepository,
	decoder portssvc.StatementDecoder,
	categorizer portssvc.Categorizer,
	archive portssvc.FileArchive,
	ingestion portssvc.IngestionSvc,
	events portssvc.EventPublisher,
	maxBytes int64,
	opts ...Option,
) portssvc.UploadSvc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	svc := &uploadService{
		uploadRepo:  uploadRepo,
		decoder:     decoder,
		categorizer: categorizer,
		archive:     archive,
		ingestion:   ingestion,
		events:      events,
		maxBytes:    maxBytes,
	}
	applyOptions(&svc.BaseService, opts)
	return svc
}

var _ portssvc.UploadSvc = (*uploadService)(nil)

func (s *uploadService) ProcessStatement(ctx context.Context, fileName string, data []byte) (*dto.StatementResult, error) {
	fileType := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if fileType == "xls" {
		return nil, apperrors.NewValidationError("legacy .xls files are not supported, save the statement as .xlsx or .csv")
	}
	if !acceptedFileTypes[fileType] {
		return nil, apperrors.NewValidationError("unsupported file type %q", fileType)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, apperrors.NewValidationError("file exceeds %d bytes", s.maxBytes)
	}

	now := s.Now()
	upload := domain.Upload{
		UploadID:    uuid.NewString(),
		FileName:    filepath.Base(fileName),
		FileType:    fileType,
		Status:      domain.UploadProcessing,
		AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.uploadRepo.CreateUpload(ctx, upload); err != nil {
		s.LogError(ctx, err, "Failed to create upload", slog.String("file_name", upload.FileName))
		return nil, err
	}
	// The upload record exists now; a disconnecting client must not leave it processing.
	ctx = context.WithoutCancel(ctx)
	logger := s.GetLogger(ctx).With(slog.String("upload_id", upload.UploadID))
	logger.Info("Statement upload received",
		slog.String("file_name", upload.FileName),
		slog.Int("bytes", len(data)))

	s.archiveRaw(ctx, upload, data)

	content, err := s.decoder.Decode(ctx, upload.FileName, data)
	if err != nil {
		return nil, s.fail(ctx, upload.UploadID, "decode", err)
	}

	analysis, err := s.categorizer.Analyze(ctx, content, domain.Categories())
	if err != nil {
		return nil, s.fail(ctx, upload.UploadID, "categorize", err)
	}
	if !analysis.IsFinancialData {
		return nil, s.fail(ctx, upload.UploadID, "categorize", fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrNotFinancialData))
	}

	if len(analysis.Rejected) > 0 {
		logger.Warn("Categorizer rows rejected", slog.Int("rejected", len(analysis.Rejected)))
	}
	result, err := s.ingestion.Ingest(ctx, upload.UploadID, analysis.Transactions, analysis.Account)
	if err != nil {
		return nil, err
	}
	if len(analysis.Rejected) > 0 {
		result.RowErrors = append(append([]domain.RowError{}, analysis.Rejected...), result.RowErrors...)
	}

	return &dto.StatementResult{
		Ingestion: result,
		Summary:   analysis.Summary,
		Analysis:  analysis.Analysis,
	}, nil
}

// archiveRaw keeps the original bytes; a failing archive does not stop ingestion.
func (s *uploadService) archiveRaw(ctx context.Context, upload domain.Upload, data []byte) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("uploads/%s/%s", upload.UploadID, upload.FileName)
	uri, err := s.archive.Store(ctx, key, data)
	if err != nil {
		s.LogWarn(ctx, "Failed to archive statement",
			slog.String("upload_id", upload.UploadID),
			slog.String("error", err.Error()))
		return
	}
	if err := s.uploadRepo.SetArchiveURI(ctx, upload.UploadID, uri, s.Now()); err != nil {
		s.LogWarn(ctx, "Failed to record archive location",
			slog.String("upload_id", upload.UploadID),
			slog.String("error", err.Error()))
	}
}

func (s *uploadService) fail(ctx context.Context, uploadID, stage string, cause error) error {
	s.LogError(ctx, cause, "Statement processing failed",
		slog.String("upload_id", uploadID),
		slog.String("stage", stage))
	if err := s.uploadRepo.MarkFailed(context.WithoutCancel(ctx), uploadID, cause.Error(), s.Now()); err != nil {
		s.LogWarn(ctx, "Failed to mark upload failed",
			slog.String("upload_id", uploadID),
			slog.String("error", err.Error()))
	}
	if s.events != nil {
		s.events.Enqueue(systemDistinctID, "statement_failed", map[string]any{"upload_id": uploadID, "stage": stage})
	}
	return fmt.Errorf("%s: %w", stage, cause)
}

func (s *uploadService) GetUpload(ctx context.Context, uploadID string) (*domain.Upload, error) {
	upload, err := s.uploadRepo.FindUploadByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("upload " + uploadID)
		}
		s.LogError(ctx, err, "Failed to find upload", slog.String("upload_id", uploadID))
		return nil, err
	}
	return upload, nil
}

func (s *uploadService) ListUploads(ctx context.Context, limit int, offset int) ([]domain.Upload, error) {
	limit = pagination.ClampLimit(limit, 50, 500)
	if offset < 0 {
		offset = 0
	}
	uploads, err := s.uploadRepo.ListUploads(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list uploads")
		return nil, err
	}
	if uploads == nil {
		return []domain.Upload{}, nil
	}
	return uploads, nil
}
