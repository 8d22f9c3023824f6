package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/SscSPs/smart_ledger/internal/utils/dates"
)

const systemDistinctID = "smart-ledger"

// ingestionService drives an extracted batch through storage and posting.
type ingestionService struct {
	BaseService
	uploadRepo      portsrepo.UploadRepository
	transactionRepo portsrepo.TransactionReader
	accountSvc      portssvc.AccountSvcFacade
	transactionSvc  portssvc.TransactionSvcFacade
	poster          portssvc.LedgerPosterSvc
	events          portssvc.EventPublisher
}

// NewIngestionService creates the ingestion coordinator. events may be nil.
func NewIngestionService(
	uploadRepo portsrepo.UploadRepository,
	transactionRepo portsrepo.TransactionReader,
	accountSvc portssvc.AccountSvcFacade,
	transactionSvc portssvc.TransactionSvcFacade,
	poster portssvc.LedgerPosterSvc,
	events portssvc.EventPublisher,
	opts ...Option,
) portssvc.IngestionSvc {
	svc := &ingestionService{
		uploadRepo:      uploadRepo,
		transactionRepo: transactionRepo,
		accountSvc:      accountSvc,
		transactionSvc:  transactionSvc,
		poster:          poster,
		events:          events,
	}
	applyOptions(&svc.BaseService, opts)
	return svc
}

var _ portssvc.IngestionSvc = (*ingestionService)(nil)

// Ingest stores and posts one batch. Failures before the rows are stored mark
// the upload failed; posting failures only produce row errors. Once started,
// the batch is not cancelled with ctx: it ends completed or failed.
func (s *ingestionService) Ingest(ctx context.Context, uploadID string, raw []domain.RawTransaction, info *domain.AccountInfo) (*domain.IngestionResult, error) {
	ctx = context.WithoutCancel(ctx)
	logger := s.GetLogger(ctx).With(slog.String("upload_id", uploadID))

	// 1. processing
	if err := s.ensureProcessing(ctx, uploadID); err != nil {
		return nil, err
	}

	// 2. account
	accountID, err := s.accountSvc.ResolveOrCreateAccount(ctx, info)
	if err != nil {
		return nil, s.fail(ctx, uploadID, "resolve account", err)
	}

	// 3. tie the upload to the account
	if err := s.uploadRepo.AttachAccount(ctx, uploadID, accountID, s.Now()); err != nil {
		return nil, s.fail(ctx, uploadID, "attach account", err)
	}

	// 4. store
	id := uploadID
	stored, rowErrors, err := s.transactionSvc.InsertBatch(ctx, raw, &id, accountID)
	if err != nil {
		return nil, s.fail(ctx, uploadID, "store transactions", err)
	}

	// 5. post in input order
	posted, postErrors := s.postAll(ctx, stored)
	rowErrors = append(rowErrors, postErrors...)

	// 6. completed
	if err := s.uploadRepo.MarkCompleted(ctx, uploadID, len(stored), posted, s.Now()); err != nil {
		return nil, s.fail(ctx, uploadID, "mark completed", err)
	}

	result := &domain.IngestionResult{
		UploadID:         uploadID,
		AccountID:        accountID,
		TransactionCount: len(stored),
		PostedCount:      posted,
		RowErrors:        nonNilRowErrors(rowErrors),
	}
	logger.Info("Upload ingested",
		slog.String("account_id", accountID),
		slog.Int("transaction_count", result.TransactionCount),
		slog.Int("posted_count", result.PostedCount),
		slog.Int("row_errors", len(result.RowErrors)))
	s.publish("statement_ingested", map[string]any{
		"upload_id":         uploadID,
		"account_id":        accountID,
		"transaction_count": result.TransactionCount,
		"posted_count":      result.PostedCount,
		"row_errors":        len(result.RowErrors),
	})
	return result, nil
}

func (s *ingestionService) ensureProcessing(ctx context.Context, uploadID string) error {
	upload, err := s.uploadRepo.FindUploadByID(ctx, uploadID)
	switch {
	case err == nil:
		if upload.Status != domain.UploadProcessing {
			return fmt.Errorf("%w: upload %s is already %s", apperrors.ErrConflict, uploadID, upload.Status)
		}
		return nil
	case errors.Is(err, apperrors.ErrNotFound):
		now := s.Now()
		return s.uploadRepo.CreateUpload(ctx, domain.Upload{
			UploadID:    uploadID,
			Status:      domain.UploadProcessing,
			AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
		})
	default:
		return err
	}
}

// fail marks the upload failed and returns cause wrapped with the stage name.
func (s *ingestionService) fail(ctx context.Context, uploadID, stage string, cause error) error {
	s.LogError(ctx, cause, "Ingestion failed",
		slog.String("upload_id", uploadID),
		slog.String("stage", stage))
	if err := s.uploadRepo.MarkFailed(context.WithoutCancel(ctx), uploadID, cause.Error(), s.Now()); err != nil {
		s.LogWarn(ctx, "Failed to mark upload failed",
			slog.String("upload_id", uploadID),
			slog.String("error", err.Error()))
	}
	s.publish("statement_failed", map[string]any{"upload_id": uploadID, "stage": stage})
	return fmt.Errorf("%s: %w", stage, cause)
}

// postAll posts every dated transaction; undated rows were already reported
// at normalization.
func (s *ingestionService) postAll(ctx context.Context, txns []domain.Transaction) (int, []domain.RowError) {
	posted := 0
	var rowErrors []domain.RowError
	for i, txn := range txns {
		if txn.Date == nil {
			continue
		}
		if _, err := s.poster.PostTransaction(ctx, txn.TransactionID); err != nil {
			rowErrors = append(rowErrors, domain.RowError{
				Index:         i,
				TransactionID: txn.TransactionID,
				Stage:         domain.StagePost,
				Message:       err.Error(),
			})
			continue
		}
		posted++
	}
	return posted, rowErrors
}

// RecordManualTransaction stores a hand-entered row without an upload and posts it.
func (s *ingestionService) RecordManualTransaction(ctx context.Context, req dto.CreateManualTransactionRequest) (*domain.Transaction, *domain.LedgerEntry, error) {
	if _, err := dates.Normalize(req.Date); err != nil {
		return nil, nil, apperrors.NewValidationError("invalid date %q", req.Date)
	}
	if req.Amount.IsZero() {
		return nil, nil, apperrors.NewValidationError("amount must not be zero")
	}

	var accountID string
	if req.AccountID != nil && *req.AccountID != "" {
		account, err := s.accountSvc.GetAccountByID(ctx, *req.AccountID)
		if err != nil {
			return nil, nil, err
		}
		if !account.IsActive {
			return nil, nil, apperrors.NewValidationError("account %s is inactive", account.AccountID)
		}
		accountID = account.AccountID
	} else {
		id, err := s.accountSvc.ResolveOrCreateAccount(ctx, nil)
		if err != nil {
			return nil, nil, err
		}
		accountID = id
	}

	// Manual flag and notes go in with the insert so the row is written once.
	stored, _, err := s.transactionSvc.InsertBatch(ctx, []domain.RawTransaction{req.ToRaw()}, nil, accountID)
	if err != nil {
		return nil, nil, err
	}
	if len(stored) != 1 {
		return nil, nil, apperrors.NewAppError(500, "manual transaction was not stored", nil)
	}
	txn := &stored[0]

	entry, err := s.poster.PostTransaction(ctx, txn.TransactionID)
	if err != nil {
		// Stored but unposted; RetryUnposted picks it up later.
		txn.PostingError = err.Error()
		return txn, nil, err
	}
	txn.LedgerEntryID = &entry.EntryID
	txn.PostingError = ""

	s.publish("manual_transaction_recorded", map[string]any{
		"account_id":     accountID,
		"transaction_id": txn.TransactionID,
	})
	return txn, entry, nil
}

// RetryUnposted re-posts every transaction of the account still lacking an entry.
func (s *ingestionService) RetryUnposted(ctx context.Context, accountID string) (*domain.IngestionResult, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	pending, err := s.transactionRepo.FindUnpostedByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load unposted transactions", slog.String("account_id", accountID))
		return nil, err
	}

	var rowErrors []domain.RowError
	for i, txn := range pending {
		if txn.Date == nil {
			rowErrors = append(rowErrors, domain.RowError{
				Index:         i,
				TransactionID: txn.TransactionID,
				Stage:         domain.StageNormalize,
				Message:       fmt.Sprintf("unparsable date %q", txn.RawDate),
			})
		}
	}
	posted, postErrors := s.postAll(ctx, pending)
	rowErrors = append(rowErrors, postErrors...)

	s.LogInfo(ctx, "Retried unposted transactions",
		slog.String("account_id", accountID),
		slog.Int("pending", len(pending)),
		slog.Int("posted", posted))
	return &domain.IngestionResult{
		AccountID:        accountID,
		TransactionCount: len(pending),
		PostedCount:      posted,
		RowErrors:        nonNilRowErrors(rowErrors),
	}, nil
}

func (s *ingestionService) publish(event string, props map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(systemDistinctID, event, props)
}

func nonNilRowErrors(errs []domain.RowError) []domain.RowError {
	if errs == nil {
		return []domain.RowError{}
	}
	return errs
}
