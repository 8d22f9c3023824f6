package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/utils/dates"
	"github.com/SscSPs/smart_ledger/internal/utils/pagination"
	"github.com/google/uuid"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 500
)

// transactionService stores and annotates statement rows.
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, opts ...Option) portssvc.TransactionSvcFacade {
	svc := &transactionService{transactionRepo: repo}
	applyOptions(&svc.BaseService, opts)
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) QueryTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	filter.Limit = pagination.ClampLimit(filter.Limit, defaultTransactionLimit, maxTransactionLimit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	txns, err := s.transactionRepo.QueryTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to query transactions")
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// InsertBatch normalizes every raw row and stores the batch atomically. Rows
// keep their input order through strictly increasing created_at values.
func (s *transactionService) InsertBatch(ctx context.Context, raw []domain.RawTransaction, uploadID *string, accountID string) ([]domain.Transaction, []domain.RowError, error) {
	if accountID == "" {
		return nil, nil, apperrors.NewValidationError("account id is required")
	}
	if len(raw) == 0 {
		return []domain.Transaction{}, nil, nil
	}

	now := s.Now()
	txns := make([]domain.Transaction, 0, len(raw))
	var rowErrors []domain.RowError

	for i, r := range raw {
		created := now.Add(time.Duration(i) * time.Microsecond)
		txn, normErr := normalizeRaw(r, accountID, uploadID, created)
		if normErr != nil {
			txn.PostingError = normErr.Error()
			rowErrors = append(rowErrors, domain.RowError{
				Index:         i,
				TransactionID: txn.TransactionID,
				Stage:         domain.StageNormalize,
				Message:       normErr.Error(),
			})
		}
		txns = append(txns, txn)
	}

	if err := s.transactionRepo.InsertBatch(ctx, txns); err != nil {
		s.LogError(ctx, err, "Failed to insert transaction batch",
			slog.String("account_id", accountID),
			slog.Int("rows", len(txns)))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transaction batch stored",
		slog.String("account_id", accountID),
		slog.Int("rows", len(txns)),
		slog.Int("row_errors", len(rowErrors)))
	return txns, rowErrors, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, patch domain.TransactionUpdate) (*domain.Transaction, error) {
	if patch.CategoryCode == nil && patch.Notes == nil {
		return nil, apperrors.NewValidationError("nothing to update")
	}
	if patch.CategoryCode != nil {
		category, ok := domain.LookupCategory(*patch.CategoryCode)
		if !ok {
			return nil, apperrors.NewValidationError("unknown category code %q", *patch.CategoryCode)
		}
		code := category.Code
		patch.CategoryCode = &code
	}

	if err := s.transactionRepo.UpdateTransactionAnnotations(ctx, transactionID, patch, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction annotated", slog.String("transaction_id", transactionID))
	return s.GetTransactionByID(ctx, transactionID)
}

// normalizeRaw applies the storage defaults to an untrusted row. The returned
// transaction is always storable; err reports a date that could not be parsed.
func normalizeRaw(r domain.RawTransaction, accountID string, uploadID *string, created time.Time) (domain.Transaction, error) {
	txnType := domain.TransactionType(strings.ToUpper(strings.TrimSpace(r.Type)))
	if txnType != domain.Credit && txnType != domain.Debit {
		txnType = domain.Debit
	}

	confidence := domain.DefaultConfidence
	if r.Confidence != nil && !math.IsNaN(*r.Confidence) {
		confidence = math.Min(1, math.Max(0, *r.Confidence))
	}

	categoryCode := domain.UncategorizedFor(txnType)
	if category, ok := domain.LookupCategory(r.CategoryCode); ok {
		categoryCode = category.Code
	} else if strings.TrimSpace(r.CategoryCode) != "" {
		confidence = math.Min(confidence, domain.DefaultConfidence)
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UploadID:      uploadID,
		AccountID:     accountID,
		RawDate:       strings.TrimSpace(r.Date),
		Description:   r.Description,
		Amount:        r.Amount.Abs(),
		Type:          txnType,
		CategoryCode:  categoryCode,
		Confidence:    confidence,
		Counterparty:  strings.TrimSpace(r.Counterparty),
		Reasoning:     strings.TrimSpace(r.Reasoning),
		Notes:         r.Notes,
		IsManual:      r.Manual,
		AuditFields: domain.AuditFields{
			CreatedAt: created,
			UpdatedAt: created,
		},
	}

	date, err := dates.Normalize(r.Date)
	if err != nil {
		return txn, err
	}
	txn.Date = &date
	return txn, nil
}
