package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/utils/accounting"
	"github.com/SscSPs/smart_ledger/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultLedgerPageSize = 100
	maxLedgerPageSize     = 1000
)

// ledgerService posts transactions and maintains account balances.
type ledgerService struct {
	BaseService
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountReader
	locker          portssvc.AccountLocker
}

// NewLedgerService creates the ledger poster and reconciler.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	locker portssvc.AccountLocker,
	opts ...Option,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		locker:          locker,
	}
	applyOptions(&svc.BaseService, opts)
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostTransaction appends the ledger entry of a stored transaction. The account
// lock is held around the database transaction, which locks the account row again.
func (s *ledgerService) PostTransaction(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID)
		}
		s.LogError(ctx, err, "Failed to load transaction for posting", slog.String("transaction_id", transactionID))
		return nil, err
	}
	if txn.IsPosted() {
		return s.ledgerRepo.FindEntryByID(ctx, *txn.LedgerEntryID)
	}
	if txn.Date == nil {
		return nil, apperrors.NewValidationError("transaction %s has no valid date (raw %q)", transactionID, txn.RawDate)
	}

	unlock, err := s.locker.Lock(ctx, txn.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to acquire account lock", slog.String("account_id", txn.AccountID))
		err = fmt.Errorf("failed to lock account %s: %w", txn.AccountID, err)
		s.recordPostingError(ctx, transactionID, err)
		return nil, err
	}
	defer unlock()

	entry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		AccountID:     txn.AccountID,
		TransactionID: txn.TransactionID,
		EntryDate:     *txn.Date,
		EntryType:     txn.Type,
		Amount:        txn.Amount.Abs(),
		Description:   truncateRunes(txn.Description, domain.MaxEntryDescriptionLength),
		Notes:         txn.Reasoning,
		CreatedAt:     s.Now(),
	}

	stored, created, err := s.ledgerRepo.PostEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to post transaction",
			slog.String("transaction_id", transactionID),
			slog.String("account_id", txn.AccountID))
		s.recordPostingError(ctx, transactionID, err)
		return nil, err
	}

	if created {
		s.LogInfo(ctx, "Transaction posted",
			slog.String("transaction_id", transactionID),
			slog.String("entry_id", stored.EntryID),
			slog.String("running_balance", stored.RunningBalance.String()))
	} else {
		s.LogDebug(ctx, "Transaction already posted", slog.String("transaction_id", transactionID))
	}
	return stored, nil
}

// recordPostingError is best effort; the post has already been rolled back.
func (s *ledgerService) recordPostingError(ctx context.Context, transactionID string, cause error) {
	if err := s.transactionRepo.SetPostingError(context.WithoutCancel(ctx), transactionID, cause.Error(), s.Now()); err != nil {
		s.LogWarn(ctx, "Failed to record posting error",
			slog.String("transaction_id", transactionID),
			slog.String("error", err.Error()))
	}
}

func (s *ledgerService) GetEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find ledger entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListLedger(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, nil, err
	}

	limit = pagination.ClampLimit(limit, defaultLedgerPageSize, maxLedgerPageSize)
	var after *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = &cursor
	}

	// One extra row tells whether another page exists.
	entries, err := s.ledgerRepo.ListEntriesPage(ctx, accountID, from, to, limit+1, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger", slog.String("account_id", accountID))
		return nil, nil, err
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.EntryID})
		next = &token
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return entries, next, nil
}

func (s *ledgerService) RecomputeBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	unlock, err := s.locker.Lock(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	defer unlock()

	balance, err := s.ledgerRepo.RecomputeBalance(ctx, accountID, s.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to recompute balance", slog.String("account_id", accountID))
		}
		return decimal.Zero, err
	}
	s.LogInfo(ctx, "Balance recomputed",
		slog.String("account_id", accountID),
		slog.String("balance", balance.String()))
	return balance, nil
}

// ReconcileEntry marks the entry reconciled. A repeated call keeps the first date.
func (s *ledgerService) ReconcileEntry(ctx context.Context, entryID string, date *time.Time) (*domain.LedgerEntry, error) {
	at := s.Now()
	if date != nil {
		at = date.UTC()
	}

	changed, err := s.ledgerRepo.ReconcileEntry(ctx, entryID, at)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to reconcile entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if changed {
		s.LogInfo(ctx, "Ledger entry reconciled", slog.String("entry_id", entryID))
	}
	return s.ledgerRepo.FindEntryByID(ctx, entryID)
}

func (s *ledgerService) GetAccountSummary(ctx context.Context, accountID string, from, to *time.Time) (*domain.AccountSummary, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.FindEntriesByAccount(ctx, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for summary", slog.String("account_id", accountID))
		return nil, err
	}
	// An empty window still closes at the balance carried in from earlier entries.
	fallback := account.OpeningBalance
	if len(entries) == 0 && (from != nil || to != nil) {
		last, err := s.ledgerRepo.FindLastEntryOnOrBefore(ctx, accountID, to)
		switch {
		case err == nil:
			fallback = last.RunningBalance
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to load balance before summary window", slog.String("account_id", accountID))
			return nil, err
		}
	}
	summary := accounting.SummarizeEntries(accountID, entries, fallback)
	return &summary, nil
}

func (s *ledgerService) VerifyAccount(ctx context.Context, accountID string) (*domain.LedgerVerification, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.FindEntriesByAccount(ctx, accountID, nil, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for verification", slog.String("account_id", accountID))
		return nil, err
	}

	broken, err := accounting.VerifyLedger(account.OpeningBalance, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ledger of account %s: %w", accountID, err)
	}
	recomputed, err := accounting.CurrentBalance(account.OpeningBalance, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ledger of account %s: %w", accountID, err)
	}

	result := &domain.LedgerVerification{
		AccountID:         accountID,
		EntriesChecked:    len(entries),
		StoredBalance:     account.CurrentBalance,
		RecomputedBalance: recomputed,
		Consistent:        broken < 0 && recomputed.Equal(account.CurrentBalance),
	}
	if broken >= 0 {
		id := entries[broken].EntryID
		result.FirstBrokenEntry = &id
	}
	if !result.Consistent {
		s.LogWarn(ctx, "Ledger inconsistency detected",
			slog.String("account_id", accountID),
			slog.String("stored_balance", account.CurrentBalance.String()),
			slog.String("recomputed_balance", recomputed.String()))
	}
	return result, nil
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
