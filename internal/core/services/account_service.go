package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultAccountName = "Default Account"

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, opts ...Option) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	applyOptions(&svc.BaseService, opts)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}

	account := s.newAccount(req.AccountNumber, req.Name, req.AccountType, req.CurrencyCode, opening)
	if !domain.IsValidAccountType(account.AccountType) {
		return nil, apperrors.NewValidationError("invalid account type %q", account.AccountType)
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("account_number", account.AccountNumber))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) GetBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &domain.AccountBalance{
		AccountID: account.AccountID,
		Current:   account.CurrentBalance,
		Opening:   account.OpeningBalance,
		NetChange: account.CurrentBalance.Sub(account.OpeningBalance),
	}, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("account name cannot be empty")
		}
		account.Name = name
	}
	if req.AccountType != nil {
		t := domain.AccountType(strings.ToLower(*req.AccountType))
		if !domain.IsValidAccountType(t) {
			return nil, apperrors.NewValidationError("invalid account type %q", *req.AccountType)
		}
		account.AccountType = t
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.UpdatedAt = s.Now()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// ResolveOrCreateAccount maps statement metadata onto an account. The unique
// index on account_number decides concurrent first sightings; the loser re-reads
// the winner's row.
func (s *accountService) ResolveOrCreateAccount(ctx context.Context, info *domain.AccountInfo) (string, error) {
	if info == nil || (strings.TrimSpace(info.AccountNumber) == "" && strings.TrimSpace(info.AccountName) == "") {
		return s.ensureDefaultAccount(ctx)
	}

	number := strings.TrimSpace(info.AccountNumber)
	if number != "" {
		existing, err := s.findActiveByNumber(ctx, number)
		if err == nil {
			return existing.AccountID, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
	}

	name := strings.TrimSpace(info.AccountName)
	if name == "" {
		name = "Account " + number
	}
	account := s.newAccount(number, name, info.AccountType, info.Currency, decimal.Zero)
	if !domain.IsValidAccountType(account.AccountType) {
		account.AccountType = domain.Checking
	}

	err := s.accountRepo.SaveAccount(ctx, account)
	if err == nil {
		s.LogInfo(ctx, "Account created from statement",
			slog.String("account_id", account.AccountID),
			slog.String("account_number", number))
		return account.AccountID, nil
	}
	if number != "" && errors.Is(err, apperrors.ErrDuplicate) {
		s.LogDebug(ctx, "Account number claimed concurrently, re-reading", slog.String("account_number", number))
		winner, lookupErr := s.findActiveByNumber(ctx, number)
		if lookupErr != nil {
			return "", lookupErr
		}
		return winner.AccountID, nil
	}

	s.LogError(ctx, err, "Failed to create account from statement", slog.String("account_number", number))
	return "", err
}

func (s *accountService) findActiveByNumber(ctx context.Context, number string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.NewValidationError("account %s is inactive", number)
	}
	return account, nil
}

func (s *accountService) ensureDefaultAccount(ctx context.Context) (string, error) {
	account := s.newAccount("", defaultAccountName, "", "", decimal.Zero)
	account.AccountID = domain.DefaultAccountID
	if err := s.accountRepo.EnsureAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to ensure default account")
		return "", err
	}
	return domain.DefaultAccountID, nil
}

// newAccount applies the registry defaults: checking, EUR, current = opening.
func (s *accountService) newAccount(number, name, accountType, currency string, opening decimal.Decimal) domain.Account {
	now := s.Now()
	t := domain.AccountType(strings.ToLower(strings.TrimSpace(accountType)))
	if t == "" {
		t = domain.Checking
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return domain.Account{
		AccountID:      uuid.NewString(),
		AccountNumber:  strings.TrimSpace(number),
		Name:           strings.TrimSpace(name),
		AccountType:    t,
		CurrencyCode:   currency,
		OpeningBalance: opening,
		CurrentBalance: opening,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
