package services

import (
	"context"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/SscSPs/smart_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts, optionally only active ones.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)

	// GetBalance returns current, opening and net change of an account.
	GetBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount applies the whitelisted patch (name, type, active flag).
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// ResolveOrCreateAccount maps statement metadata to an account ID, creating the
	// account on first sight of its number. nil info resolves to the default account.
	ResolveOrCreateAccount(ctx context.Context, info *domain.AccountInfo) (string, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
