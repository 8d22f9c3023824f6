package repositories

import (
	"context"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves the account carrying an external account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccounts retrieves all accounts ordered by name.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A clash on account_number yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// EnsureAccount inserts the account unless a row with the same ID exists.
	EnsureAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount writes the mutable fields (name, type, active flag, updated_at).
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
