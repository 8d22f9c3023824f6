package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/SscSPs/smart_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// FindEntryByID retrieves one ledger entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// FindEntriesByAccount returns entries in (entry_date, created_at) order, optionally date bounded.
	FindEntriesByAccount(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error)

	// ListEntriesPage returns up to limit entries after the cursor in ascending order.
	ListEntriesPage(ctx context.Context, accountID string, from, to *time.Time, limit int, after *pagination.Cursor) ([]domain.LedgerEntry, error)

	// FindLastEntryOnOrBefore returns the latest entry dated on or before at (any date when
	// at is nil), or ErrNotFound.
	FindLastEntryOnOrBefore(ctx context.Context, accountID string, at *time.Time) (*domain.LedgerEntry, error)
}

// LedgerWriter defines the mutating ledger operations. Each runs in one database transaction
// holding a row lock on the account.
type LedgerWriter interface {
	// PostEntry appends entry for its transaction, computes its running balance from the
	// predecessor entry (or the opening balance), links the transaction and recomputes the
	// account balance. When the transaction is already posted the existing entry is
	// returned with created=false.
	PostEntry(ctx context.Context, entry domain.LedgerEntry) (stored *domain.LedgerEntry, created bool, err error)

	// RecomputeBalance sets current_balance to opening_balance plus all signed entries.
	RecomputeBalance(ctx context.Context, accountID string, now time.Time) (decimal.Decimal, error)

	// ReconcileEntry marks an entry and its transaction reconciled. changed is false when it
	// already was.
	ReconcileEntry(ctx context.Context, entryID string, at time.Time) (changed bool, err error)
}

// LedgerRepositoryFacade combines ledger reads and writes
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
