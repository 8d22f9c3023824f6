//go:build integration

package pgsql

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/SscSPs/smart_ledger/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/repositories/database/pgsql/
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.RunMigrations(url, "file://../../../../migrations", logger))

	pool, err := database.NewPgxPool(context.Background(), url, true, logger)
	require.NoError(t, err)
	t.Cleanup(func() { database.ClosePgxPool(pool, logger) })
	return pool
}

func seedAccount(t *testing.T, repos *PgxAccountRepository, opening string) domain.Account {
	t.Helper()
	now := time.Now().UTC()
	acc := domain.Account{
		AccountID:      uuid.NewString(),
		AccountNumber:  "IT-" + uuid.NewString()[:8],
		Name:           "Integration",
		AccountType:    domain.Checking,
		CurrencyCode:   "EUR",
		OpeningBalance: decimal.RequireFromString(opening),
		CurrentBalance: decimal.RequireFromString(opening),
		IsActive:       true,
		AuditFields:    domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, repos.SaveAccount(context.Background(), acc))
	return acc
}

func newTxn(accountID, date, amount string, typ domain.TransactionType) domain.Transaction {
	d, _ := time.Parse(domain.ISODate, date)
	now := time.Now().UTC()
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Date:          &d,
		RawDate:       date,
		Description:   "txn " + date,
		Amount:        decimal.RequireFromString(amount),
		Type:          typ,
		CategoryCode:  domain.UncategorizedFor(typ),
		Confidence:    domain.DefaultConfidence,
		AuditFields:   domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
}

func TestPostEntry_BackdatedShiftsLaterSnapshots(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	accounts := newPgxAccountRepository(pool).(*PgxAccountRepository)
	txns := newPgxTransactionRepository(pool)
	ledger := newPgxLedgerRepository(pool)

	acc := seedAccount(t, accounts, "1000")
	jan10 := newTxn(acc.AccountID, "2025-01-10", "100", domain.Credit)
	jan20 := newTxn(acc.AccountID, "2025-01-20", "40", domain.Debit)
	jan15 := newTxn(acc.AccountID, "2025-01-15", "25", domain.Debit)
	require.NoError(t, txns.InsertBatch(ctx, []domain.Transaction{jan10, jan20, jan15}))

	for _, txn := range []domain.Transaction{jan10, jan20, jan15} {
		_, created, err := ledger.PostEntry(ctx, domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			AccountID:     acc.AccountID,
			TransactionID: txn.TransactionID,
			EntryDate:     *txn.Date,
			EntryType:     txn.Type,
			Amount:        txn.Amount,
			Description:   txn.Description,
			CreatedAt:     time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.True(t, created)
	}

	entries, err := ledger.FindEntriesByAccount(ctx, acc.AccountID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	want := []string{"1100", "1075", "1035"}
	for i, e := range entries {
		assert.True(t, decimal.RequireFromString(want[i]).Equal(e.RunningBalance), "entry %d: got %s", i, e.RunningBalance)
	}

	stored, err := accounts.FindAccountByID(ctx, acc.AccountID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1035").Equal(stored.CurrentBalance))

	// Posting the same transaction again returns the existing entry.
	again, created, err := ledger.PostEntry(ctx, domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		AccountID:     acc.AccountID,
		TransactionID: jan10.TransactionID,
		EntryDate:     *jan10.Date,
		EntryType:     jan10.Type,
		Amount:        jan10.Amount,
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, entries[0].EntryID, again.EntryID)

	changed, err := ledger.ReconcileEntry(ctx, entries[1].EntryID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = ledger.ReconcileEntry(ctx, entries[1].EntryID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, changed)

	balance, err := ledger.RecomputeBalance(ctx, acc.AccountID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1035").Equal(balance))
}
