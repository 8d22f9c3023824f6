package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/smart_ledger/internal/models"
	"github.com/SscSPs/smart_ledger/internal/utils/accounting"
	"github.com/SscSPs/smart_ledger/internal/utils/mapping"
	"github.com/SscSPs/smart_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `entry_id, account_id, transaction_id, entry_date, entry_type, amount,
	running_balance, description, notes, reconciled, reconciliation_date, created_at`

const recomputeBalanceQuery = `
	UPDATE accounts
	SET current_balance = opening_balance + COALESCE((
			SELECT SUM(CASE WHEN entry_type = 'CREDIT' THEN amount ELSE -amount END)
			FROM ledger_entries
			WHERE account_id = $1
		), 0),
	    updated_at = $2
	WHERE account_id = $1
	RETURNING current_balance;
`

// PgxLedgerRepository implements ledger persistence with pgx.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// PostEntry appends a ledger entry for a transaction in one database transaction:
// lock account and transaction, derive the running balance from the predecessor,
// insert, shift later-dated entries, link the transaction and recompute the balance.
func (r *PgxLedgerRepository) PostEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	// 1. Lock the account row; concurrent posts to this account queue here.
	account, err := lockAccount(ctx, tx, entry.AccountID)
	if err != nil {
		return nil, false, err
	}

	// 2. Lock the transaction row and detect an earlier post.
	var txnAccountID string
	var existingEntryID *string
	err = tx.QueryRow(ctx,
		`SELECT account_id, ledger_entry_id FROM transactions WHERE transaction_id = $1 FOR UPDATE;`,
		entry.TransactionID,
	).Scan(&txnAccountID, &existingEntryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, apperrors.NewNotFoundError("transaction " + entry.TransactionID)
		}
		return nil, false, fmt.Errorf("failed to lock transaction %s: %w", entry.TransactionID, err)
	}
	if txnAccountID != entry.AccountID {
		return nil, false, fmt.Errorf("%w: transaction %s belongs to account %s", apperrors.ErrValidation, entry.TransactionID, txnAccountID)
	}
	if existingEntryID != nil {
		existing, err := findOneEntry(ctx, tx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE entry_id = $1;`, *existingEntryID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	// 3. Keep created_at strictly increasing per account so (entry_date, created_at) is a total order.
	var lastCreated *time.Time
	if err := tx.QueryRow(ctx,
		`SELECT MAX(created_at) FROM ledger_entries WHERE account_id = $1;`, entry.AccountID,
	).Scan(&lastCreated); err != nil {
		return nil, false, fmt.Errorf("failed to read last entry time for account %s: %w", entry.AccountID, err)
	}
	if lastCreated != nil && !entry.CreatedAt.After(*lastCreated) {
		entry.CreatedAt = lastCreated.Add(time.Microsecond)
	}

	// 4. Previous balance: last entry not after this date, else the opening balance.
	previous := account.OpeningBalance
	var predecessor decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT running_balance
		FROM ledger_entries
		WHERE account_id = $1 AND entry_date <= $2
		ORDER BY entry_date DESC, created_at DESC, entry_id DESC
		LIMIT 1;`,
		entry.AccountID, entry.EntryDate,
	).Scan(&predecessor)
	switch {
	case err == nil:
		previous = predecessor
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, false, fmt.Errorf("failed to read predecessor entry for account %s: %w", entry.AccountID, err)
	}

	entry.Amount = entry.Amount.Abs()
	signed, err := accounting.SignedAmount(entry.EntryType, entry.Amount)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	entry.RunningBalance = previous.Add(signed)

	// 5. Insert, shift later-dated snapshots and link the transaction.
	m := mapping.ToModelLedgerEntry(entry)
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO ledger_entries (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
		m.EntryID,
		m.AccountID,
		m.TransactionID,
		m.EntryDate,
		m.EntryType,
		m.Amount,
		m.RunningBalance,
		m.Description,
		m.Notes,
		m.Reconciled,
		m.ReconciliationDate,
		m.CreatedAt,
	)
	batch.Queue(`
		UPDATE ledger_entries
		SET running_balance = running_balance + $3
		WHERE account_id = $1 AND entry_date > $2;`,
		entry.AccountID, entry.EntryDate, signed,
	)
	batch.Queue(`
		UPDATE transactions
		SET ledger_entry_id = $2, posting_error = '', updated_at = $3
		WHERE transaction_id = $1;`,
		entry.TransactionID, entry.EntryID, entry.CreatedAt,
	)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, false, mapPgError(err, "failed to write ledger entry "+entry.EntryID)
	}

	// 6. Full recompute of the materialized balance.
	var current decimal.Decimal
	if err := tx.QueryRow(ctx, recomputeBalanceQuery, entry.AccountID, entry.CreatedAt).Scan(&current); err != nil {
		return nil, false, fmt.Errorf("failed to recompute balance for account %s: %w", entry.AccountID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, false, err
	}
	return &entry, true, nil
}

// RecomputeBalance rewrites current_balance from the ledger under the account row lock.
func (r *PgxLedgerRepository) RecomputeBalance(ctx context.Context, accountID string, now time.Time) (decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := lockAccount(ctx, tx, accountID); err != nil {
		return decimal.Zero, err
	}

	var current decimal.Decimal
	if err := tx.QueryRow(ctx, recomputeBalanceQuery, accountID, now).Scan(&current); err != nil {
		return decimal.Zero, fmt.Errorf("failed to recompute balance for account %s: %w", accountID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return current, nil
}

// ReconcileEntry marks the entry and its transaction reconciled once.
func (r *PgxLedgerRepository) ReconcileEntry(ctx context.Context, entryID string, at time.Time) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	var transactionID string
	err = tx.QueryRow(ctx, `
		UPDATE ledger_entries
		SET reconciled = TRUE, reconciliation_date = $2
		WHERE entry_id = $1 AND reconciled = FALSE
		RETURNING transaction_id;`,
		entryID, at,
	).Scan(&transactionID)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE entry_id = $1);`, entryID).Scan(&exists); err != nil {
			return false, fmt.Errorf("failed to check ledger entry %s: %w", entryID, err)
		}
		if !exists {
			return false, apperrors.NewNotFoundError("ledger entry " + entryID)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to reconcile ledger entry %s: %w", entryID, err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE transactions SET reconciled = TRUE, updated_at = $2 WHERE transaction_id = $1;`,
		transactionID, at,
	); err != nil {
		return false, fmt.Errorf("failed to reconcile transaction %s: %w", transactionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

// FindEntryByID retrieves one ledger entry.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	return findOneEntry(ctx, r.Pool, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE entry_id = $1;`, entryID)
}

// FindEntriesByAccount returns all entries of an account in ledger order.
func (r *PgxLedgerRepository) FindEntriesByAccount(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	return r.ListEntriesPage(ctx, accountID, from, to, 0, nil)
}

// ListEntriesPage returns up to limit entries after the cursor; limit <= 0 means all.
func (r *PgxLedgerRepository) ListEntriesPage(ctx context.Context, accountID string, from, to *time.Time, limit int, after *pagination.Cursor) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		  AND ($2::date IS NULL OR entry_date >= $2::date)
		  AND ($3::date IS NULL OR entry_date <= $3::date)`
	args := []any{accountID, from, to}

	if after != nil {
		args = append(args, after.Date, after.CreatedAt, after.ID)
		query += ` AND (entry_date, created_at, entry_id) > ($4::date, $5, $6)`
	}
	query += ` ORDER BY entry_date ASC, created_at ASC, entry_id ASC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger for account %s: %w", accountID, err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entries: %w", err)
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// FindLastEntryOnOrBefore returns the last entry in ledger order not dated after at.
func (r *PgxLedgerRepository) FindLastEntryOnOrBefore(ctx context.Context, accountID string, at *time.Time) (*domain.LedgerEntry, error) {
	return findOneEntry(ctx, r.Pool, `
		SELECT `+ledgerColumns+`
		FROM ledger_entries
		WHERE account_id = $1
		  AND ($2::date IS NULL OR entry_date <= $2::date)
		ORDER BY entry_date DESC, created_at DESC, entry_id DESC
		LIMIT 1;`, accountID, at)
}

func findOneEntry(ctx context.Context, q querier, query string, args ...any) (*domain.LedgerEntry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entry: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}
	e := mapping.ToDomainLedgerEntry(m)
	return &e, nil
}
