package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/smart_ledger/internal/models"
	"github.com/SscSPs/smart_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, upload_id, account_id, txn_date, raw_date, description,
	amount, txn_type, category_code, confidence, counterparty, reasoning, notes, is_manual,
	reconciled, ledger_entry_id, posting_error, created_at, updated_at`

// PgxTransactionRepository implements transaction storage with pgx.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// InsertBatch inserts every row inside one database transaction so either all
// rows become visible or none do.
func (r *PgxTransactionRepository) InsertBatch(ctx context.Context, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	batch := &pgx.Batch{}
	for _, t := range transactions {
		m := mapping.ToModelTransaction(t)
		batch.Queue(query,
			m.TransactionID,
			m.UploadID,
			m.AccountID,
			m.Date,
			m.RawDate,
			m.Description,
			m.Amount,
			m.Type,
			m.CategoryCode,
			m.Confidence,
			m.Counterparty,
			m.Reasoning,
			m.Notes,
			m.IsManual,
			m.Reconciled,
			m.LedgerEntryID,
			m.PostingError,
			m.CreatedAt,
			m.UpdatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapPgError(err, fmt.Sprintf("failed to insert batch of %d transactions", len(transactions)))
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction by ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	return findOneTransaction(ctx, r.Pool, query, transactionID)
}

// QueryTransactions returns the filtered rows, newest first.
func (r *PgxTransactionRepository) QueryTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	where, args := buildTransactionWhere(filter)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		` ORDER BY txn_date DESC NULLS LAST, created_at DESC, transaction_id DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return mapping.ToDomainTransactionSlice(list), nil
}

// FindUnpostedByAccount returns rows without a ledger entry in insertion order.
func (r *PgxTransactionRepository) FindUnpostedByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND ledger_entry_id IS NULL
		ORDER BY created_at ASC, transaction_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unposted transactions: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan unposted transactions: %w", err)
	}
	return mapping.ToDomainTransactionSlice(list), nil
}

// UpdateTransactionAnnotations writes category/notes and sets is_manual.
// Amount, date, type and description are not writable here.
func (r *PgxTransactionRepository) UpdateTransactionAnnotations(ctx context.Context, transactionID string, patch domain.TransactionUpdate, now time.Time) error {
	query := `
		UPDATE transactions
		SET category_code = COALESCE($2, category_code),
		    notes = COALESCE($3, notes),
		    is_manual = TRUE,
		    updated_at = $4
		WHERE transaction_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, patch.CategoryCode, patch.Notes, now)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + transactionID)
	}
	return nil
}

// SetPostingError records why a transaction is unposted.
func (r *PgxTransactionRepository) SetPostingError(ctx context.Context, transactionID string, message string, now time.Time) error {
	query := `
		UPDATE transactions
		SET posting_error = $2, updated_at = $3
		WHERE transaction_id = $1 AND ledger_entry_id IS NULL;
	`
	if _, err := r.Pool.Exec(ctx, query, transactionID, message, now); err != nil {
		return fmt.Errorf("failed to record posting error for %s: %w", transactionID, err)
	}
	return nil
}

func findOneTransaction(ctx context.Context, q querier, query string, arg any) (*domain.Transaction, error) {
	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	t := mapping.ToDomainTransaction(m)
	return &t, nil
}

// buildTransactionWhere renders the filter as a WHERE clause with positional args.
func buildTransactionWhere(f domain.TransactionFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.AccountID != nil {
		add("account_id = $%d", *f.AccountID)
	}
	if f.UploadID != nil {
		add("upload_id = $%d", *f.UploadID)
	}
	if f.CategoryCode != nil {
		add("category_code = $%d", strings.ToUpper(*f.CategoryCode))
	}
	if f.Type != nil {
		add("txn_type = $%d", string(*f.Type))
	}
	if f.DateFrom != nil {
		add("txn_date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("txn_date <= $%d", *f.DateTo)
	}
	if f.Search != nil {
		pattern := "%" + escapeLike(*f.Search) + "%"
		args = append(args, pattern)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(description ILIKE $%d OR counterparty ILIKE $%d)", n, n))
	}
	if f.Posted != nil {
		if *f.Posted {
			conds = append(conds, "ledger_entry_id IS NOT NULL")
		} else {
			conds = append(conds, "ledger_entry_id IS NULL")
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
