package pgsql

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// reportWhere builds the shared filter. Rows with an unparsed date are only
// included when no date bound is requested.
func reportWhere(filter domain.ReportFilter) (string, []any) {
	var accountType *string
	if filter.Type != nil {
		t := string(*filter.Type)
		accountType = &t
	}
	where := `
		WHERE ($1::uuid IS NULL OR t.account_id = $1::uuid)
		  AND ($2::text IS NULL OR t.txn_type = $2::text)
		  AND ($3::date IS NULL OR t.txn_date >= $3::date)
		  AND ($4::date IS NULL OR t.txn_date <= $4::date)`
	return where, []any{filter.AccountID, accountType, filter.DateFrom, filter.DateTo}
}

// GetSummary totals income and expenses for the filtered transactions
func (r *reportingRepository) GetSummary(ctx context.Context, filter domain.ReportFilter) (*domain.ReportSummary, error) {
	where, args := reportWhere(filter)
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN t.txn_type = 'CREDIT' THEN t.amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN t.txn_type = 'DEBIT' THEN t.amount ELSE 0 END), 0) AS total_expenses,
			COUNT(*) AS transaction_count,
			COUNT(*) FILTER (WHERE t.ledger_entry_id IS NULL) AS unposted_count
		FROM transactions t` + where

	var summary domain.ReportSummary
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&summary.TotalIncome,
		&summary.TotalExpenses,
		&summary.TransactionCount,
		&summary.UnpostedCount,
	); err != nil {
		return nil, fmt.Errorf("error querying report summary: %w", err)
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpenses)
	return &summary, nil
}

// GetCategoryBreakdown groups the filtered transactions by category and type
func (r *reportingRepository) GetCategoryBreakdown(ctx context.Context, filter domain.ReportFilter) ([]domain.CategoryTotal, error) {
	where, args := reportWhere(filter)
	query := `
		SELECT
			t.category_code,
			t.txn_type,
			COUNT(*) AS transaction_count,
			SUM(t.amount) AS total,
			AVG(t.amount) AS average_amount,
			AVG(t.confidence) AS avg_confidence,
			MIN(t.txn_date) AS first_date,
			MAX(t.txn_date) AS last_date
		FROM transactions t` + where + `
		GROUP BY t.category_code, t.txn_type
		ORDER BY total DESC, t.category_code ASC
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying category breakdown: %w", err)
	}
	defer rows.Close()

	result := []domain.CategoryTotal{}
	for rows.Next() {
		var row domain.CategoryTotal
		var txnType string
		var average decimal.Decimal
		var first, last *time.Time

		if err := rows.Scan(
			&row.CategoryCode,
			&txnType,
			&row.TransactionCount,
			&row.Total,
			&average,
			&row.AvgConfidence,
			&first,
			&last,
		); err != nil {
			return nil, fmt.Errorf("error scanning category breakdown row: %w", err)
		}

		row.Type = domain.TransactionType(txnType)
		row.AverageAmount = average.Round(2)
		row.FirstDate = first
		row.LastDate = last
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category breakdown rows: %w", err)
	}

	return result, nil
}

// GetReconciliationStatus counts reconciled and pending ledger entries per account
func (r *reportingRepository) GetReconciliationStatus(ctx context.Context, accountID *string) ([]domain.ReconciliationStatus, error) {
	query := `
		SELECT
			a.account_id,
			a.name,
			COUNT(*) FILTER (WHERE e.reconciled) AS reconciled_count,
			COALESCE(SUM(e.amount) FILTER (WHERE e.reconciled), 0) AS reconciled_amount,
			COUNT(*) FILTER (WHERE NOT e.reconciled) AS pending_count,
			COALESCE(SUM(e.amount) FILTER (WHERE NOT e.reconciled), 0) AS pending_amount
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE ($1::uuid IS NULL OR e.account_id = $1::uuid)
		GROUP BY a.account_id, a.name
		ORDER BY a.name ASC, a.account_id ASC
	`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("error querying reconciliation status: %w", err)
	}
	defer rows.Close()

	result := []domain.ReconciliationStatus{}
	for rows.Next() {
		var row domain.ReconciliationStatus
		if err := rows.Scan(
			&row.AccountID,
			&row.AccountName,
			&row.ReconciledCount,
			&row.ReconciledAmount,
			&row.PendingCount,
			&row.PendingAmount,
		); err != nil {
			return nil, fmt.Errorf("error scanning reconciliation status row: %w", err)
		}
		if total := row.ReconciledCount + row.PendingCount; total > 0 {
			row.ReconciledPercent = math.Round(float64(row.ReconciledCount)*10000/float64(total)) / 100
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation status rows: %w", err)
	}

	return result, nil
}

// GetCashFlow groups the filtered transactions by month. Undated rows are skipped.
func (r *reportingRepository) GetCashFlow(ctx context.Context, filter domain.ReportFilter) ([]domain.CashFlowPeriod, error) {
	where, args := reportWhere(filter)
	query := `
		SELECT
			date_trunc('month', t.txn_date)::date AS month,
			COALESCE(SUM(t.amount) FILTER (WHERE t.txn_type = 'CREDIT'), 0) AS income,
			COALESCE(SUM(t.amount) FILTER (WHERE t.txn_type = 'DEBIT'), 0) AS expenses,
			COUNT(*) FILTER (WHERE t.txn_type = 'CREDIT') AS income_count,
			COUNT(*) FILTER (WHERE t.txn_type = 'DEBIT') AS expense_count
		FROM transactions t` + where + `
		  AND t.txn_date IS NOT NULL
		GROUP BY 1
		ORDER BY 1 ASC
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying cash flow: %w", err)
	}
	defer rows.Close()

	result := []domain.CashFlowPeriod{}
	for rows.Next() {
		var row domain.CashFlowPeriod
		if err := rows.Scan(&row.Month, &row.Income, &row.Expenses, &row.IncomeCount, &row.ExpenseCount); err != nil {
			return nil, fmt.Errorf("error scanning cash flow row: %w", err)
		}
		row.Net = row.Income.Sub(row.Expenses)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow rows: %w", err)
	}

	return result, nil
}

// GetTopTransactions returns the largest filtered transactions, newest first on ties
func (r *reportingRepository) GetTopTransactions(ctx context.Context, filter domain.ReportFilter, limit int) ([]domain.TopTransaction, error) {
	where, args := reportWhere(filter)
	query := `
		SELECT
			t.transaction_id,
			t.account_id,
			t.txn_date,
			t.description,
			t.amount,
			t.txn_type,
			t.category_code,
			t.counterparty,
			t.confidence
		FROM transactions t` + where + `
		ORDER BY t.amount DESC, t.txn_date DESC NULLS LAST, t.transaction_id ASC
		LIMIT $5
	`

	rows, err := r.Pool.Query(ctx, query, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("error querying top transactions: %w", err)
	}
	defer rows.Close()

	result := []domain.TopTransaction{}
	for rows.Next() {
		var row domain.TopTransaction
		var txnType string
		if err := rows.Scan(
			&row.TransactionID,
			&row.AccountID,
			&row.Date,
			&row.Description,
			&row.Amount,
			&txnType,
			&row.CategoryCode,
			&row.Counterparty,
			&row.Confidence,
		); err != nil {
			return nil, fmt.Errorf("error scanning top transaction row: %w", err)
		}
		row.Type = domain.TransactionType(txnType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top transaction rows: %w", err)
	}

	return result, nil
}

// GetMonthlyTotals fills every month of the range, zero where nothing was booked
func (r *reportingRepository) GetMonthlyTotals(ctx context.Context, accountID *string, from time.Time, months int) ([]domain.MonthlyComparison, error) {
	query := `
		WITH months AS (
			SELECT generate_series(
				date_trunc('month', $2::date),
				date_trunc('month', $2::date) + make_interval(months => $3::int - 1),
				interval '1 month'
			)::date AS month
		)
		SELECT
			m.month,
			COALESCE(SUM(t.amount) FILTER (WHERE t.txn_type = 'CREDIT'), 0) AS income,
			COALESCE(SUM(t.amount) FILTER (WHERE t.txn_type = 'DEBIT'), 0) AS expenses,
			COUNT(t.transaction_id) AS transaction_count
		FROM months m
		LEFT JOIN transactions t
			ON date_trunc('month', t.txn_date)::date = m.month
			AND ($1::uuid IS NULL OR t.account_id = $1::uuid)
		GROUP BY m.month
		ORDER BY m.month ASC
	`

	rows, err := r.Pool.Query(ctx, query, accountID, from, months)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly totals: %w", err)
	}
	defer rows.Close()

	result := []domain.MonthlyComparison{}
	for rows.Next() {
		var row domain.MonthlyComparison
		if err := rows.Scan(&row.Month, &row.Income, &row.Expenses, &row.TransactionCount); err != nil {
			return nil, fmt.Errorf("error scanning monthly totals row: %w", err)
		}
		row.Net = row.Income.Sub(row.Expenses)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals rows: %w", err)
	}

	return result, nil
}

// GetDashboard collects the headline counts in one pass
func (r *reportingRepository) GetDashboard(ctx context.Context, accountID *string) (*domain.DashboardSummary, error) {
	query := `
		SELECT
			COUNT(*) AS total_transactions,
			COUNT(*) FILTER (WHERE t.txn_type = 'CREDIT') AS credit_count,
			COUNT(*) FILTER (WHERE t.txn_type = 'DEBIT') AS debit_count,
			COALESCE(SUM(t.amount) FILTER (WHERE t.txn_type = 'CREDIT'), 0) AS credit_total,
			COALESCE(SUM(t.amount) FILTER (WHERE t.txn_type = 'DEBIT'), 0) AS debit_total,
			COUNT(*) FILTER (WHERE t.reconciled) AS reconciled_count,
			COUNT(*) FILTER (WHERE t.ledger_entry_id IS NULL) AS unposted_count
		FROM transactions t
		WHERE ($1::uuid IS NULL OR t.account_id = $1::uuid)
	`

	var d domain.DashboardSummary
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&d.TotalTransactions,
		&d.CreditCount,
		&d.DebitCount,
		&d.CreditTotal,
		&d.DebitTotal,
		&d.ReconciledCount,
		&d.UnpostedCount,
	); err != nil {
		return nil, fmt.Errorf("error querying dashboard: %w", err)
	}
	d.NetFlow = d.CreditTotal.Sub(d.DebitTotal)
	return &d, nil
}
