package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// ReportingRepository defines read-only aggregations over stored transactions
type ReportingRepository interface {
	// GetSummary totals income and expenses for the filter.
	GetSummary(ctx context.Context, filter domain.ReportFilter) (*domain.ReportSummary, error)

	// GetCategoryBreakdown groups transactions by category, largest total first.
	GetCategoryBreakdown(ctx context.Context, filter domain.ReportFilter) ([]domain.CategoryTotal, error)

	// GetReconciliationStatus counts reconciled and pending ledger entries per account.
	GetReconciliationStatus(ctx context.Context, accountID *string) ([]domain.ReconciliationStatus, error)

	// GetCashFlow groups dated transactions by calendar month, oldest first.
	GetCashFlow(ctx context.Context, filter domain.ReportFilter) ([]domain.CashFlowPeriod, error)

	// GetTopTransactions returns the largest transactions, at most limit of them.
	GetTopTransactions(ctx context.Context, filter domain.ReportFilter, limit int) ([]domain.TopTransaction, error)

	// GetMonthlyTotals returns months consecutive months starting at the month of from,
	// empty months included. Only Month, Income, Expenses, Net and TransactionCount are filled.
	GetMonthlyTotals(ctx context.Context, accountID *string, from time.Time, months int) ([]domain.MonthlyComparison, error)

	GetDashboard(ctx context.Context, accountID *string) (*domain.DashboardSummary, error)
}
