package services

import (
	"context"
	"io"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// ReportingService defines read-only reports over stored transactions
type ReportingService interface {
	GetSummary(ctx context.Context, filter domain.ReportFilter) (*domain.ReportSummary, error)
	GetCategoryBreakdown(ctx context.Context, filter domain.ReportFilter) ([]domain.CategoryTotal, error)
	GetReconciliationStatus(ctx context.Context, accountID *string) ([]domain.ReconciliationStatus, error)
	GetCashFlow(ctx context.Context, filter domain.ReportFilter) ([]domain.CashFlowPeriod, error)

	// GetTopTransactions returns the largest transactions. A limit outside 1..100 falls back to 10.
	GetTopTransactions(ctx context.Context, filter domain.ReportFilter, limit int) ([]domain.TopTransaction, error)

	// GetMonthlyComparison compares each month of year with the month before it.
	// Year 0 means the current year.
	GetMonthlyComparison(ctx context.Context, accountID *string, year int) ([]domain.MonthlyComparison, error)
	GetDashboard(ctx context.Context, accountID *string) (*domain.DashboardSummary, error)

	// ExportCSV writes the matching transactions as CSV to w.
	ExportCSV(ctx context.Context, filter domain.TransactionFilter, w io.Writer) (int, error)
}
