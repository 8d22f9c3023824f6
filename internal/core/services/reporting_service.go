package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/utils"
	"github.com/SscSPs/smart_ledger/internal/utils/dates"
	"github.com/shopspring/decimal"
)

const (
	exportPageSize  = 500
	defaultTopLimit = 10
	maxTopLimit     = 100
)

var csvExportHeader = []string{"Date", "Description", "Amount", "Type", "Category", "Confidence", "Counterparty"}

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo   portsrepo.ReportingRepository
	transactionRepo portsrepo.TransactionReader
}

// NewReportingService creates a new reporting service
func NewReportingService(repo portsrepo.ReportingRepository, transactionRepo portsrepo.TransactionReader, opts ...Option) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo:   repo,
		transactionRepo: transactionRepo,
	}
	applyOptions(&svc.BaseService, opts)
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) GetSummary(ctx context.Context, filter domain.ReportFilter) (*domain.ReportSummary, error) {
	summary, err := s.reportingRepo.GetSummary(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to build report summary")
		return nil, fmt.Errorf("failed to build report summary: %w", err)
	}
	return summary, nil
}

func (s *reportingService) GetCategoryBreakdown(ctx context.Context, filter domain.ReportFilter) ([]domain.CategoryTotal, error) {
	rows, err := s.reportingRepo.GetCategoryBreakdown(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to build category breakdown")
		return nil, fmt.Errorf("failed to build category breakdown: %w", err)
	}
	if rows == nil {
		return []domain.CategoryTotal{}, nil
	}
	return rows, nil
}

func (s *reportingService) GetReconciliationStatus(ctx context.Context, accountID *string) ([]domain.ReconciliationStatus, error) {
	rows, err := s.reportingRepo.GetReconciliationStatus(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build reconciliation status")
		return nil, fmt.Errorf("failed to build reconciliation status: %w", err)
	}
	if rows == nil {
		return []domain.ReconciliationStatus{}, nil
	}
	return rows, nil
}

func (s *reportingService) GetCashFlow(ctx context.Context, filter domain.ReportFilter) ([]domain.CashFlowPeriod, error) {
	rows, err := s.reportingRepo.GetCashFlow(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to build cash flow")
		return nil, fmt.Errorf("failed to build cash flow: %w", err)
	}
	if rows == nil {
		return []domain.CashFlowPeriod{}, nil
	}
	return rows, nil
}

func (s *reportingService) GetTopTransactions(ctx context.Context, filter domain.ReportFilter, limit int) ([]domain.TopTransaction, error) {
	if limit <= 0 || limit > maxTopLimit {
		limit = defaultTopLimit
	}
	rows, err := s.reportingRepo.GetTopTransactions(ctx, filter, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to load top transactions", slog.Int("limit", limit))
		return nil, fmt.Errorf("failed to load top transactions: %w", err)
	}
	if rows == nil {
		return []domain.TopTransaction{}, nil
	}
	return rows, nil
}

// GetMonthlyComparison loads thirteen months so January can be compared with the December before it.
func (s *reportingService) GetMonthlyComparison(ctx context.Context, accountID *string, year int) ([]domain.MonthlyComparison, error) {
	if year == 0 {
		year = s.Now().Year()
	}
	from := time.Date(year-1, time.December, 1, 0, 0, 0, 0, time.UTC)
	months, err := s.reportingRepo.GetMonthlyTotals(ctx, accountID, from, 13)
	if err != nil {
		s.LogError(ctx, err, "Failed to build monthly comparison", slog.Int("year", year))
		return nil, fmt.Errorf("failed to build monthly comparison: %w", err)
	}
	return compareMonths(months, year), nil
}

// compareMonths keeps the months of year and sets their change against the previous month.
func compareMonths(months []domain.MonthlyComparison, year int) []domain.MonthlyComparison {
	result := make([]domain.MonthlyComparison, 0, 12)
	previous := decimal.Zero
	for _, m := range months {
		if m.Month.Year() != year {
			previous = m.Net
			continue
		}
		m.PreviousNet = previous
		m.NetChange = m.Net.Sub(previous)
		if !previous.IsZero() {
			pct, _ := m.NetChange.Div(previous.Abs()).Mul(decimal.NewFromInt(100)).Round(2).Float64()
			m.NetChangePercent = &pct
		}
		result = append(result, m)
		previous = m.Net
	}
	return result
}

func (s *reportingService) GetDashboard(ctx context.Context, accountID *string) (*domain.DashboardSummary, error) {
	summary, err := s.reportingRepo.GetDashboard(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build dashboard")
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return summary, nil
}

// ExportCSV streams every matching transaction, page by page, and returns the row count.
func (s *reportingService) ExportCSV(ctx context.Context, filter domain.TransactionFilter, w io.Writer) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvExportHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	filter.Limit = exportPageSize
	filter.Offset = 0
	count := 0
	for {
		page, err := s.transactionRepo.QueryTransactions(ctx, filter)
		if err != nil {
			s.LogError(ctx, err, "Failed to load transactions for export", slog.Int("offset", filter.Offset))
			return count, fmt.Errorf("failed to export transactions: %w", err)
		}
		for _, txn := range page {
			if err := writer.Write(csvRecord(txn)); err != nil {
				return count, fmt.Errorf("failed to write csv row: %w", err)
			}
			count++
		}
		if len(page) < exportPageSize {
			break
		}
		filter.Offset += exportPageSize
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, fmt.Errorf("failed to flush csv: %w", err)
	}
	s.LogInfo(ctx, "Transactions exported", slog.Int("rows", count))
	return count, nil
}

func csvRecord(txn domain.Transaction) []string {
	date := txn.RawDate
	if txn.Date != nil {
		date = dates.Format(*txn.Date)
	}
	return []string{
		date,
		txn.Description,
		utils.FormatMoney(txn.Amount),
		string(txn.Type),
		txn.CategoryCode,
		strconv.FormatFloat(txn.Confidence, 'f', 2, 64),
		txn.Counterparty,
	}
}
