package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ResolveOrCreateAccount(ctx context.Context, info *domain.AccountInfo) (string, error) {
	args := m.Called(ctx, info)
	return args.String(0), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) QueryTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) InsertBatch(ctx context.Context, raw []domain.RawTransaction, uploadID *string, accountID string) ([]domain.Transaction, []domain.RowError, error) {
	args := m.Called(ctx, raw, uploadID, accountID)
	var txns []domain.Transaction
	if v := args.Get(0); v != nil {
		txns = v.([]domain.Transaction)
	}
	var rowErrs []domain.RowError
	if v := args.Get(1); v != nil {
		rowErrs = v.([]domain.RowError)
	}
	return txns, rowErrs, args.Error(2)
}
func (m *MockTransactionService) UpdateTransaction(ctx context.Context, transactionID string, patch domain.TransactionUpdate) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) PostTransaction(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) GetEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) ListLedger(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountID, from, to, limit, nextToken)
	var entries []domain.LedgerEntry
	if v := args.Get(0); v != nil {
		entries = v.([]domain.LedgerEntry)
	}
	var next *string
	if v := args.Get(1); v != nil {
		next = v.(*string)
	}
	return entries, next, args.Error(2)
}
func (m *MockLedgerService) RecomputeBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerService) ReconcileEntry(ctx context.Context, entryID string, date *time.Time) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) GetAccountSummary(ctx context.Context, accountID string, from, to *time.Time) (*domain.AccountSummary, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountSummary), args.Error(1)
}
func (m *MockLedgerService) VerifyAccount(ctx context.Context, accountID string) (*domain.LedgerVerification, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerVerification), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock IngestionService ---
type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) Ingest(ctx context.Context, uploadID string, raw []domain.RawTransaction, info *domain.AccountInfo) (*domain.IngestionResult, error) {
	args := m.Called(ctx, uploadID, raw, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestionResult), args.Error(1)
}
func (m *MockIngestionService) RecordManualTransaction(ctx context.Context, req dto.CreateManualTransactionRequest) (*domain.Transaction, *domain.LedgerEntry, error) {
	args := m.Called(ctx, req)
	var txn *domain.Transaction
	if v := args.Get(0); v != nil {
		txn = v.(*domain.Transaction)
	}
	var entry *domain.LedgerEntry
	if v := args.Get(1); v != nil {
		entry = v.(*domain.LedgerEntry)
	}
	return txn, entry, args.Error(2)
}
func (m *MockIngestionService) RetryUnposted(ctx context.Context, accountID string) (*domain.IngestionResult, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestionResult), args.Error(1)
}

var _ portssvc.IngestionSvc = (*MockIngestionService)(nil)

// --- Mock UploadService ---
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) ProcessStatement(ctx context.Context, fileName string, data []byte) (*dto.StatementResult, error) {
	args := m.Called(ctx, fileName, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StatementResult), args.Error(1)
}
func (m *MockUploadService) GetUpload(ctx context.Context, uploadID string) (*domain.Upload, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Upload), args.Error(1)
}
func (m *MockUploadService) ListUploads(ctx context.Context, limit int, offset int) ([]domain.Upload, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Upload), args.Error(1)
}

var _ portssvc.UploadSvc = (*MockUploadService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetSummary(ctx context.Context, filter domain.ReportFilter) (*domain.ReportSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportSummary), args.Error(1)
}
func (m *MockReportingService) GetCategoryBreakdown(ctx context.Context, filter domain.ReportFilter) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

func (m *MockReportingService) GetReconciliationStatus(ctx context.Context, accountID *string) ([]domain.ReconciliationStatus, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationStatus), args.Error(1)
}
func (m *MockReportingService) GetCashFlow(ctx context.Context, filter domain.ReportFilter) ([]domain.CashFlowPeriod, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashFlowPeriod), args.Error(1)
}
func (m *MockReportingService) GetTopTransactions(ctx context.Context, filter domain.ReportFilter, limit int) ([]domain.TopTransaction, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopTransaction), args.Error(1)
}
func (m *MockReportingService) GetMonthlyComparison(ctx context.Context, accountID *string, year int) ([]domain.MonthlyComparison, error) {
	args := m.Called(ctx, accountID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyComparison), args.Error(1)
}
func (m *MockReportingService) GetDashboard(ctx context.Context, accountID *string) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

// ExportCSV writes the first return value (a string) to w.
func (m *MockReportingService) ExportCSV(ctx context.Context, filter domain.TransactionFilter, w io.Writer) (int, error) {
	args := m.Called(ctx, filter, w)
	if s, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, s)
	}
	return args.Int(1), args.Error(2)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.AuthSvc = (*MockAuthService)(nil)

// --- Mock HealthChecker ---
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
