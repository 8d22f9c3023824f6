package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/dto"
	"github.com/SscSPs/smart_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) EnsureAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) QueryTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindUnpostedByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) InsertBatch(ctx context.Context, transactions []domain.Transaction) error {
	return m.Called(ctx, transactions).Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionAnnotations(ctx context.Context, transactionID string, patch domain.TransactionUpdate, now time.Time) error {
	return m.Called(ctx, transactionID, patch, now).Error(0)
}

func (m *MockTransactionRepository) SetPostingError(ctx context.Context, transactionID string, message string, now time.Time) error {
	return m.Called(ctx, transactionID, message, now).Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByAccount(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesPage(ctx context.Context, accountID string, from, to *time.Time, limit int, after *pagination.Cursor) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, from, to, limit, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindLastEntryOnOrBefore(ctx context.Context, accountID string, at *time.Time) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) PostEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, bool, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Bool(1), args.Error(2)
}

func (m *MockLedgerRepository) RecomputeBalance(ctx context.Context, accountID string, now time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, now)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) ReconcileEntry(ctx context.Context, entryID string, at time.Time) (bool, error) {
	args := m.Called(ctx, entryID, at)
	return args.Bool(0), args.Error(1)
}

// --- Mock UploadRepository ---
type MockUploadRepository struct {
	mock.Mock
}

var _ portsrepo.UploadRepository = (*MockUploadRepository)(nil)

func (m *MockUploadRepository) CreateUpload(ctx context.Context, upload domain.Upload) error {
	return m.Called(ctx, upload).Error(0)
}

func (m *MockUploadRepository) FindUploadByID(ctx context.Context, uploadID string) (*domain.Upload, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Upload), args.Error(1)
}

func (m *MockUploadRepository) ListUploads(ctx context.Context, limit int, offset int) ([]domain.Upload, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Upload), args.Error(1)
}

func (m *MockUploadRepository) AttachAccount(ctx context.Context, uploadID string, accountID string, now time.Time) error {
	return m.Called(ctx, uploadID, accountID, now).Error(0)
}

func (m *MockUploadRepository) SetArchiveURI(ctx context.Context, uploadID string, uri string, now time.Time) error {
	return m.Called(ctx, uploadID, uri, now).Error(0)
}

func (m *MockUploadRepository) MarkCompleted(ctx context.Context, uploadID string, transactionCount int, postedCount int, now time.Time) error {
	return m.Called(ctx, uploadID, transactionCount, postedCount, now).Error(0)
}

func (m *MockUploadRepository) MarkFailed(ctx context.Context, uploadID string, message string, now time.Time) error {
	return m.Called(ctx, uploadID, message, now).Error(0)
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetSummary(ctx context.Context, filter domain.ReportFilter) (*domain.ReportSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportSummary), args.Error(1)
}

func (m *MockReportingRepository) GetCategoryBreakdown(ctx context.Context, filter domain.ReportFilter) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

func (m *MockReportingRepository) GetReconciliationStatus(ctx context.Context, accountID *string) ([]domain.ReconciliationStatus, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationStatus), args.Error(1)
}

func (m *MockReportingRepository) GetCashFlow(ctx context.Context, filter domain.ReportFilter) ([]domain.CashFlowPeriod, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashFlowPeriod), args.Error(1)
}

func (m *MockReportingRepository) GetTopTransactions(ctx context.Context, filter domain.ReportFilter, limit int) ([]domain.TopTransaction, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopTransaction), args.Error(1)
}

func (m *MockReportingRepository) GetMonthlyTotals(ctx context.Context, accountID *string, from time.Time, months int) ([]domain.MonthlyComparison, error) {
	args := m.Called(ctx, accountID, from, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyComparison), args.Error(1)
}

func (m *MockReportingRepository) GetDashboard(ctx context.Context, accountID *string) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

// --- Collaborator mocks ---
type MockDecoder struct {
	mock.Mock
}

var _ portssvc.StatementDecoder = (*MockDecoder)(nil)

func (m *MockDecoder) Decode(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

type MockCategorizer struct {
	mock.Mock
}

var _ portssvc.Categorizer = (*MockCategorizer)(nil)

func (m *MockCategorizer) Analyze(ctx context.Context, content string, categories []domain.Category) (*domain.StatementAnalysis, error) {
	args := m.Called(ctx, content, categories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementAnalysis), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

var _ portssvc.FileArchive = (*MockArchive)(nil)

func (m *MockArchive) Store(ctx context.Context, key string, data []byte) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

type MockIngestion struct {
	mock.Mock
}

var _ portssvc.IngestionSvc = (*MockIngestion)(nil)

func (m *MockIngestion) Ingest(ctx context.Context, uploadID string, raw []domain.RawTransaction, info *domain.AccountInfo) (*domain.IngestionResult, error) {
	args := m.Called(ctx, uploadID, raw, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestionResult), args.Error(1)
}

func (m *MockIngestion) RecordManualTransaction(ctx context.Context, req dto.CreateManualTransactionRequest) (*domain.Transaction, *domain.LedgerEntry, error) {
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

func (m *MockIngestion) RetryUnposted(ctx context.Context, accountID string) (*domain.IngestionResult, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestionResult), args.Error(1)
}

type MockEvents struct {
	mock.Mock
}

var _ portssvc.EventPublisher = (*MockEvents)(nil)

func (m *MockEvents) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}
