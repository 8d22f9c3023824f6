package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UploadServiceTestSuite struct {
	suite.Suite
	uploadRepo  *MockUploadRepository
	decoder     *MockDecoder
	categorizer *MockCategorizer
	archive     *MockArchive
	ingestion   *MockIngestion
	events      *MockEvents
	service     portssvc.UploadSvc
}

func (suite *UploadServiceTestSuite) SetupTest() {
	suite.uploadRepo = new(MockUploadRepository)
	suite.decoder = new(MockDecoder)
	suite.categorizer = new(MockCategorizer)
	suite.archive = new(MockArchive)
	suite.ingestion = new(MockIngestion)
	suite.events = new(MockEvents)
	suite.events.On("Enqueue", "smart-ledger", mock.Anything, mock.Anything).Maybe()
	suite.service = services.NewUploadService(suite.uploadRepo, suite.decoder, suite.categorizer, suite.archive, suite.ingestion, suite.events, 1024, services.WithClock(fixedClock))
}

var statementCSV = []byte("Date,Description,Amount\n10/01/2025,Invoice 17 Acme,100.00\n")

func (suite *UploadServiceTestSuite) expectUploadCreated() {
	suite.uploadRepo.On("CreateUpload", mock.Anything, mock.MatchedBy(func(u domain.Upload) bool {
		return u.Status == domain.UploadProcessing && u.FileName == "january.csv" && u.FileType == "csv"
	})).Return(nil).Once()
}

func (suite *UploadServiceTestSuite) TestProcessStatement_RejectsBadFiles() {
	ctx := context.Background()
	cases := map[string][]byte{
		"legacy.xls":   statementCSV,
		"scan.pdf":     statementCSV,
		"empty.csv":    {},
		"big.csv":      []byte(strings.Repeat("x", 2048)),
		"no_extension": statementCSV,
	}
	for name, data := range cases {
		result, err := suite.service.ProcessStatement(ctx, name, data)
		suite.Nil(result, name)
		suite.ErrorIs(err, apperrors.ErrValidation, name)
	}
	suite.uploadRepo.AssertNotCalled(suite.T(), "CreateUpload", mock.Anything, mock.Anything)
}

func (suite *UploadServiceTestSuite) TestProcessStatement_Success() {
	ctx := context.Background()
	analysis := &domain.StatementAnalysis{
		IsFinancialData: true,
		Account:         operationsInfo(),
		Transactions:    statementRows()[:1],
		Summary:         "One incoming payment",
		Analysis:        "Healthy cash position",
	}
	ingestion := &domain.IngestionResult{AccountID: "acc-1", TransactionCount: 1, PostedCount: 1, RowErrors: []domain.RowError{}}

	suite.expectUploadCreated()
	suite.archive.On("Store", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "uploads/") && strings.HasSuffix(key, "/january.csv")
	}), statementCSV).Return("gs://statements/uploads/x/january.csv", nil).Once()
	suite.uploadRepo.On("SetArchiveURI", mock.Anything, mock.Anything, "gs://statements/uploads/x/january.csv", fixedNow).Return(nil).Once()
	suite.decoder.On("Decode", mock.Anything, "january.csv", statementCSV).Return(string(statementCSV), nil).Once()
	suite.categorizer.On("Analyze", mock.Anything, string(statementCSV), domain.Categories()).Return(analysis, nil).Once()
	suite.ingestion.On("Ingest", mock.Anything, mock.AnythingOfType("string"), analysis.Transactions, analysis.Account).Return(ingestion, nil).Once()

	result, err := suite.service.ProcessStatement(ctx, "january.csv", statementCSV)

	suite.Require().NoError(err)
	suite.Equal(ingestion, result.Ingestion)
	suite.Equal("One incoming payment", result.Summary)
	suite.Equal("Healthy cash position", result.Analysis)
	suite.archive.AssertExpectations(suite.T())
	suite.ingestion.AssertExpectations(suite.T())
}

func (suite *UploadServiceTestSuite) TestProcessStatement_ArchiveFailureIsNotFatal() {
	ctx := context.Background()
	analysis := &domain.StatementAnalysis{IsFinancialData: true}

	suite.expectUploadCreated()
	suite.archive.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket missing")).Once()
	suite.decoder.On("Decode", mock.Anything, "january.csv", statementCSV).Return("text", nil).Once()
	suite.categorizer.On("Analyze", mock.Anything, "text", mock.Anything).Return(analysis, nil).Once()
	suite.ingestion.On("Ingest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&domain.IngestionResult{}, nil).Once()

	_, err := suite.service.ProcessStatement(ctx, "january.csv", statementCSV)

	suite.Require().NoError(err)
	suite.uploadRepo.AssertNotCalled(suite.T(), "SetArchiveURI", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UploadServiceTestSuite) TestProcessStatement_DecodeFailureMarksFailed() {
	ctx := context.Background()
	decodeErr := errors.New("corrupt workbook")

	suite.expectUploadCreated()
	suite.archive.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("file:///tmp/x", nil).Once()
	suite.uploadRepo.On("SetArchiveURI", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.decoder.On("Decode", mock.Anything, "january.csv", statementCSV).Return("", decodeErr).Once()
	suite.uploadRepo.On("MarkFailed", mock.Anything, mock.AnythingOfType("string"), decodeErr.Error(), fixedNow).Return(nil).Once()

	result, err := suite.service.ProcessStatement(ctx, "january.csv", statementCSV)

	suite.Nil(result)
	suite.ErrorIs(err, decodeErr)
	suite.uploadRepo.AssertExpectations(suite.T())
	suite.categorizer.AssertNotCalled(suite.T(), "Analyze", mock.Anything, mock.Anything, mock.Anything)
	suite.events.AssertCalled(suite.T(), "Enqueue", "smart-ledger", "statement_failed", mock.Anything)
}

func (suite *UploadServiceTestSuite) TestProcessStatement_NotFinancialData() {
	ctx := context.Background()

	suite.expectUploadCreated()
	suite.archive.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("file:///tmp/x", nil).Once()
	suite.uploadRepo.On("SetArchiveURI", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.decoder.On("Decode", mock.Anything, "january.csv", statementCSV).Return("a shopping list", nil).Once()
	suite.categorizer.On("Analyze", mock.Anything, "a shopping list", mock.Anything).Return(&domain.StatementAnalysis{IsFinancialData: false}, nil).Once()
	suite.uploadRepo.On("MarkFailed", mock.Anything, mock.Anything, mock.Anything, fixedNow).Return(nil).Once()

	_, err := suite.service.ProcessStatement(ctx, "january.csv", statementCSV)

	suite.ErrorIs(err, services.ErrNotFinancialData)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ingestion.AssertNotCalled(suite.T(), "Ingest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UploadServiceTestSuite) TestProcessStatement_ClientDisconnectKeepsPipelineRunning() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	live := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })
	analysis := &domain.StatementAnalysis{IsFinancialData: true, Transactions: statementRows()[:1]}

	suite.uploadRepo.On("CreateUpload", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil).Once()
	suite.archive.On("Store", live, mock.Anything, statementCSV).Return("file:///tmp/x", nil).Once()
	suite.uploadRepo.On("SetArchiveURI", live, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.decoder.On("Decode", live, "january.csv", statementCSV).Return("text", nil).Once()
	suite.categorizer.On("Analyze", live, "text", mock.Anything).Return(analysis, nil).Once()
	suite.ingestion.On("Ingest", live, mock.Anything, analysis.Transactions, mock.Anything).
		Return(&domain.IngestionResult{TransactionCount: 1, PostedCount: 1}, nil).Once()

	result, err := suite.service.ProcessStatement(ctx, "january.csv", statementCSV)

	suite.Require().NoError(err)
	suite.Equal(1, result.Ingestion.PostedCount)
	suite.ErrorIs(ctx.Err(), context.Canceled)
	suite.ingestion.AssertExpectations(suite.T())
}

func (suite *UploadServiceTestSuite) TestProcessStatement_ReportsRejectedRows() {
	ctx := context.Background()
	rejected := domain.RowError{Index: 1, Stage: domain.StageExtract, Message: `unusable amount "n/a"`}
	posting := domain.RowError{Index: 0, TransactionID: "t-1", Stage: domain.StagePost, Message: "lock timeout"}
	analysis := &domain.StatementAnalysis{
		IsFinancialData: true,
		Transactions:    statementRows()[:1],
		Rejected:        []domain.RowError{rejected},
	}

	suite.expectUploadCreated()
	suite.archive.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("file:///tmp/x", nil).Once()
	suite.uploadRepo.On("SetArchiveURI", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.decoder.On("Decode", mock.Anything, "january.csv", statementCSV).Return("text", nil).Once()
	suite.categorizer.On("Analyze", mock.Anything, "text", mock.Anything).Return(analysis, nil).Once()
	suite.ingestion.On("Ingest", mock.Anything, mock.Anything, analysis.Transactions, mock.Anything).
		Return(&domain.IngestionResult{TransactionCount: 1, RowErrors: []domain.RowError{posting}}, nil).Once()

	result, err := suite.service.ProcessStatement(ctx, "january.csv", statementCSV)

	suite.Require().NoError(err)
	suite.Equal(1, result.Ingestion.TransactionCount)
	suite.Equal([]domain.RowError{rejected, posting}, result.Ingestion.RowErrors)
}

func (suite *UploadServiceTestSuite) TestGetUpload_NotFound() {
	ctx := context.Background()
	suite.uploadRepo.On("FindUploadByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetUpload(ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UploadServiceTestSuite) TestListUploads_ClampsLimit() {
	ctx := context.Background()
	suite.uploadRepo.On("ListUploads", mock.Anything, 50, 0).Return(nil, nil).Once()

	uploads, err := suite.service.ListUploads(ctx, 0, -3)

	suite.Require().NoError(err)
	suite.NotNil(uploads)
	suite.Empty(uploads)
}

func TestUploadServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UploadServiceTestSuite))
}
