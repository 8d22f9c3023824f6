package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockRepo *MockTransactionRepository
	service  portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
	suite.service = services.NewTransactionService(suite.mockRepo, services.WithClock(fixedClock))
}

func ptrFloat(f float64) *float64 { return &f }

func (suite *TransactionServiceTestSuite) TestInsertBatch_NormalizesRows() {
	ctx := context.Background()
	accountID := uuid.NewString()
	uploadID := uuid.NewString()
	raw := []domain.RawTransaction{
		{Date: "05/01/2025", Description: " Client payment ", Amount: decimal.NewFromInt(100), Type: "credit", CategoryCode: "invoice_payment_full", Confidence: ptrFloat(0.92)},
		{Date: "2025-01-06", Description: "Card fee", Amount: decimal.NewFromInt(-40), Type: "", CategoryCode: "", Confidence: nil},
		{Date: "2025-01-07", Description: "Mystery", Amount: decimal.NewFromInt(10), Type: "DEBIT", CategoryCode: "SOMETHING_NEW", Confidence: ptrFloat(0.9)},
		{Date: "2025-01-08", Description: "Odd score", Amount: decimal.NewFromInt(1), Type: "CREDIT", Confidence: ptrFloat(7)},
	}

	var stored []domain.Transaction
	suite.mockRepo.On("InsertBatch", ctx, mock.AnythingOfType("[]domain.Transaction")).
		Run(func(args mock.Arguments) { stored = args.Get(1).([]domain.Transaction) }).
		Return(nil).Once()

	txns, rowErrors, err := suite.service.InsertBatch(ctx, raw, &uploadID, accountID)

	suite.Require().NoError(err)
	suite.Empty(rowErrors)
	suite.Require().Len(txns, 4)
	suite.Equal(txns, stored)

	first := txns[0]
	suite.Equal(domain.Credit, first.Type)
	suite.Equal("INVOICE_PAYMENT_FULL", first.CategoryCode)
	suite.Equal(0.92, first.Confidence)
	suite.Equal(" Client payment ", first.Description)
	suite.Equal(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), *first.Date)
	suite.Equal(&uploadID, first.UploadID)
	suite.Equal(accountID, first.AccountID)

	second := txns[1]
	suite.Equal(domain.Debit, second.Type)
	suite.Equal(domain.UncategorizedOut, second.CategoryCode)
	suite.Equal(domain.DefaultConfidence, second.Confidence)
	suite.Equal("40", second.Amount.String())

	third := txns[2]
	suite.Equal(domain.UncategorizedOut, third.CategoryCode)
	suite.Equal(0.5, third.Confidence)

	suite.Equal(1.0, txns[3].Confidence)
	suite.Equal(domain.Credit, txns[3].Type)

	for i := 1; i < len(txns); i++ {
		suite.True(txns[i].CreatedAt.After(txns[i-1].CreatedAt), "created_at must follow input order")
	}
}

func (suite *TransactionServiceTestSuite) TestInsertBatch_UnparsableDateIsStoredWithRowError() {
	ctx := context.Background()
	raw := []domain.RawTransaction{
		{Date: "2025-02-01", Description: "ok", Amount: decimal.NewFromInt(5), Type: "CREDIT"},
		{Date: "not a date", Description: "bad", Amount: decimal.NewFromInt(5), Type: "DEBIT"},
	}
	suite.mockRepo.On("InsertBatch", ctx, mock.AnythingOfType("[]domain.Transaction")).Return(nil).Once()

	txns, rowErrors, err := suite.service.InsertBatch(ctx, raw, nil, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().Len(txns, 2)
	suite.Nil(txns[1].Date)
	suite.Equal("not a date", txns[1].RawDate)
	suite.NotEmpty(txns[1].PostingError)
	suite.Require().Len(rowErrors, 1)
	suite.Equal(1, rowErrors[0].Index)
	suite.Equal(domain.StageNormalize, rowErrors[0].Stage)
	suite.Equal(txns[1].TransactionID, rowErrors[0].TransactionID)
}

func (suite *TransactionServiceTestSuite) TestInsertBatch_StoreFailureStoresNothing() {
	ctx := context.Background()
	suite.mockRepo.On("InsertBatch", ctx, mock.Anything).Return(apperrors.ErrValidation).Once()

	txns, rowErrors, err := suite.service.InsertBatch(ctx, []domain.RawTransaction{{Date: "2025-01-01", Amount: decimal.NewFromInt(1)}}, nil, uuid.NewString())

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(txns)
	suite.Nil(rowErrors)
}

func (suite *TransactionServiceTestSuite) TestInsertBatch_RequiresAccount() {
	_, _, err := suite.service.InsertBatch(context.Background(), []domain.RawTransaction{{}}, nil, "")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "InsertBatch", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_CanonicalizesCategory() {
	ctx := context.Background()
	id := uuid.NewString()
	code := " rent "
	suite.mockRepo.On("UpdateTransactionAnnotations", ctx, id, mock.MatchedBy(func(p domain.TransactionUpdate) bool {
		return p.CategoryCode != nil && *p.CategoryCode == "RENT"
	}), fixedNow).Return(nil).Once()
	suite.mockRepo.On("FindTransactionByID", ctx, id).Return(&domain.Transaction{TransactionID: id, CategoryCode: "RENT", IsManual: true}, nil).Once()

	txn, err := suite.service.UpdateTransaction(ctx, id, domain.TransactionUpdate{CategoryCode: &code})

	suite.Require().NoError(err)
	suite.True(txn.IsManual)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_RejectsUnknownCategory() {
	code := "LOTTERY_WIN"
	_, err := suite.service.UpdateTransaction(context.Background(), uuid.NewString(), domain.TransactionUpdate{CategoryCode: &code})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateTransactionAnnotations", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestQueryTransactions_ClampsLimit() {
	ctx := context.Background()
	suite.mockRepo.On("QueryTransactions", ctx, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Limit == 500 && f.Offset == 0
	})).Return(nil, nil).Once()

	txns, err := suite.service.QueryTransactions(ctx, domain.TransactionFilter{Limit: 10_000, Offset: -3})

	suite.Require().NoError(err)
	suite.NotNil(txns)
	suite.Empty(txns)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
