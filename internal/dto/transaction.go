package dto

import (
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsParams defines query parameters for querying transactions.
type ListTransactionsParams struct {
	AccountID    string `form:"accountId"`
	UploadID     string `form:"uploadId"`
	CategoryCode string `form:"category"`
	Type         string `form:"type" binding:"omitempty,oneof=CREDIT DEBIT credit debit"`
	DateFrom     string `form:"dateFrom"`
	DateTo       string `form:"dateTo"`
	Search       string `form:"search" binding:"max=200"`
	Posted       *bool  `form:"posted"`
	Limit        int    `form:"limit,default=50" binding:"min=0,max=500"`
	Offset       int    `form:"offset,default=0" binding:"min=0"`
}

// ToFilter converts the query parameters to a domain filter.
func (p ListTransactionsParams) ToFilter() (domain.TransactionFilter, error) {
	from, to, err := ParseDateRange(p.DateFrom, p.DateTo)
	if err != nil {
		return domain.TransactionFilter{}, err
	}
	return domain.TransactionFilter{
		AccountID:    optionalString(p.AccountID),
		UploadID:     optionalString(p.UploadID),
		CategoryCode: optionalString(p.CategoryCode),
		Type:         optionalType(p.Type),
		DateFrom:     from,
		DateTo:       to,
		Search:       optionalString(p.Search),
		Posted:       p.Posted,
		Limit:        p.Limit,
		Offset:       p.Offset,
	}, nil
}

// UpdateTransactionRequest is the manual correction payload.
type UpdateTransactionRequest struct {
	CategoryCode *string `json:"categoryCode" binding:"omitempty,category_code"`
	Notes        *string `json:"notes" binding:"omitempty,max=2000"`
}

// ToUpdate converts the request to a domain patch.
func (r UpdateTransactionRequest) ToUpdate() domain.TransactionUpdate {
	return domain.TransactionUpdate{CategoryCode: r.CategoryCode, Notes: r.Notes}
}

// CreateManualTransactionRequest records a transaction entered by hand.
type CreateManualTransactionRequest struct {
	AccountID    *string         `json:"accountID"`
	Date         string          `json:"date" binding:"required"`
	Description  string          `json:"description" binding:"required,max=1000"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type" binding:"required,oneof=CREDIT DEBIT"`
	CategoryCode string          `json:"categoryCode" binding:"omitempty,category_code"`
	Counterparty string          `json:"counterparty" binding:"max=255"`
	Notes        string          `json:"notes" binding:"max=2000"`
}

// ToRaw converts the request into the candidate shape the transaction store consumes.
func (r CreateManualTransactionRequest) ToRaw() domain.RawTransaction {
	confidence := 1.0
	return domain.RawTransaction{
		Date:         r.Date,
		Description:  r.Description,
		Amount:       r.Amount,
		Type:         r.Type,
		CategoryCode: r.CategoryCode,
		Confidence:   &confidence,
		Counterparty: r.Counterparty,
		Reasoning:    r.Notes,
		Notes:        r.Notes,
		Manual:       true,
	}
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	UploadID      *string         `json:"uploadID"`
	AccountID     string          `json:"accountID"`
	Date          *string         `json:"date"`
	RawDate       string          `json:"rawDate,omitempty"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	CategoryCode  string          `json:"categoryCode"`
	Confidence    float64         `json:"confidence"`
	Counterparty  string          `json:"counterparty"`
	Reasoning     string          `json:"reasoning,omitempty"`
	Notes         string          `json:"notes"`
	IsManual      bool            `json:"isManual"`
	Reconciled    bool            `json:"reconciled"`
	Posted        bool            `json:"posted"`
	LedgerEntryID *string         `json:"ledgerEntryID"`
	PostingError  string          `json:"postingError,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	var date *string
	if t.Date != nil {
		d := t.Date.Format(domain.ISODate)
		date = &d
	}
	return TransactionResponse{
		TransactionID: t.TransactionID,
		UploadID:      t.UploadID,
		AccountID:     t.AccountID,
		Date:          date,
		RawDate:       t.RawDate,
		Description:   t.Description,
		Amount:        t.Amount,
		Type:          string(t.Type),
		CategoryCode:  t.CategoryCode,
		Confidence:    t.Confidence,
		Counterparty:  t.Counterparty,
		Reasoning:     t.Reasoning,
		Notes:         t.Notes,
		IsManual:      t.IsManual,
		Reconciled:    t.Reconciled,
		Posted:        t.IsPosted(),
		LedgerEntryID: t.LedgerEntryID,
		PostingError:  t.PostingError,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// ManualTransactionResponse is returned after recording and posting a manual entry.
type ManualTransactionResponse struct {
	Transaction TransactionResponse  `json:"transaction"`
	Entry       *LedgerEntryResponse `json:"entry"`
}
