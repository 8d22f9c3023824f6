package dto

import (
	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// ReportParams defines the common reporting filters.
type ReportParams struct {
	AccountID string `form:"accountId" json:"accountId"`
	Type      string `form:"type" json:"type" binding:"omitempty,oneof=CREDIT DEBIT credit debit"`
	DateFrom  string `form:"dateFrom" json:"dateFrom"`
	DateTo    string `form:"dateTo" json:"dateTo"`
}

// ToFilter converts the parameters to a domain.ReportFilter.
func (p ReportParams) ToFilter() (domain.ReportFilter, error) {
	from, to, err := ParseDateRange(p.DateFrom, p.DateTo)
	if err != nil {
		return domain.ReportFilter{}, err
	}
	return domain.ReportFilter{
		AccountID: optionalString(p.AccountID),
		Type:      optionalType(p.Type),
		DateFrom:  from,
		DateTo:    to,
	}, nil
}

// TopTransactionsParams adds a row limit to the reporting filters.
type TopTransactionsParams struct {
	ReportParams
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// AccountScopeParams optionally restricts a report to one account.
type AccountScopeParams struct {
	AccountID string `form:"accountId"`
}

// Account returns the account filter, nil for all accounts.
func (p AccountScopeParams) Account() *string {
	return optionalString(p.AccountID)
}

// MonthlyComparisonParams selects the year to compare. Zero means the current year.
type MonthlyComparisonParams struct {
	AccountScopeParams
	Year int `form:"year" binding:"omitempty,min=1900,max=9999"`
}

// ExportCSVRequest selects the transactions to export.
type ExportCSVRequest struct {
	ReportParams
	CategoryCode string `json:"category"`
	Search       string `json:"search" binding:"max=200"`
}

// ToTransactionFilter converts the export request into a transaction query.
func (r ExportCSVRequest) ToTransactionFilter() (domain.TransactionFilter, error) {
	from, to, err := ParseDateRange(r.DateFrom, r.DateTo)
	if err != nil {
		return domain.TransactionFilter{}, err
	}
	return domain.TransactionFilter{
		AccountID:    optionalString(r.AccountID),
		CategoryCode: optionalString(r.CategoryCode),
		Type:         optionalType(r.Type),
		DateFrom:     from,
		DateTo:       to,
		Search:       optionalString(r.Search),
	}, nil
}

// CategoryResponse is one entry of the category catalog.
type CategoryResponse struct {
	Code   string `json:"code"`
	Type   string `json:"type"`
	NameEN string `json:"nameEN"`
	NameEL string `json:"nameEL"`
}

// ToCategoryResponses converts the catalog.
func ToCategoryResponses(cats []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		res[i] = CategoryResponse{Code: c.Code, Type: string(c.Type), NameEN: c.NameEN, NameEL: c.NameEL}
	}
	return res
}
