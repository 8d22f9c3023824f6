package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter narrows reporting queries over stored transactions.
type ReportFilter struct {
	AccountID *string
	Type      *TransactionType
	DateFrom  *time.Time
	DateTo    *time.Time
}

// ReportSummary totals income and expenses over a period.
type ReportSummary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transactionCount"`
	UnpostedCount    int             `json:"unpostedCount"`
}

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	CategoryCode     string          `json:"categoryCode"`
	Type             TransactionType `json:"type"`
	TransactionCount int             `json:"transactionCount"`
	Total            decimal.Decimal `json:"total"`
	AverageAmount    decimal.Decimal `json:"averageAmount"`
	AvgConfidence    float64         `json:"avgConfidence"`
	FirstDate        *time.Time      `json:"firstDate"`
	LastDate         *time.Time      `json:"lastDate"`
}

// ReconciliationStatus counts reconciled and pending ledger entries of one account.
// Amounts are gross, credits and debits added together.
type ReconciliationStatus struct {
	AccountID         string          `json:"accountId"`
	AccountName       string          `json:"accountName"`
	ReconciledCount   int             `json:"reconciledCount"`
	ReconciledAmount  decimal.Decimal `json:"reconciledAmount"`
	PendingCount      int             `json:"pendingCount"`
	PendingAmount     decimal.Decimal `json:"pendingAmount"`
	ReconciledPercent float64         `json:"reconciledPercent"`
}

// CashFlowPeriod is the money in and out of one calendar month.
type CashFlowPeriod struct {
	Month        time.Time       `json:"month"`
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	Net          decimal.Decimal `json:"net"`
	IncomeCount  int             `json:"incomeCount"`
	ExpenseCount int             `json:"expenseCount"`
}

// TopTransaction is one row of the largest-amount report.
type TopTransaction struct {
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	Date          *time.Time      `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	CategoryCode  string          `json:"categoryCode"`
	Counterparty  string          `json:"counterparty"`
	Confidence    float64         `json:"confidence"`
}

// MonthlyComparison holds one month of a year next to the month before it.
// NetChangePercent is nil when the previous net was zero.
type MonthlyComparison struct {
	Month            time.Time       `json:"month"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transactionCount"`
	PreviousNet      decimal.Decimal `json:"previousNet"`
	NetChange        decimal.Decimal `json:"netChange"`
	NetChangePercent *float64        `json:"netChangePercent"`
}

// DashboardSummary is the headline numbers for one account, or all of them.
type DashboardSummary struct {
	TotalTransactions int             `json:"totalTransactions"`
	CreditCount       int             `json:"creditCount"`
	DebitCount        int             `json:"debitCount"`
	CreditTotal       decimal.Decimal `json:"creditTotal"`
	DebitTotal        decimal.Decimal `json:"debitTotal"`
	NetFlow           decimal.Decimal `json:"netFlow"`
	ReconciledCount   int             `json:"reconciledCount"`
	UnpostedCount     int             `json:"unpostedCount"`
}
