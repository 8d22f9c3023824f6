package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies a bank account.
type AccountType string

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	CreditCard AccountType = "credit"
	Business   AccountType = "business"
)

// DefaultCurrency is used when a statement does not name one.
const DefaultCurrency = "EUR"

// DefaultAccountID identifies the seeded single-tenant fallback account.
const DefaultAccountID = "00000000-0000-0000-0000-000000000001"

// Account represents a bank account whose balance is derived from its ledger.
type Account struct {
	AccountID      string          `json:"accountID"`
	AccountNumber  string          `json:"accountNumber"` // empty when the source did not provide one
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`
	OpeningBalance decimal.Decimal `json:"openingBalance"` // fixed at creation
	CurrentBalance decimal.Decimal `json:"currentBalance"` // written only by ledger posting and recompute
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// AccountInfo is the optional account metadata extracted from a statement.
type AccountInfo struct {
	AccountNumber string
	AccountName   string
	AccountType   string
	Currency      string
}

// AccountBalance is the balance view of an account.
type AccountBalance struct {
	AccountID string          `json:"accountID"`
	Current   decimal.Decimal `json:"current"`
	Opening   decimal.Decimal `json:"opening"`
	NetChange decimal.Decimal `json:"netChange"`
}

// IsValidAccountType reports whether t is one of the known account types.
func IsValidAccountType(t AccountType) bool {
	switch t {
	case Checking, Savings, CreditCard, Business:
		return true
	}
	return false
}
