package mapping

import (
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/SscSPs/smart_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	var number *string
	if d.AccountNumber != "" {
		n := d.AccountNumber
		number = &n
	}
	return models.Account{
		AccountID:      d.AccountID,
		AccountNumber:  number,
		Name:           d.Name,
		AccountType:    string(d.AccountType),
		CurrencyCode:   d.CurrencyCode,
		OpeningBalance: d.OpeningBalance,
		CurrentBalance: d.CurrentBalance,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	number := ""
	if m.AccountNumber != nil {
		number = *m.AccountNumber
	}
	return domain.Account{
		AccountID:      m.AccountID,
		AccountNumber:  number,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		CurrencyCode:   m.CurrencyCode,
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
