package mapping

import (
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/SscSPs/smart_ledger/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:            d.EntryID,
		AccountID:          d.AccountID,
		TransactionID:      d.TransactionID,
		EntryDate:          d.EntryDate,
		EntryType:          string(d.EntryType),
		Amount:             d.Amount,
		RunningBalance:     d.RunningBalance,
		Description:        d.Description,
		Notes:              d.Notes,
		Reconciled:         d.Reconciled,
		ReconciliationDate: d.ReconciliationDate,
		CreatedAt:          d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:            m.EntryID,
		AccountID:          m.AccountID,
		TransactionID:      m.TransactionID,
		EntryDate:          m.EntryDate,
		EntryType:          domain.TransactionType(m.EntryType),
		Amount:             m.Amount,
		RunningBalance:     m.RunningBalance,
		Description:        m.Description,
		Notes:              m.Notes,
		Reconciled:         m.Reconciled,
		ReconciliationDate: m.ReconciliationDate,
		CreatedAt:          m.CreatedAt,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model entries to domain entries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
