package mapping

import (
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/SscSPs/smart_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		UploadID:      d.UploadID,
		AccountID:     d.AccountID,
		Date:          d.Date,
		RawDate:       d.RawDate,
		Description:   d.Description,
		Amount:        d.Amount,
		Type:          string(d.Type),
		CategoryCode:  d.CategoryCode,
		Confidence:    d.Confidence,
		Counterparty:  d.Counterparty,
		Reasoning:     d.Reasoning,
		Notes:         d.Notes,
		IsManual:      d.IsManual,
		Reconciled:    d.Reconciled,
		LedgerEntryID: d.LedgerEntryID,
		PostingError:  d.PostingError,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		UploadID:      m.UploadID,
		AccountID:     m.AccountID,
		Date:          m.Date,
		RawDate:       m.RawDate,
		Description:   m.Description,
		Amount:        m.Amount,
		Type:          domain.TransactionType(m.Type),
		CategoryCode:  m.CategoryCode,
		Confidence:    m.Confidence,
		Counterparty:  m.Counterparty,
		Reasoning:     m.Reasoning,
		Notes:         m.Notes,
		IsManual:      m.IsManual,
		Reconciled:    m.Reconciled,
		LedgerEntryID: m.LedgerEntryID,
		PostingError:  m.PostingError,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
