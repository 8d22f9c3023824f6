package mapping

import (
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/SscSPs/smart_ledger/internal/models"
)

// ToModelUpload converts a domain Upload to a model Upload
func ToModelUpload(d domain.Upload) models.Upload {
	return models.Upload{
		UploadID:         d.UploadID,
		FileName:         d.FileName,
		FileType:         d.FileType,
		Status:           string(d.Status),
		TransactionCount: d.TransactionCount,
		PostedCount:      d.PostedCount,
		ErrorMessage:     d.ErrorMessage,
		AccountID:        d.AccountID,
		ArchiveURI:       d.ArchiveURI,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUpload converts a model Upload to a domain Upload
func ToDomainUpload(m models.Upload) domain.Upload {
	return domain.Upload{
		UploadID:         m.UploadID,
		FileName:         m.FileName,
		FileType:         m.FileType,
		Status:           domain.UploadStatus(m.Status),
		TransactionCount: m.TransactionCount,
		PostedCount:      m.PostedCount,
		ErrorMessage:     m.ErrorMessage,
		AccountID:        m.AccountID,
		ArchiveURI:       m.ArchiveURI,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
