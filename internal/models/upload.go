package models

// Upload is the row shape of the uploads table.
type Upload struct {
	UploadID         string  `db:"upload_id"`
	FileName         string  `db:"file_name"`
	FileType         string  `db:"file_type"`
	Status           string  `db:"status"`
	TransactionCount int     `db:"transaction_count"`
	PostedCount      int     `db:"posted_count"`
	ErrorMessage     string  `db:"error_message"`
	AccountID        *string `db:"account_id"`
	ArchiveURI       string  `db:"archive_uri"`
	AuditFields
}
