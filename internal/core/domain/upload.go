package domain

// UploadStatus tracks the processing state of an ingested file.
type UploadStatus string

const (
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
)

// Upload is one ingestion batch.
type Upload struct {
	UploadID         string       `json:"uploadID"`
	FileName         string       `json:"fileName"`
	FileType         string       `json:"fileType"`
	Status           UploadStatus `json:"status"`
	TransactionCount int          `json:"transactionCount"`
	PostedCount      int          `json:"postedCount"`
	ErrorMessage     string       `json:"errorMessage"`
	AccountID        *string      `json:"accountID"`
	ArchiveURI       string       `json:"archiveURI"`
	AuditFields
}

// RowStage names where a row-level failure happened.
type RowStage string

const (
	StageExtract   RowStage = "extract"
	StageNormalize RowStage = "normalize"
	StagePost      RowStage = "post"
)

// RowError is a recoverable failure for a single ingested row. For the extract
// stage Index points into the categorizer's rows, otherwise into the stored batch.
type RowError struct {
	Index         int      `json:"index"`
	TransactionID string   `json:"transactionID,omitempty"`
	Stage         RowStage `json:"stage"`
	Message       string   `json:"message"`
}

// IngestionResult reports what an ingestion stored and posted.
type IngestionResult struct {
	UploadID         string     `json:"uploadID"`
	AccountID        string     `json:"accountID"`
	TransactionCount int        `json:"transactionCount"`
	PostedCount      int        `json:"postedCount"`
	RowErrors        []RowError `json:"rowErrors"`
}

// StatementAnalysis is the categorizer's view of a decoded statement.
type StatementAnalysis struct {
	IsFinancialData bool
	Account         *AccountInfo
	Transactions    []RawTransaction
	Rejected        []RowError // rows dropped before storage
	Summary         string
	Analysis        string
}
