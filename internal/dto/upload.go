package dto

import (
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// UploadResponse is the pollable status record of an upload.
type UploadResponse struct {
	UploadID         string    `json:"uploadID"`
	FileName         string    `json:"fileName"`
	FileType         string    `json:"fileType"`
	Status           string    `json:"status"`
	TransactionCount int       `json:"transactionCount"`
	PostedCount      int       `json:"postedCount"`
	ErrorMessage     string    `json:"errorMessage,omitempty"`
	AccountID        *string   `json:"accountID"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ToUploadResponse converts a domain.Upload to its DTO.
func ToUploadResponse(u *domain.Upload) UploadResponse {
	return UploadResponse{
		UploadID:         u.UploadID,
		FileName:         u.FileName,
		FileType:         u.FileType,
		Status:           string(u.Status),
		TransactionCount: u.TransactionCount,
		PostedCount:      u.PostedCount,
		ErrorMessage:     u.ErrorMessage,
		AccountID:        u.AccountID,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// ListUploadsParams defines paging for upload history.
type ListUploadsParams struct {
	Limit  int `form:"limit,default=50" binding:"min=0,max=500"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// StatementUploadResponse is returned after a statement file was ingested.
type StatementUploadResponse struct {
	UploadID         string            `json:"uploadID"`
	AccountID        string            `json:"accountID"`
	TransactionCount int               `json:"transactionCount"`
	PostedCount      int               `json:"postedCount"`
	RowErrors        []domain.RowError `json:"rowErrors"`
	Summary          string            `json:"summary,omitempty"`
	Analysis         string            `json:"analysis,omitempty"`
}

// StatementResult bundles the ingestion outcome with the categorizer's narrative.
type StatementResult struct {
	Ingestion *domain.IngestionResult
	Summary   string
	Analysis  string
}

// ToStatementUploadResponse converts a StatementResult to its DTO.
func ToStatementUploadResponse(r *StatementResult) StatementUploadResponse {
	rowErrors := r.Ingestion.RowErrors
	if rowErrors == nil {
		rowErrors = []domain.RowError{}
	}
	return StatementUploadResponse{
		UploadID:         r.Ingestion.UploadID,
		AccountID:        r.Ingestion.AccountID,
		TransactionCount: r.Ingestion.TransactionCount,
		PostedCount:      r.Ingestion.PostedCount,
		RowErrors:        rowErrors,
		Summary:          r.Summary,
		Analysis:         r.Analysis,
	}
}
