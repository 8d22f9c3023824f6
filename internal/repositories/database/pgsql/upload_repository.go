package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/smart_ledger/internal/models"
	"github.com/SscSPs/smart_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uploadColumns = `upload_id, file_name, file_type, status, transaction_count, posted_count,
	error_message, account_id, archive_uri, created_at, updated_at`

// PgxUploadRepository tracks ingestion batches.
type PgxUploadRepository struct {
	BaseRepository
}

func newPgxUploadRepository(pool *pgxpool.Pool) portsrepo.UploadRepository {
	return &PgxUploadRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UploadRepository = (*PgxUploadRepository)(nil)

func (r *PgxUploadRepository) CreateUpload(ctx context.Context, upload domain.Upload) error {
	m := mapping.ToModelUpload(upload)
	query := `
		INSERT INTO uploads (` + uploadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UploadID,
		m.FileName,
		m.FileType,
		m.Status,
		m.TransactionCount,
		m.PostedCount,
		m.ErrorMessage,
		m.AccountID,
		m.ArchiveURI,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to create upload "+m.UploadID)
	}
	return nil
}

func (r *PgxUploadRepository) FindUploadByID(ctx context.Context, uploadID string) (*domain.Upload, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE upload_id = $1;`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query upload %s: %w", uploadID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Upload])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan upload %s: %w", uploadID, err)
	}
	u := mapping.ToDomainUpload(m)
	return &u, nil
}

// ListUploads returns uploads newest first.
func (r *PgxUploadRepository) ListUploads(ctx context.Context, limit int, offset int) ([]domain.Upload, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+uploadColumns+`
		FROM uploads
		ORDER BY created_at DESC, upload_id DESC
		LIMIT $1 OFFSET $2;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Upload])
	if err != nil {
		return nil, fmt.Errorf("failed to scan uploads: %w", err)
	}
	uploads := make([]domain.Upload, len(ms))
	for i, m := range ms {
		uploads[i] = mapping.ToDomainUpload(m)
	}
	return uploads, nil
}

func (r *PgxUploadRepository) AttachAccount(ctx context.Context, uploadID string, accountID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE uploads SET account_id = $2, updated_at = $3 WHERE upload_id = $1;`,
		uploadID, accountID, now,
	)
	if err != nil {
		return mapPgError(err, "failed to attach account to upload "+uploadID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("upload " + uploadID)
	}
	return nil
}

func (r *PgxUploadRepository) SetArchiveURI(ctx context.Context, uploadID string, uri string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE uploads SET archive_uri = $2, updated_at = $3 WHERE upload_id = $1;`,
		uploadID, uri, now,
	)
	if err != nil {
		return fmt.Errorf("failed to set archive uri for upload %s: %w", uploadID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("upload " + uploadID)
	}
	return nil
}

func (r *PgxUploadRepository) MarkCompleted(ctx context.Context, uploadID string, transactionCount int, postedCount int, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE uploads
		SET status = $2, transaction_count = $3, posted_count = $4, updated_at = $5
		WHERE upload_id = $1 AND status = $6;`,
		uploadID, string(domain.UploadCompleted), transactionCount, postedCount, now, string(domain.UploadProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to complete upload %s: %w", uploadID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.transitionError(ctx, uploadID)
	}
	return nil
}

func (r *PgxUploadRepository) MarkFailed(ctx context.Context, uploadID string, message string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE uploads
		SET status = $2, error_message = $3, updated_at = $4
		WHERE upload_id = $1 AND status = $5;`,
		uploadID, string(domain.UploadFailed), message, now, string(domain.UploadProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to mark upload %s failed: %w", uploadID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.transitionError(ctx, uploadID)
	}
	return nil
}

// transitionError distinguishes a missing upload from one that already left processing.
func (r *PgxUploadRepository) transitionError(ctx context.Context, uploadID string) error {
	u, err := r.FindUploadByID(ctx, uploadID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: upload %s is already %s", apperrors.ErrConflict, uploadID, u.Status)
}
