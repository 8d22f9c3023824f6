package services

import (
	"context"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// StatementDecoder turns an uploaded file into plain text.
type StatementDecoder interface {
	// Decode returns the text content of a statement. Unsupported formats yield
	// apperrors.ErrValidation.
	Decode(ctx context.Context, fileName string, data []byte) (string, error)
}

// Categorizer extracts candidate transactions from statement text. Its output is untrusted.
type Categorizer interface {
	Analyze(ctx context.Context, content string, categories []domain.Category) (*domain.StatementAnalysis, error)
}

// FileArchive stores the raw bytes of uploaded statements.
type FileArchive interface {
	// Store saves data under key and returns a URI that locates it.
	Store(ctx context.Context, key string, data []byte) (string, error)
}

// AccountLocker serializes ledger writes per account.
type AccountLocker interface {
	// Lock blocks until the account's lock is held or ctx ends. The returned
	// function releases it.
	Lock(ctx context.Context, accountID string) (unlock func(), err error)
}

// EventPublisher records product analytics events.
type EventPublisher interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
