package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
)

// ParseDateParam parses an optional YYYY-MM-DD query value.
func ParseDateParam(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.ISODate, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", apperrors.ErrValidation, name)
	}
	return &t, nil
}

// ParseDateRange parses from/to and checks their order.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	f, err := ParseDateParam("dateFrom", from)
	if err != nil {
		return nil, nil, err
	}
	t, err := ParseDateParam("dateTo", to)
	if err != nil {
		return nil, nil, err
	}
	if f != nil && t != nil && t.Before(*f) {
		return nil, nil, fmt.Errorf("%w: dateTo is before dateFrom", apperrors.ErrValidation)
	}
	return f, t, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalType(s string) *domain.TransactionType {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	t := domain.TransactionType(s)
	return &t
}
