package models

import "time"

// AuditFields holds audit timestamps stored on every mutable row.
type AuditFields struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
