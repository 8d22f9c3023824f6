package domain

import "time"

// AuditFields holds standard audit timestamps for domain entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ISODate is the layout every stored calendar date is normalized to.
const ISODate = "2006-01-02"
