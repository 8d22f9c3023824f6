package services

import (
	"context"
	"time"
)

// AuthSvc authenticates the configured operator and issues access tokens.
type AuthSvc interface {
	Login(ctx context.Context, email, password string) (token string, expiresAt time.Time, err error)
}
