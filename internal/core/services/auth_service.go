package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/platform/config"
	"github.com/SscSPs/smart_ledger/internal/utils"
)

// authService checks the configured operator credentials and issues access tokens.
type authService struct {
	BaseService
	cfg *config.Config
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config, opts ...Option) portssvc.AuthSvc {
	svc := &authService{cfg: cfg}
	applyOptions(&svc.BaseService, opts)
	return svc
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" {
		s.LogWarn(ctx, "Login attempted but no admin credentials are configured")
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(s.cfg.AdminEmail))) == 1
	// Always run bcrypt so a wrong email costs the same as a wrong password.
	passwordOK := utils.CheckPasswordHash(password, s.cfg.AdminPasswordHash)
	if !emailOK || !passwordOK {
		s.LogWarn(ctx, "Invalid login attempt", slog.String("email", email))
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	expiresAt := s.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(email, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token")
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.LogInfo(ctx, "Admin logged in", slog.String("email", email))
	return token, expiresAt, nil
}
