package ports

import (
	"context"

	"github.com/retailops/session-gateway/internal/core/domain"
)

// AuthClient talks to the remote authentication endpoint. Every failure —
// network-level or non-2xx — surfaces as *domain.AuthError; callers never see
// a raw transport error.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	RecoverPassword(ctx context.Context, email string) (*domain.AuthResult, error)
	ValidateResetToken(ctx context.Context, resetToken string) (*domain.AuthResult, error)
	ResetPassword(ctx context.Context, resetToken, password string) (*domain.AuthResult, error)
}
