package ports

import (
	"context"

	"github.com/retailops/session-gateway/internal/core/domain"
)

// SessionService orchestrates login, logout and the password recovery flows,
// and exposes the authenticated/unauthenticated query used by the rest of
// the gateway.
type SessionService interface {
	Login(ctx context.Context, sid, email, password string) (domain.Session, error)
	Logout(ctx context.Context, sid string) error

	IsAuthenticated(ctx context.Context, sid string) bool
	Session(ctx context.Context, sid string) domain.Session
	Token(ctx context.Context, sid string) string
	User(ctx context.Context, sid string) *domain.User
	Persona(ctx context.Context, sid string) *domain.Persona
	Roles(ctx context.Context, sid string) []domain.Role

	SavePersona(ctx context.Context, sid string, persona *domain.Persona) error
	SaveRoles(ctx context.Context, sid string, roles []domain.Role) error

	IsTokenExpired(raw string) bool

	RecoverPassword(ctx context.Context, email string) (*domain.AuthResult, error)
	ValidateResetToken(ctx context.Context, resetToken string) (*domain.AuthResult, error)
	ResetPassword(ctx context.Context, resetToken, password string) (*domain.AuthResult, error)
}
