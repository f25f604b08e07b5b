package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailops/session-gateway/internal/core/domain"
	"github.com/retailops/session-gateway/internal/core/ports"
	"github.com/retailops/session-gateway/internal/pkg/metrics"
	"github.com/retailops/session-gateway/internal/pkg/token"
)

// SessionService establishes, reads and tears down browser sessions. It is
// the error boundary for the authentication endpoint: callers only ever see
// *domain.AuthError or a successful value.
type SessionService struct {
	store  ports.CredentialStore
	client ports.AuthClient
	audit  ports.AuditSink
	logger zerolog.Logger
}

// NewSessionService wires the service. audit may be nil, in which case no
// trail is written.
func NewSessionService(store ports.CredentialStore, client ports.AuthClient, audit ports.AuditSink, logger zerolog.Logger) *SessionService {
	return &SessionService{store: store, client: client, audit: audit, logger: logger}
}

// Login authenticates against the remote endpoint and persists the credential
// and identity together. On any remote failure the store is left untouched.
func (s *SessionService) Login(ctx context.Context, sid, email, password string) (domain.Session, error) {
	tok, user, err := s.client.Login(ctx, email, password)
	if err != nil {
		authErr := asAuthError(err)
		if authErr.Status == 0 {
			metrics.LoginsTotal.WithLabelValues("unreachable").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		}
		s.record(domain.AuditEvent{SID: sid, Kind: domain.AuditLoginFailed, Email: email, At: time.Now().UTC()})
		return domain.Session{}, authErr
	}

	if err := s.store.SaveSession(ctx, sid, tok, user); err != nil {
		return domain.Session{}, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(domain.AuditEvent{SID: sid, Kind: domain.AuditLogin, Email: email, At: time.Now().UTC()})
	s.logger.Info().Str("sid", sid).Str("user_id", user.ID).Msg("session established")

	return domain.Session{Token: tok, User: user}, nil
}

// Logout clears local session state. It performs no remote call and is
// idempotent: clearing an absent session is a no-op.
func (s *SessionService) Logout(ctx context.Context, sid string) error {
	if err := s.store.Clear(ctx, sid); err != nil {
		return err
	}
	s.record(domain.AuditEvent{SID: sid, Kind: domain.AuditLogout, At: time.Now().UTC()})
	return nil
}

// IsAuthenticated reports whether both credential and identity are stored.
func (s *SessionService) IsAuthenticated(ctx context.Context, sid string) bool {
	return s.Session(ctx, sid).IsAuthenticated()
}

// Session returns the stored snapshot. Store failures resolve to an empty
// session; corrupted entries have already been collapsed to absent by the
// store itself.
func (s *SessionService) Session(ctx context.Context, sid string) domain.Session {
	session, err := s.store.Load(ctx, sid)
	if err != nil {
		s.logger.Error().Err(err).Str("sid", sid).Msg("credential store read failed")
		return domain.Session{}
	}
	return session
}

func (s *SessionService) Token(ctx context.Context, sid string) string {
	return s.Session(ctx, sid).Token
}

func (s *SessionService) User(ctx context.Context, sid string) *domain.User {
	return s.Session(ctx, sid).User
}

func (s *SessionService) Persona(ctx context.Context, sid string) *domain.Persona {
	return s.Session(ctx, sid).Persona
}

func (s *SessionService) Roles(ctx context.Context, sid string) []domain.Role {
	return s.Session(ctx, sid).Roles
}

// SavePersona attaches the active business entity after login. The session
// must already be established.
func (s *SessionService) SavePersona(ctx context.Context, sid string, persona *domain.Persona) error {
	if !s.IsAuthenticated(ctx, sid) {
		return domain.ErrUnauthenticated
	}
	return s.store.SavePersona(ctx, sid, persona)
}

// SaveRoles attaches the role set after login.
func (s *SessionService) SaveRoles(ctx context.Context, sid string, roles []domain.Role) error {
	if !s.IsAuthenticated(ctx, sid) {
		return domain.ErrUnauthenticated
	}
	return s.store.SaveRoles(ctx, sid, roles)
}

// IsTokenExpired reports whether the stored credential should no longer be
// trusted, failing closed on unreadable input.
func (s *SessionService) IsTokenExpired(raw string) bool {
	return token.IsExpired(raw)
}

// RecoverPassword starts the password recovery flow.
func (s *SessionService) RecoverPassword(ctx context.Context, email string) (*domain.AuthResult, error) {
	result, err := s.client.RecoverPassword(ctx, email)
	if err != nil {
		return nil, asAuthError(err)
	}
	return result, nil
}

// ValidateResetToken checks a reset token against the remote endpoint.
func (s *SessionService) ValidateResetToken(ctx context.Context, resetToken string) (*domain.AuthResult, error) {
	result, err := s.client.ValidateResetToken(ctx, resetToken)
	if err != nil {
		return nil, asAuthError(err)
	}
	return result, nil
}

// ResetPassword completes the recovery flow with a new password.
func (s *SessionService) ResetPassword(ctx context.Context, resetToken, password string) (*domain.AuthResult, error) {
	result, err := s.client.ResetPassword(ctx, resetToken, password)
	if err != nil {
		return nil, asAuthError(err)
	}
	return result, nil
}

func (s *SessionService) record(event domain.AuditEvent) {
	if s.audit != nil {
		s.audit.Enqueue(event)
	}
}

// asAuthError guarantees the normalized error shape even if a client
// implementation leaks something else.
func asAuthError(err error) *domain.AuthError {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return domain.NewAuthError("authentication service unreachable", 0)
}
