package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/retailops/session-gateway/internal/api/middleware"
	"github.com/retailops/session-gateway/internal/core/domain"
)

type stubSessions struct {
	session   domain.Session
	loginErr  error
	flowErr   error
	flow      *domain.AuthResult
	logouts   int
	personas  []*domain.Persona
	roleSaves [][]domain.Role
}

func (s *stubSessions) Login(_ context.Context, _, _, _ string) (domain.Session, error) {
	if s.loginErr != nil {
		return domain.Session{}, s.loginErr
	}
	return s.session, nil
}

func (s *stubSessions) Logout(context.Context, string) error {
	s.logouts++
	return nil
}

func (s *stubSessions) IsAuthenticated(context.Context, string) bool {
	return s.session.IsAuthenticated()
}

func (s *stubSessions) Session(context.Context, string) domain.Session { return s.session }
func (s *stubSessions) Token(context.Context, string) string           { return s.session.Token }
func (s *stubSessions) User(context.Context, string) *domain.User      { return s.session.User }
func (s *stubSessions) Persona(context.Context, string) *domain.Persona {
	return s.session.Persona
}
func (s *stubSessions) Roles(context.Context, string) []domain.Role { return s.session.Roles }

func (s *stubSessions) SavePersona(_ context.Context, _ string, persona *domain.Persona) error {
	s.personas = append(s.personas, persona)
	return nil
}

func (s *stubSessions) SaveRoles(_ context.Context, _ string, roles []domain.Role) error {
	s.roleSaves = append(s.roleSaves, roles)
	return nil
}

func (s *stubSessions) IsTokenExpired(string) bool { return false }

func (s *stubSessions) RecoverPassword(context.Context, string) (*domain.AuthResult, error) {
	return s.flow, s.flowErr
}

func (s *stubSessions) ValidateResetToken(context.Context, string) (*domain.AuthResult, error) {
	return s.flow, s.flowErr
}

func (s *stubSessions) ResetPassword(context.Context, string, string) (*domain.AuthResult, error) {
	return s.flow, s.flowErr
}

func authenticatedSession() domain.Session {
	return domain.Session{
		Token: "jwt-token",
		User:  &domain.User{ID: "u-1", Email: "ana@example.com"},
		Roles: []domain.Role{{Name: domain.RoleAdmin}},
	}
}

// newTestContext builds an echo context with the session middleware keys set,
// mirroring what SessionContext injects on a real request.
func newTestContext(t *testing.T, method, target, body string, session domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextSID, "sid-1")
	c.Set(middleware.ContextSession, session)
	return c, rec
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	sessions := &stubSessions{session: authenticatedSession()}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"ana@example.com","password":"secret123"}`, domain.Session{})

	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Authenticated {
		t.Error("expected authenticated session in response")
	}
	if resp.User == nil || resp.User.Email != "ana@example.com" {
		t.Errorf("unexpected user in response: %+v", resp.User)
	}
}

func TestAuthHandler_LoginRejectsInvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	cases := []struct {
		name string
		body string
	}{
		{"not json", `{"email":`},
		{"missing email", `{"password":"secret123"}`},
		{"short password", `{"email":"ana@example.com","password":"abc"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/auth/login", tc.body, domain.Session{})

			err := h.Login(c)
			if err == nil {
				t.Fatal("expected error for invalid payload")
			}
			var httpErr *echo.HTTPError
			if !isHTTPError(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %v", err)
			}
		})
	}
}

func TestAuthHandler_LoginPropagatesAuthError(t *testing.T) {
	authErr := domain.NewAuthError("credenciales inválidas", http.StatusUnauthorized)
	h := NewAuthHandler(&stubSessions{loginErr: authErr})

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"ana@example.com","password":"secret123"}`, domain.Session{})

	err := h.Login(c)
	if err != authErr {
		t.Fatalf("expected the auth error to reach the error handler, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", "", domain.Session{})

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if sessions.logouts != 1 {
		t.Errorf("logouts = %d, want 1", sessions.logouts)
	}
}

func TestAuthHandler_GetSessionUnauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, rec := newTestContext(t, http.MethodGet, "/auth/session", "", domain.Session{})

	if err := h.GetSession(c); err != nil {
		t.Fatalf("GetSession returned error: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Authenticated {
		t.Error("expected unauthenticated snapshot")
	}
	if resp.Token != "" || resp.User != nil {
		t.Errorf("unexpected session data in response: %+v", resp)
	}
}

func TestAuthHandler_SavePersonaRequiresSession(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, _ := newTestContext(t, http.MethodPut, "/auth/session/persona",
		`{"id":"e-1","name":"Acme"}`, domain.Session{})

	err := h.SavePersona(c)
	var httpErr *echo.HTTPError
	if !isHTTPError(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated persona save, got %v", err)
	}
}

func TestAuthHandler_SavePersona(t *testing.T) {
	sessions := &stubSessions{session: authenticatedSession()}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodPut, "/auth/session/persona",
		`{"id":"e-1","name":"Acme","tax_id":"20-12345678-9"}`, sessions.session)

	if err := h.SavePersona(c); err != nil {
		t.Fatalf("SavePersona returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if len(sessions.personas) != 1 || sessions.personas[0].Name != "Acme" {
		t.Errorf("persona not forwarded to service: %+v", sessions.personas)
	}
}

func TestAuthHandler_SaveRoles(t *testing.T) {
	sessions := &stubSessions{session: authenticatedSession()}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodPut, "/auth/session/roles",
		`{"roles":[{"id":"r-1","name":"EMPRESA"}]}`, sessions.session)

	if err := h.SaveRoles(c); err != nil {
		t.Fatalf("SaveRoles returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if len(sessions.roleSaves) != 1 || sessions.roleSaves[0][0].Name != domain.RoleEmpresa {
		t.Errorf("roles not forwarded to service: %+v", sessions.roleSaves)
	}
}

func TestAuthHandler_SaveRolesRejectsEmptySet(t *testing.T) {
	sessions := &stubSessions{session: authenticatedSession()}
	h := NewAuthHandler(sessions)

	c, _ := newTestContext(t, http.MethodPut, "/auth/session/roles",
		`{"roles":[]}`, sessions.session)

	err := h.SaveRoles(c)
	var httpErr *echo.HTTPError
	if !isHTTPError(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty role set, got %v", err)
	}
}

func TestAuthHandler_RecoverPassword(t *testing.T) {
	sessions := &stubSessions{flow: &domain.AuthResult{Success: true, Message: "email sent", UserID: "u-1"}}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodPost, "/auth/recover-password",
		`{"email":"ana@example.com"}`, domain.Session{})

	if err := h.RecoverPassword(c); err != nil {
		t.Fatalf("RecoverPassword returned error: %v", err)
	}

	var resp flowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.UserID != "u-1" {
		t.Errorf("unexpected flow response: %+v", resp)
	}
}

func TestAuthHandler_ValidateResetToken(t *testing.T) {
	sessions := &stubSessions{flow: &domain.AuthResult{Success: true, Message: "valid"}}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodGet, "/auth/reset-password/tok-123", "", domain.Session{})
	c.SetParamNames("token")
	c.SetParamValues("tok-123")

	if err := h.ValidateResetToken(c); err != nil {
		t.Fatalf("ValidateResetToken returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAuthHandler_ValidateResetTokenRequiresToken(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, _ := newTestContext(t, http.MethodGet, "/auth/reset-password/", "", domain.Session{})

	err := h.ValidateResetToken(c)
	var httpErr *echo.HTTPError
	if !isHTTPError(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty token, got %v", err)
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	sessions := &stubSessions{flow: &domain.AuthResult{Success: true, Message: "password updated"}}
	h := NewAuthHandler(sessions)

	c, rec := newTestContext(t, http.MethodPost, "/auth/reset-password",
		`{"token":"tok-123","password":"newsecret"}`, domain.Session{})

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	var resp flowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Errorf("unexpected flow response: %+v", resp)
	}
}

func isHTTPError(err error, target **echo.HTTPError) bool {
	he, ok := err.(*echo.HTTPError)
	if ok {
		*target = he
	}
	return ok
}
