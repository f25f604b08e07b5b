package domain

import (
	"errors"
	"time"
)

// Role names recognised by the route policy table.
const (
	RoleAdmin   = "ADMIN"
	RoleEmpresa = "EMPRESA"
)

var ErrUnauthenticated = errors.New("not authenticated")

// User is the login identity returned by the authentication endpoint.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
}

// Persona is the business entity the user is currently operating as. It is
// distinct from the login identity and attached after login, once the profile
// endpoint has been consulted.
type Persona struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TaxID  string `json:"tax_id,omitempty"`
	Sector string `json:"sector,omitempty"`
}

// Role is a coarse permission class held by the user.
type Role struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Session is the snapshot of the current authenticated user: credential,
// identity, active persona, and role set. Token and User are written together
// on login; Persona and Roles may lag behind while profile enrichment is still
// in flight.
type Session struct {
	Token   string   `json:"token,omitempty"`
	User    *User    `json:"user,omitempty"`
	Persona *Persona `json:"persona,omitempty"`
	Roles   []Role   `json:"roles,omitempty"`
}

// IsAuthenticated reports whether both the credential and the identity are
// present. A session holding only one of the two is treated as absent.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// RoleNames returns the names of all held roles, in stored order.
func (s Session) RoleNames() []string {
	if len(s.Roles) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Roles))
	for _, r := range s.Roles {
		names = append(names, r.Name)
	}
	return names
}

// AuthError is the single error shape surfaced for every remote
// authentication failure. Status carries the upstream HTTP status code;
// zero means no response was received at all.
type AuthError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError builds an AuthError from an upstream response.
func NewAuthError(message string, status int) *AuthError {
	return &AuthError{Message: message, Status: status}
}

// AuthResult is the outcome of the password recovery and reset flows.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// Audit event kinds recorded for session state transitions.
const (
	AuditLogin       = "login"
	AuditLoginFailed = "login_failed"
	AuditLogout      = "logout"
	AuditInvalidated = "invalidated"
)

// AuditEvent is a record of a session state transition, kept as a best-effort
// trail. Failures to persist it never affect the session flow.
type AuditEvent struct {
	SID   string    `json:"sid"`
	Kind  string    `json:"kind"`
	Email string    `json:"email,omitempty"`
	At    time.Time `json:"at"`
}
