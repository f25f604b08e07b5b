// Package memory provides an in-memory CredentialStore with the same
// entry-level contract as the Redis implementation. It backs tests and
// single-node development runs.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/retailops/session-gateway/internal/core/domain"
)

const (
	entryToken   = "jwt"
	entryUser    = "user"
	entryPersona = "persona"
	entryRoles   = "roles"
)

var legacyEntries = []string{"_token", "auth_user", "token", "authToken"}

// CredentialStore keeps serialized session entries per sid. Values are stored
// as raw strings, exactly like the Redis store, so corruption semantics match.
type CredentialStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{sessions: make(map[string]map[string]string)}
}

func (s *CredentialStore) SaveSession(_ context.Context, sid, token string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.entries(sid)
	entries[entryToken] = token
	entries[entryUser] = string(raw)
	return nil
}

func (s *CredentialStore) SavePersona(_ context.Context, sid string, persona *domain.Persona) error {
	raw, err := json.Marshal(persona)
	if err != nil {
		return fmt.Errorf("marshal persona: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries(sid)[entryPersona] = string(raw)
	return nil
}

func (s *CredentialStore) SaveRoles(_ context.Context, sid string, roles []domain.Role) error {
	raw, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("marshal roles: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries(sid)[entryRoles] = string(raw)
	return nil
}

func (s *CredentialStore) Load(_ context.Context, sid string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var session domain.Session
	entries, ok := s.sessions[sid]
	if !ok {
		return session, nil
	}

	session.Token = entries[entryToken]

	if raw := entries[entryUser]; raw != "" {
		var user domain.User
		if json.Unmarshal([]byte(raw), &user) == nil {
			session.User = &user
		}
	}
	if raw := entries[entryPersona]; raw != "" {
		var persona domain.Persona
		if json.Unmarshal([]byte(raw), &persona) == nil {
			session.Persona = &persona
		}
	}
	if raw := entries[entryRoles]; raw != "" {
		var roles []domain.Role
		if json.Unmarshal([]byte(raw), &roles) == nil {
			session.Roles = roles
		}
	}

	return session, nil
}

func (s *CredentialStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.sessions[sid]
	if !ok {
		return nil
	}
	for _, entry := range []string{entryToken, entryUser, entryPersona, entryRoles} {
		delete(entries, entry)
	}
	for _, entry := range legacyEntries {
		delete(entries, entry)
	}
	if len(entries) == 0 {
		delete(s.sessions, sid)
	}
	return nil
}

// entries returns the entry map for sid, creating it when absent.
// Callers must hold the write lock.
func (s *CredentialStore) entries(sid string) map[string]string {
	entries, ok := s.sessions[sid]
	if !ok {
		entries = make(map[string]string)
		s.sessions[sid] = entries
	}
	return entries
}

// put writes a raw entry value directly, bypassing serialization.
// Test helper for corruption scenarios.
func (s *CredentialStore) put(sid, entry, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries(sid)[entry] = raw
}
