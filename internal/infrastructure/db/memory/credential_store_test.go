package memory

import (
	"context"
	"testing"

	"github.com/retailops/session-gateway/internal/core/domain"
)

func TestCredentialStore_RoundTrip(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	user := &domain.User{ID: "u1", Email: "ana@example.com"}
	if err := store.SaveSession(ctx, "sid1", "tok", user); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.SavePersona(ctx, "sid1", &domain.Persona{ID: "e1", Name: "Acme SL"}); err != nil {
		t.Fatalf("save persona: %v", err)
	}
	if err := store.SaveRoles(ctx, "sid1", []domain.Role{{Name: domain.RoleAdmin}}); err != nil {
		t.Fatalf("save roles: %v", err)
	}

	session, err := store.Load(ctx, "sid1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session.Token != "tok" || session.User == nil || session.User.ID != "u1" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Persona == nil || session.Persona.Name != "Acme SL" {
		t.Fatalf("unexpected persona: %+v", session.Persona)
	}
	if len(session.Roles) != 1 || session.Roles[0].Name != domain.RoleAdmin {
		t.Fatalf("unexpected roles: %+v", session.Roles)
	}
}

func TestCredentialStore_SessionsAreIsolated(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	if err := store.SaveSession(ctx, "sid1", "tok1", &domain.User{ID: "u1"}); err != nil {
		t.Fatalf("save sid1: %v", err)
	}
	if err := store.SaveSession(ctx, "sid2", "tok2", &domain.User{ID: "u2"}); err != nil {
		t.Fatalf("save sid2: %v", err)
	}
	if err := store.Clear(ctx, "sid1"); err != nil {
		t.Fatalf("clear sid1: %v", err)
	}

	s1, _ := store.Load(ctx, "sid1")
	if s1.IsAuthenticated() {
		t.Fatalf("sid1 survived clear")
	}
	s2, _ := store.Load(ctx, "sid2")
	if !s2.IsAuthenticated() || s2.Token != "tok2" {
		t.Fatalf("sid2 affected by sid1 clear: %+v", s2)
	}
}

func TestCredentialStore_CorruptEntryIsIsolated(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	if err := store.SaveSession(ctx, "sid1", "tok", &domain.User{ID: "u1"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	store.put("sid1", entryRoles, "[{broken")
	store.put("sid1", entryPersona, "not-json")

	session, err := store.Load(ctx, "sid1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session.Roles != nil || session.Persona != nil {
		t.Fatalf("corrupt entries should be absent: %+v", session)
	}
	if !session.IsAuthenticated() {
		t.Fatalf("corruption leaked into unrelated entries")
	}
}

func TestCredentialStore_ClearIsIdempotent(t *testing.T) {
	store := NewCredentialStore()
	ctx := context.Background()

	if err := store.Clear(ctx, "missing"); err != nil {
		t.Fatalf("clear on empty store: %v", err)
	}

	_ = store.SaveSession(ctx, "sid1", "tok", &domain.User{ID: "u1"})
	_ = store.Clear(ctx, "sid1")
	if err := store.Clear(ctx, "sid1"); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	session, _ := store.Load(ctx, "sid1")
	if session.IsAuthenticated() {
		t.Fatalf("session survived clear")
	}
}
