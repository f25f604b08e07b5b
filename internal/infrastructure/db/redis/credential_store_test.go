package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/retailops/session-gateway/internal/core/domain"
)

func newTestStore(t *testing.T) (*CredentialStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCredentialStore(client, time.Hour), mr
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	user := &domain.User{ID: "u1", Email: "ana@example.com", EntityID: "e9"}
	persona := &domain.Persona{ID: "e9", Name: "Acme SL", TaxID: "B123"}
	roles := []domain.Role{{ID: "1", Name: domain.RoleEmpresa}}

	if err := store.SaveSession(ctx, "sid1", "tok-abc", user); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.SavePersona(ctx, "sid1", persona); err != nil {
		t.Fatalf("save persona: %v", err)
	}
	if err := store.SaveRoles(ctx, "sid1", roles); err != nil {
		t.Fatalf("save roles: %v", err)
	}

	session, err := store.Load(ctx, "sid1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session.Token != "tok-abc" {
		t.Fatalf("unexpected token: %s", session.Token)
	}
	if session.User == nil || session.User.Email != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", session.User)
	}
	if session.Persona == nil || session.Persona.Name != "Acme SL" {
		t.Fatalf("unexpected persona: %+v", session.Persona)
	}
	if len(session.Roles) != 1 || session.Roles[0].Name != domain.RoleEmpresa {
		t.Fatalf("unexpected roles: %+v", session.Roles)
	}
}

func TestCredentialStore_PartialUpdateDoesNotTouchOtherEntries(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, "sid1", "tok", &domain.User{ID: "u1"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.SaveRoles(ctx, "sid1", []domain.Role{{Name: domain.RoleAdmin}}); err != nil {
		t.Fatalf("save roles: %v", err)
	}

	session, err := store.Load(ctx, "sid1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session.Token != "tok" || session.User == nil {
		t.Fatalf("roles update disturbed session entries: %+v", session)
	}
	if session.Persona != nil {
		t.Fatalf("persona appeared without a save")
	}
}

func TestCredentialStore_CorruptEntryIsIsolated(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, "sid1", "tok", &domain.User{ID: "u1"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	// Corrupt only the roles entry behind the store's back.
	if err := mr.Set("session:sid1:roles", "{not json"); err != nil {
		t.Fatalf("corrupt roles: %v", err)
	}

	session, err := store.Load(ctx, "sid1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session.Roles != nil {
		t.Fatalf("corrupt roles entry should resolve to absent, got %+v", session.Roles)
	}
	if session.Token != "tok" || session.User == nil || session.User.ID != "u1" {
		t.Fatalf("corrupt roles blocked valid entries: %+v", session)
	}
}

func TestCredentialStore_ClearRemovesLegacyKeys(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, "sid1", "tok", &domain.User{ID: "u1"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	for _, legacy := range []string{"_token", "auth_user", "token", "authToken"} {
		if err := mr.Set("session:sid1:"+legacy, "stale"); err != nil {
			t.Fatalf("seed legacy key: %v", err)
		}
	}

	if err := store.Clear(ctx, "sid1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for _, entry := range []string{"jwt", "user", "persona", "roles", "_token", "auth_user", "token", "authToken"} {
		if mr.Exists("session:sid1:" + entry) {
			t.Fatalf("entry %s survived clear", entry)
		}
	}
}

func TestCredentialStore_ClearIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, "sid1", "tok", &domain.User{ID: "u1"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.Clear(ctx, "sid1"); err != nil {
		t.Fatalf("first clear: %v", err)
	}
	if err := store.Clear(ctx, "sid1"); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	session, err := store.Load(ctx, "sid1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session.IsAuthenticated() || session.Persona != nil || session.Roles != nil {
		t.Fatalf("cleared store still holds data: %+v", session)
	}
}
