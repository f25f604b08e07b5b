package ports

import (
	"context"

	"github.com/retailops/session-gateway/internal/core/domain"
)

// CredentialStore persists the session snapshot for one browser session (sid)
// as four independent entries: credential, user, persona, and roles. Entries
// are written and read independently so that attaching the persona after the
// roles have been fetched never re-serializes the whole session, and so that
// one corrupt entry never blocks reading the others.
type CredentialStore interface {
	// SaveSession replaces the credential and identity entries together.
	SaveSession(ctx context.Context, sid, token string, user *domain.User) error
	// SavePersona updates only the persona entry.
	SavePersona(ctx context.Context, sid string, persona *domain.Persona) error
	// SaveRoles updates only the roles entry.
	SaveRoles(ctx context.Context, sid string, roles []domain.Role) error
	// Load reads all four entries; a missing or unparseable entry resolves to
	// absent for that field only. The returned error reports backend failures,
	// never corruption.
	Load(ctx context.Context, sid string) (domain.Session, error)
	// Clear removes all four entries plus the legacy key names from prior
	// store layouts, so no stale credential material survives teardown.
	Clear(ctx context.Context, sid string) error
}
