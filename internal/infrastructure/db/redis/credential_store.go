package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailops/session-gateway/internal/core/domain"
)

// Entry names under session:<sid>:. The four live entries are written and
// read independently of each other.
const (
	entryToken   = "jwt"
	entryUser    = "user"
	entryPersona = "persona"
	entryRoles   = "roles"
)

// legacyEntries are key names from prior store layouts. Clear removes them
// unconditionally so no stale credential material survives a logout or a 401
// teardown, even across schema changes.
var legacyEntries = []string{"_token", "auth_user", "token", "authToken"}

const defaultSessionTTL = 24 * time.Hour

// CredentialStore keeps session snapshots in Redis, one key per entry.
type CredentialStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCredentialStore wraps the given Redis client. Entries expire after ttl;
// a non-positive ttl falls back to defaultSessionTTL.
func NewCredentialStore(client *redis.Client, ttl time.Duration) *CredentialStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &CredentialStore{client: client, ttl: ttl}
}

func (s *CredentialStore) key(sid, entry string) string {
	return fmt.Sprintf("session:%s:%s", sid, entry)
}

// SaveSession replaces the credential and identity entries together.
func (s *CredentialStore) SaveSession(ctx context.Context, sid, token string, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(sid, entryToken), token, s.ttl)
	pipe.Set(ctx, s.key(sid, entryUser), raw, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SavePersona updates only the persona entry.
func (s *CredentialStore) SavePersona(ctx context.Context, sid string, persona *domain.Persona) error {
	raw, err := json.Marshal(persona)
	if err != nil {
		return fmt.Errorf("marshal persona: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sid, entryPersona), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save persona: %w", err)
	}
	return nil
}

// SaveRoles updates only the roles entry.
func (s *CredentialStore) SaveRoles(ctx context.Context, sid string, roles []domain.Role) error {
	raw, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("marshal roles: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sid, entryRoles), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save roles: %w", err)
	}
	return nil
}

// Load reads the four entries independently. A missing or unparseable entry
// resolves that field to absent; only backend failures are returned.
func (s *CredentialStore) Load(ctx context.Context, sid string) (domain.Session, error) {
	var session domain.Session

	raw, err := s.get(ctx, sid, entryToken)
	if err != nil {
		return domain.Session{}, err
	}
	session.Token = raw

	if raw, err = s.get(ctx, sid, entryUser); err != nil {
		return domain.Session{}, err
	} else if raw != "" {
		var user domain.User
		if json.Unmarshal([]byte(raw), &user) == nil {
			session.User = &user
		}
	}

	if raw, err = s.get(ctx, sid, entryPersona); err != nil {
		return domain.Session{}, err
	} else if raw != "" {
		var persona domain.Persona
		if json.Unmarshal([]byte(raw), &persona) == nil {
			session.Persona = &persona
		}
	}

	if raw, err = s.get(ctx, sid, entryRoles); err != nil {
		return domain.Session{}, err
	} else if raw != "" {
		var roles []domain.Role
		if json.Unmarshal([]byte(raw), &roles) == nil {
			session.Roles = roles
		}
	}

	return session, nil
}

// Clear removes the four live entries plus every legacy key name.
func (s *CredentialStore) Clear(ctx context.Context, sid string) error {
	keys := make([]string, 0, 4+len(legacyEntries))
	for _, entry := range []string{entryToken, entryUser, entryPersona, entryRoles} {
		keys = append(keys, s.key(sid, entry))
	}
	for _, entry := range legacyEntries {
		keys = append(keys, s.key(sid, entry))
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *CredentialStore) get(ctx context.Context, sid, entry string) (string, error) {
	raw, err := s.client.Get(ctx, s.key(sid, entry)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s entry: %w", entry, err)
	}
	return raw, nil
}
