// Package upstream holds the HTTP plumbing towards the backoffice API and
// its authentication endpoint: a bearer-attaching round tripper with a 401
// invalidation hook, and a typed client for the auth flows.
package upstream

import (
	"context"
	"net/http"
)

type contextKey int

const sessionKey contextKey = iota

type sessionInfo struct {
	sid   string
	token string
}

// WithSession annotates ctx with the browser session the request acts for.
// The transport reads it back to attach the bearer credential.
func WithSession(ctx context.Context, sid, token string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionInfo{sid: sid, token: token})
}

// SessionFromContext returns the session annotation, if any.
func SessionFromContext(ctx context.Context) (sid, token string, ok bool) {
	info, ok := ctx.Value(sessionKey).(sessionInfo)
	if !ok {
		return "", "", false
	}
	return info.sid, info.token, true
}

// Transport decorates a base round tripper: outgoing requests carry
// "Authorization: Bearer <token>" when the request context holds a session
// with a credential, and any 401 response fires OnUnauthorized exactly once
// for that response before it is returned to the caller.
//
// The transport itself performs no navigation and no store access; the
// subscriber wired in at construction owns the teardown side effects.
type Transport struct {
	base           http.RoundTripper
	onUnauthorized func(ctx context.Context, sid string)
}

// NewTransport builds a Transport over base (http.DefaultTransport when nil).
// onUnauthorized may be nil.
func NewTransport(base http.RoundTripper, onUnauthorized func(ctx context.Context, sid string)) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, onUnauthorized: onUnauthorized}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	sid, token, ok := SessionFromContext(req.Context())
	if ok && token != "" {
		// RoundTrippers must not mutate the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && ok && t.onUnauthorized != nil {
		t.onUnauthorized(req.Context(), sid)
	}
	return resp, nil
}
