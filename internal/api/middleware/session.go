package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/retailops/session-gateway/internal/core/domain"
	"github.com/retailops/session-gateway/internal/core/ports"
)

// Context keys set by SessionContext and read by guards and handlers.
const (
	ContextSID     = "sid"
	ContextSession = "session"
)

const DefaultCookieName = "bo_sid"

// CookieConfig controls the browser session cookie.
type CookieConfig struct {
	// Name of the sid cookie. Defaults to DefaultCookieName.
	Name string
	// Secure marks the cookie HTTPS-only. Enable outside development.
	Secure bool
}

// SessionContext resolves the sid cookie (minting one when absent), re-reads
// the session snapshot from the credential store and injects both into the
// echo context. Consumers always see the snapshot as of the start of their
// request; there is no push propagation.
func SessionContext(sessions ports.SessionService, cookie CookieConfig) echo.MiddlewareFunc {
	name := cookie.Name
	if name == "" {
		name = DefaultCookieName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if ck, err := c.Cookie(name); err == nil && ck.Value != "" {
				sid = ck.Value
			} else {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     name,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   cookie.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(ContextSID, sid)
			c.Set(ContextSession, sessions.Session(c.Request().Context(), sid))

			return next(c)
		}
	}
}

// SessionFromContext returns the sid and snapshot injected by SessionContext.
// Missing values yield an empty session, which reads as unauthenticated.
func SessionFromContext(c echo.Context) (string, domain.Session) {
	sid, _ := c.Get(ContextSID).(string)
	session, _ := c.Get(ContextSession).(domain.Session)
	return sid, session
}
