package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailops/session-gateway/internal/core/domain"
	"github.com/retailops/session-gateway/internal/core/ports"
	"github.com/retailops/session-gateway/internal/pkg/metrics"
)

const defaultLoginPath = "/auth/login"

// GuardConfig configures one mounted Guard instance.
type GuardConfig struct {
	Sessions ports.SessionService
	Policies domain.PolicySet
	// RequiredRoles restricts the protected area to sessions holding at least
	// one of these roles. Empty means "authenticated, any role".
	RequiredRoles []string
	// PathPrefix is stripped from the request path before policy evaluation,
	// so a guard mounted under /api judges the application path.
	PathPrefix string
	// LoginPath is the redirect target for unauthenticated and expired
	// sessions. Defaults to /auth/login.
	LoginPath string
	Log       zerolog.Logger
}

// Guard gates a protected route group. Per request it decides, synchronously
// and without retries:
//
//  1. no active session          -> redirect to the login entry point
//  2. credential expired         -> local teardown, then treated as absent
//  3. role check over the policy -> access if any held role permits the path
//  4. granted                    -> handler runs
//  5. denied                     -> redirect to the role's default landing,
//     the protected handler never runs
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = defaultLoginPath
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, session := SessionFromContext(c)

			if !session.IsAuthenticated() {
				metrics.GuardDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return c.Redirect(http.StatusFound, loginPath)
			}

			if cfg.Sessions.IsTokenExpired(session.Token) {
				metrics.GuardDecisionsTotal.WithLabelValues("expired").Inc()
				metrics.SessionInvalidationsTotal.WithLabelValues("expired").Inc()
				if err := cfg.Sessions.Logout(c.Request().Context(), sid); err != nil {
					cfg.Log.Error().Err(err).Str("sid", sid).Msg("teardown of expired session failed")
				}
				return c.Redirect(http.StatusFound, loginPath)
			}

			roles := session.RoleNames()
			if len(cfg.RequiredRoles) > 0 && !holdsAny(roles, cfg.RequiredRoles) {
				metrics.GuardDecisionsTotal.WithLabelValues("denied").Inc()
				return c.Redirect(http.StatusFound, cfg.Policies.DefaultRedirectFor(firstRole(roles)))
			}

			path := requestPath(c, cfg.PathPrefix)
			for _, role := range roles {
				if cfg.Policies.HasAccess(role, path) {
					metrics.GuardDecisionsTotal.WithLabelValues("granted").Inc()
					return next(c)
				}
			}

			metrics.GuardDecisionsTotal.WithLabelValues("denied").Inc()
			return c.Redirect(http.StatusFound, cfg.Policies.DefaultRedirectFor(firstRole(roles)))
		}
	}
}

func requestPath(c echo.Context, prefix string) string {
	path := c.Request().URL.Path
	if prefix != "" {
		path = strings.TrimPrefix(path, prefix)
	}
	if path == "" {
		path = "/"
	}
	return path
}

func holdsAny(held, required []string) bool {
	for _, r := range required {
		for _, h := range held {
			if h == r {
				return true
			}
		}
	}
	return false
}

func firstRole(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	return roles[0]
}
