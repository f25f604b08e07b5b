package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailops/session-gateway/internal/api/middleware"
	"github.com/retailops/session-gateway/internal/core/domain"
)

// ctxSession extracts the sid and snapshot injected by the SessionContext
// middleware and performs a fast-fail check before any service call: an
// endpoint that requires an established session rejects with 401 when
// credential or identity are missing, before touching the store again.
func ctxSession(c echo.Context) (string, domain.Session, error) {
	sid, session := middleware.SessionFromContext(c)
	if sid == "" {
		return "", domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session context")
	}
	if !session.IsAuthenticated() {
		return "", domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return sid, session, nil
}

// ctxSID returns only the sid, for endpoints that work with or without an
// established session (login itself, the session probe).
func ctxSID(c echo.Context) (string, error) {
	sid, _ := middleware.SessionFromContext(c)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session context")
	}
	return sid, nil
}
