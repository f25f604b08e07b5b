package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailops/session-gateway/internal/core/domain"
)

// apiError is the canonical error envelope for all API errors. Status carries
// the upstream status for normalized authentication failures (0 = no
// response received).
type apiError struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps normalized authentication errors and known domain errors to their
//     HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, apiError) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, apiError{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Normalized remote authentication failures keep their upstream status in
	// the envelope; status 0 (no response received) maps to 502.
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		code := authErr.Status
		if code == 0 {
			code = http.StatusBadGateway
		}
		return code, apiError{Error: authErr.Message, Status: authErr.Status}
	}

	if errors.Is(err, domain.ErrUnauthenticated) {
		return http.StatusUnauthorized, apiError{Error: "not authenticated"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, apiError{Error: "internal server error"}
}
