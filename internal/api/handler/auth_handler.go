package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailops/session-gateway/internal/core/ports"
)

// AuthHandler exposes the session lifecycle and password recovery flows.
type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login establishes a session for the current browser.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sid, err := ctxSID(c)
	if err != nil {
		return err
	}

	session, err := h.sessions.Login(c.Request().Context(), sid, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// Logout tears down the local session state. Always succeeds for an already
// cleared session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204  "session cleared"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sid, err := ctxSID(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSession returns the current snapshot, authenticated or not.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) GetSession(c echo.Context) error {
	sid, err := ctxSID(c)
	if err != nil {
		return err
	}
	session := h.sessions.Session(c.Request().Context(), sid)
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// SavePersona attaches the active business entity to the session.
//
// @Summary      Set active persona
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      personaRequest  true  "Active persona"
// @Success      204   "persona stored"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/session/persona [put]
func (h *AuthHandler) SavePersona(c echo.Context) error {
	var req personaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sid, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.sessions.SavePersona(c.Request().Context(), sid, toDomainPersona(req)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SaveRoles attaches the role set to the session.
//
// @Summary      Set roles
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      rolesRequest  true  "Role set"
// @Success      204   "roles stored"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/session/roles [put]
func (h *AuthHandler) SaveRoles(c echo.Context) error {
	var req rolesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sid, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.sessions.SaveRoles(c.Request().Context(), sid, toDomainRoles(req)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RecoverPassword starts the password recovery flow.
//
// @Summary      Recover password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      recoverPasswordRequest  true  "Account email"
// @Success      200   {object}  flowResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/recover-password [post]
func (h *AuthHandler) RecoverPassword(c echo.Context) error {
	var req recoverPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.sessions.RecoverPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFlowResponse(result))
}

// ValidateResetToken checks whether a reset token is still usable.
//
// @Summary      Validate reset token
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Reset token"
// @Success      200    {object}  flowResponse
// @Failure      502    {object}  errorResponse
// @Router       /auth/reset-password/{token} [get]
func (h *AuthHandler) ValidateResetToken(c echo.Context) error {
	resetToken := c.Param("token")
	if resetToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	result, err := h.sessions.ValidateResetToken(c.Request().Context(), resetToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFlowResponse(result))
}

// ResetPassword completes the recovery flow with a new password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  flowResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.sessions.ResetPassword(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFlowResponse(result))
}
