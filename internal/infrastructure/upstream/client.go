package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailops/session-gateway/internal/core/domain"
	"github.com/retailops/session-gateway/internal/pkg/metrics"
)

const defaultRequestTimeout = 10 * time.Second

// Client calls the remote authentication endpoint. It is the normalization
// boundary for remote failures: everything it returns as an error is a
// *domain.AuthError — status 0 when no response was received, the upstream
// status code otherwise.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds a Client for the given base URL. When httpClient is nil a
// default client with a request timeout is used.
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	var out loginResponse
	if err := c.post(ctx, "login", "/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return "", nil, err
	}
	if out.Token == "" || out.User == nil {
		return "", nil, domain.NewAuthError("authentication endpoint returned an incomplete session", 0)
	}
	return out.Token, out.User, nil
}

// RecoverPassword requests a password recovery email for the given address.
func (c *Client) RecoverPassword(ctx context.Context, email string) (*domain.AuthResult, error) {
	var out domain.AuthResult
	payload := map[string]string{"email": email}
	if err := c.post(ctx, "recover_password", "/recover-password", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateResetToken checks whether a password reset token is still usable.
func (c *Client) ValidateResetToken(ctx context.Context, resetToken string) (*domain.AuthResult, error) {
	var out domain.AuthResult
	payload := map[string]string{"token": resetToken}
	if err := c.post(ctx, "validate_reset_token", "/validate-reset-token", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) (*domain.AuthResult, error) {
	var out domain.AuthResult
	payload := map[string]string{"token": resetToken, "password": password}
	if err := c.post(ctx, "reset_password", "/reset-password", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends a JSON request and decodes a JSON response into out. Any
// transport failure or non-2xx status is translated into *domain.AuthError.
func (c *Client) post(ctx context.Context, operation, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.NewAuthError("could not encode request", 0)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.NewAuthError("could not build request", 0)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(operation, "0").Observe(time.Since(start).Seconds())
		c.log.Warn().Err(err).Str("operation", operation).Msg("authentication endpoint unreachable")
		return domain.NewAuthError("authentication service unreachable", 0)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestDuration.
		WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).
		Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewAuthError(remoteMessage(resp), resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewAuthError("authentication endpoint returned an unreadable response", 0)
	}
	return nil
}

// remoteMessage extracts a human-readable message from an error response,
// falling back to a generic per-status text.
func remoteMessage(resp *http.Response) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fmt.Sprintf("authentication failed (%s)", http.StatusText(resp.StatusCode))
}
