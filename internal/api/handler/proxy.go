package handler

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailops/session-gateway/internal/api/middleware"
	"github.com/retailops/session-gateway/internal/infrastructure/upstream"
)

// ProxyHandler forwards data-fetching requests to the backoffice API through
// the authenticated transport, which attaches the stored credential. An
// upstream 401 has already torn the session down by the time the response
// comes back here; the SPA is sent to the login entry point instead of seeing
// the raw 401 body.
type ProxyHandler struct {
	prefix string
	proxy  *httputil.ReverseProxy
}

// NewProxyHandler builds a reverse proxy towards target. prefix is stripped
// from the incoming path before forwarding (e.g. "/api").
func NewProxyHandler(target *url.URL, transport http.RoundTripper, prefix string, log zerolog.Logger) *ProxyHandler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Transport = transport

	proxy.ModifyResponse = func(resp *http.Response) error {
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			resp.StatusCode = http.StatusFound
			resp.Status = http.StatusText(http.StatusFound)
			resp.Header = http.Header{"Location": []string{"/auth/login"}}
			resp.Body = http.NoBody
			resp.ContentLength = 0
		}
		return nil
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("upstream proxy failed")
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream unavailable"}`))
	}

	return &ProxyHandler{prefix: prefix, proxy: proxy}
}

// Handle annotates the outgoing request with the browser session so the
// transport can attach the bearer credential, then forwards it.
func (h *ProxyHandler) Handle(c echo.Context) error {
	sid, session := middleware.SessionFromContext(c)

	req := c.Request()
	req = req.WithContext(upstream.WithSession(req.Context(), sid, session.Token))
	if h.prefix != "" {
		req.URL.Path = strings.TrimPrefix(req.URL.Path, h.prefix)
		if req.URL.Path == "" {
			req.URL.Path = "/"
		}
	}

	h.proxy.ServeHTTP(c.Response(), req)
	return nil
}
