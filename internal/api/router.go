package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/retailops/session-gateway/docs"
	"github.com/retailops/session-gateway/internal/api/handler"
	"github.com/retailops/session-gateway/internal/api/middleware"
	"github.com/retailops/session-gateway/internal/core/domain"
	"github.com/retailops/session-gateway/internal/core/service"
	"github.com/retailops/session-gateway/internal/infrastructure/config"
	mongodb "github.com/retailops/session-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/retailops/session-gateway/internal/infrastructure/db/redis"
	"github.com/retailops/session-gateway/internal/infrastructure/queue"
	"github.com/retailops/session-gateway/internal/infrastructure/upstream"
	"github.com/retailops/session-gateway/internal/pkg/metrics"
)

// NewRouter builds the Echo instance with all routes registered, and the
// audit dispatcher the caller must Start.
func NewRouter(cfg *config.Config, log zerolog.Logger, rdb *redis.Client, db *mongo.Database) (*echo.Echo, *queue.AuditDispatcher, error) {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("session_gateway"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	credStore := redisdb.NewCredentialStore(rdb, cfg.Session.TTL)
	audit := queue.NewAuditDispatcher(cfg.Session.AuditWorkers, mongodb.NewAuditRepository(db), log)

	// The transport only signals; this subscriber owns the side effects of a
	// 401 teardown. The offending response itself is rewritten into a login
	// redirect by the proxy.
	transport := upstream.NewTransport(nil, func(ctx context.Context, sid string) {
		metrics.SessionInvalidationsTotal.WithLabelValues("unauthorized").Inc()
		if err := credStore.Clear(ctx, sid); err != nil {
			log.Error().Err(err).Str("sid", sid).Msg("teardown after upstream 401 failed")
			return
		}
		audit.Enqueue(domain.AuditEvent{SID: sid, Kind: domain.AuditInvalidated, At: time.Now().UTC()})
		log.Info().Str("sid", sid).Msg("session invalidated by upstream 401")
	})
	httpClient := &http.Client{Transport: transport, Timeout: cfg.Upstream.Timeout}

	authClient := upstream.NewClient(cfg.Upstream.AuthURL, httpClient, log)
	sessions := service.NewSessionService(credStore, authClient, audit, log)

	sessionCtx := middleware.SessionContext(sessions, middleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.IsProduction(),
	})

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(sessions)
	auth := e.Group("/auth", sessionCtx)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.GetSession)
	auth.PUT("/session/persona", authHandler.SavePersona)
	auth.PUT("/session/roles", authHandler.SaveRoles)
	auth.POST("/recover-password", authHandler.RecoverPassword)
	auth.GET("/reset-password/:token", authHandler.ValidateResetToken)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Data proxy (guarded) ---
	apiURL, err := url.Parse(cfg.Upstream.APIURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse upstream api url: %w", err)
	}
	proxyHandler := handler.NewProxyHandler(apiURL, transport, "/api", log)
	apiGroup := e.Group("/api", sessionCtx, middleware.Guard(middleware.GuardConfig{
		Sessions:   sessions,
		Policies:   domain.DefaultPolicySet(),
		PathPrefix: "/api",
		Log:        log,
	}))
	apiGroup.Any("/*", proxyHandler.Handle)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(rdb, db)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are the stores up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, audit, nil
}
