package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const probeTimeout = 3 * time.Second

// HealthHandler answers the liveness probe. 200 means the process is up; it
// says nothing about the stores.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHandler reports whether the gateway can actually serve sessions:
// the credential store must answer a ping and the audit database must be
// reachable. Any probe failing flips the response to 503 so the load
// balancer stops routing here.
type ReadinessHandler struct {
	probes []storeProbe
}

type storeProbe struct {
	name  string
	check func(ctx context.Context) error
}

func NewReadinessHandler(rdb *redis.Client, db *mongo.Database) *ReadinessHandler {
	return &ReadinessHandler{probes: []storeProbe{
		{
			name:  "credential_store",
			check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		{
			name:  "audit_trail",
			check: func(ctx context.Context) error { return db.Client().Ping(ctx, nil) },
		},
	}}
}

type probeStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status string                 `json:"status"`
	Stores map[string]probeStatus `json:"stores"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	resp := readinessResponse{
		Status: "ok",
		Stores: make(map[string]probeStatus, len(h.probes)),
	}
	httpStatus := http.StatusOK

	for _, p := range h.probes {
		if err := p.check(ctx); err != nil {
			resp.Stores[p.name] = probeStatus{Status: "unhealthy", Error: err.Error()}
			resp.Status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			continue
		}
		resp.Stores[p.name] = probeStatus{Status: "ok"}
	}

	return c.JSON(httpStatus, resp)
}
