package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles the GET /health liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness reports that the process is up.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Pinger is a dependency the readiness probe can check.
type Pinger func(ctx context.Context) error

// MongoPinger pings the primary of the connected deployment.
func MongoPinger(client *mongo.Client) Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

// RedisPinger returns nil when the cache is disabled.
func RedisPinger(client *redis.Client) Pinger {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// HealthDependenciesHandler handles the GET /health/ready readiness probe.
// MongoDB is required; Redis only degrades the cache, so it is reported but
// never fails the probe. Failure details are logged, not returned.
type HealthDependenciesHandler struct {
	mongo Pinger
	redis Pinger
	log   zerolog.Logger
}

func NewHealthDependenciesHandler(db, cache Pinger, log zerolog.Logger) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{mongo: db, redis: cache, log: log}
}

type dependencyStatus struct {
	Status string `json:"status"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness checks MongoDB and Redis connectivity.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, 2)
	status, httpStatus := "ok", http.StatusOK

	if err := h.mongo(ctx); err != nil {
		h.log.Error().Err(err).Str("dependency", "mongodb").Msg("readiness check failed")
		deps["mongodb"] = dependencyStatus{Status: "unhealthy"}
		status, httpStatus = "unavailable", http.StatusServiceUnavailable
	} else {
		deps["mongodb"] = dependencyStatus{Status: "ok"}
	}

	if h.redis == nil {
		deps["redis"] = dependencyStatus{Status: "disabled"}
	} else if err := h.redis(ctx); err != nil {
		h.log.Warn().Err(err).Str("dependency", "redis").Msg("readiness check failed")
		deps["redis"] = dependencyStatus{Status: "unhealthy"}
		if httpStatus == http.StatusOK {
			status = "degraded"
		}
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
