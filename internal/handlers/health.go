package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/observability"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// HealthResponse reports the service and its dependencies
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck godoc
// @Summary Health check
// @Description Pings MongoDB and Redis and reports per-dependency status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "All dependencies healthy"
// @Failure 503 {object} HealthResponse "One or more dependencies unhealthy"
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services:  make(map[string]string),
	}

	if err := config.MongoDB.Client().Ping(ctx, nil); err != nil {
		health.Status = "unhealthy"
		health.Services["mongodb"] = "unhealthy"
		observability.Logger().Error("mongodb health check failed", zap.Error(err))
	} else {
		health.Services["mongodb"] = "healthy"
	}

	if err := config.Redis.Ping(ctx).Err(); err != nil {
		health.Status = "unhealthy"
		health.Services["redis"] = "unhealthy"
		observability.Logger().Error("redis health check failed", zap.Error(err))
	} else {
		health.Services["redis"] = "healthy"
	}

	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
