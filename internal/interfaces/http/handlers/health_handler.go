package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cloudedge-io/edgegate/internal/infrastructure/secrets"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

// HealthHandler provides health and readiness endpoints. The backend is an
// external collaborator and is deliberately not probed per check; only the
// gateway's own dependencies are.
type HealthHandler struct {
	secrets secrets.Client
	redis   *redis.Client // nil when the memory cache backend is configured
	log     logger.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(secretClient secrets.Client, redisClient *redis.Client, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		secrets: secretClient,
		redis:   redisClient,
		log:     log.WithComponent("health"),
	}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	checks := h.performChecks(c.Request.Context())

	status := "healthy"
	httpStatus := http.StatusOK
	for _, checkStatus := range checks {
		if checkStatus != "ok" {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

// ReadinessCheck handles GET /ready.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	h.HealthCheck(c)
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	checks := map[string]string{
		"secret_store": "ok",
	}

	if _, err := h.secrets.FetchToken(ctx); err != nil {
		checks["secret_store"] = "unavailable"
	}

	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unavailable"
		}
	}

	return checks
}
