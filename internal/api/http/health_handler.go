package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/buildingops/maintenance-service/internal/persistence"
)

// HealthHandler reports service liveness and dependency readiness.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
	version  string
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(postgres *persistence.Postgres, redis *persistence.Redis, version string) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis, version: version}
}

// Live always answers 200 once the process is serving.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": h.version})
}

// Ready checks backing stores. Redis is reported but never fails readiness;
// the cache degrades to pass-through without it.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx := c.UserContext()

	dbStatus := "ok"
	if err := h.postgres.Ping(ctx); err != nil {
		dbStatus = "unreachable"
	}
	redisStatus := "ok"
	if err := h.redis.Ping(ctx); err != nil {
		redisStatus = "unreachable"
	}

	status := fiber.StatusOK
	if dbStatus != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   dbStatus,
		"postgres": dbStatus,
		"redis":    redisStatus,
		"version":  h.version,
	})
}
