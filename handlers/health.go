package handlers

import (
	"time"

	"github.com/fedpoffa/cbt-api/database"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HandleCheckHealth reports service liveness and database reachability
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "ok"
		if err := store.HealthCheck(); err != nil {
			dbStatus = "unreachable"
		}

		status := fiber.Map{
			"status":    "ok",
			"database":  dbStatus,
			"timestamp": time.Now().UTC(),
		}

		if dbStatus != "ok" {
			return response.Error(c, fiber.StatusServiceUnavailable, "Database is unreachable", "SERVICE_UNAVAILABLE")
		}

		return response.Success(c, status)
	}
}
