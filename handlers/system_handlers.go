package handlers

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"

	"deliveryhub/cache"
	"deliveryhub/database"
)

// HandleHealth reports whether the backing services answer.
// GET /health
func HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "disabled", "cache": "disabled"}
	healthy := true

	if db := database.GetDB(); db != nil {
		checks["database"] = "ok"
		if err := db.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
	} else {
		healthy = false
	}
	if cache.RedisClient != nil {
		checks["cache"] = "ok"
		if err := cache.RedisClient.Ping(ctx).Err(); err != nil {
			checks["cache"] = err.Error()
		}
	}

	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"success": healthy, "checks": checks})
}

// HandleVersion prints the build information.
// GET /version
func HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + info.String() + "</pre>\n")
}
