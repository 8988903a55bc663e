package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"deliveryhub/cache"
	"deliveryhub/utils"
)

// OwnerRequired lets roles that may read restaurant insights through.
func OwnerRequired(c *fiber.Ctx) error {
	role, _ := c.Locals("userRole").(string)
	if !utils.CanViewInsights(role) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Insufficient permissions"})
	}
	return c.Next()
}

// AdminRequired lets only admins through.
var AdminRequired = CheckRole(utils.RoleAdmin)

// RestaurantRequired rejects tokens that are not bound to a restaurant.
func RestaurantRequired(c *fiber.Ctx) error {
	restaurantID, _ := c.Locals("restaurantID").(string)
	if restaurantID == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "No restaurant linked to this account"})
	}
	return c.Next()
}

// RestaurantFromParam scopes an admin request to the restaurant named by the
// path parameter.
func RestaurantFromParam(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(param)
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid restaurant id"})
		}
		c.Locals("restaurantID", id)
		return c.Next()
	}
}

// RateLimiter allows at most maxRequests per window for each user and request
// path. Without a Redis backed store every request passes.
func RateLimiter(store *cache.Store, maxRequests int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !store.Enabled() {
			return c.Next()
		}

		caller := c.IP()
		if claims, err := ExtractClaims(c); err == nil && claims.UserID != "" {
			caller = claims.UserID
		}
		key := caller + ":" + c.Method() + ":" + c.Path()

		counter, err := store.Hit(c.UserContext(), key, window)
		if err != nil {
			log.WithError(err).Error("❌ [RATE LIMIT] Counter unavailable")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Rate limiter unavailable"})
		}

		remaining := maxRequests - int(counter.Count)
		if remaining < 0 {
			remaining = 0
		}
		resetIn := int(time.Until(counter.ResetAt).Seconds())
		if resetIn < 0 {
			resetIn = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.Itoa(resetIn))

		if int(counter.Count) > maxRequests {
			log.WithFields(log.Fields{"caller": caller, "path": c.Path()}).Warn("⚠️ [RATE LIMIT] Limit exceeded")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"success": false, "message": "Too many requests"})
		}
		return c.Next()
	}
}
