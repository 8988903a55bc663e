package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4/pgxpool"

	"deliveryhub/assistant"
	"deliveryhub/cache"
	"deliveryhub/database"
)

var (
	// Assistant answers chat questions. Nil disables the assistant routes.
	Assistant assistant.Generator
	// InsightsCache keeps computed analyses per restaurant.
	InsightsCache = cache.NewStore(nil, "insights")
)

// Init wires the shared dependencies used by the handlers.
func Init(gen assistant.Generator, store *cache.Store) {
	Assistant = gen
	InsightsCache = store
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

func restaurantID(c *fiber.Ctx) string {
	id, _ := c.Locals("restaurantID").(string)
	return id
}

// pool returns the shared database pool. When it is not connected a 503 has
// already been written and ok is false.
func pool(c *fiber.Ctx) (db *pgxpool.Pool, ok bool) {
	db = database.GetDB()
	if db == nil {
		_ = fail(c, fiber.StatusServiceUnavailable, "Database not available")
		return nil, false
	}
	return db, true
}
