package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"deliveryhub/cache"
	"deliveryhub/config"
	"deliveryhub/handlers"
	"deliveryhub/metrics"
	"deliveryhub/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	app.Get("/health", handlers.HandleHealth)
	app.Get("/version", handlers.HandleVersion)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", handlers.HandleLogin)

	// --- Restaurant Owner Routes ---
	restaurant := api.Group("/restaurant", middleware.Authenticate, middleware.OwnerRequired, middleware.RestaurantRequired)

	insights := restaurant.Group("/insights")
	insights.Get("/", handlers.HandleGetInsights)
	insights.Post("/analyze", handlers.HandleAnalyzeSnapshot)
	insights.Get("/predictions", handlers.HandleGetPredictions)
	insights.Get("/report.pdf", handlers.HandleInsightsReport)

	alerts := restaurant.Group("/alerts")
	alerts.Get("/", handlers.HandleGetAlerts)
	alerts.Get("/unread-count", handlers.HandleGetUnreadAlertsCount) // Must be before /:alertId
	alerts.Put("/:alertId/read", handlers.HandleMarkAlertAsRead)

	// --- Admin Routes ---
	admin := api.Group("/admin", middleware.Authenticate, middleware.AdminRequired)
	scoped := middleware.RestaurantFromParam("restaurantId")
	admin.Get("/restaurants/:restaurantId/insights", scoped, handlers.HandleGetInsights)
	admin.Get("/restaurants/:restaurantId/insights/predictions", scoped, handlers.HandleGetPredictions)
	admin.Get("/restaurants/:restaurantId/alerts", scoped, handlers.HandleGetAlerts)

	limiter := middleware.RateLimiter(
		cache.NewStore(cache.RedisClient, "rl:assistant"),
		config.AppConfig.AssistantRateLimit,
		config.AppConfig.AssistantRateWindow,
	)
	assistant := restaurant.Group("/assistant", limiter)
	assistant.Post("/financial", handlers.HandleFinancialAssistant)
	assistant.Post("/analytics", handlers.HandleAnalyticsAssistant)
}
