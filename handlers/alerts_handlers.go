package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"deliveryhub/database"
	"deliveryhub/utils"
)

// HandleGetAlerts handles fetching a paginated list of alerts.
// GET /api/v1/restaurant/alerts?page=1&pageSize=20&unread=true
func HandleGetAlerts(c *fiber.Ctx) error {
	db, ok := pool(c)
	if !ok {
		return nil
	}
	page, pageSize := utils.ParsePage(c.Query("page", "1"), c.Query("pageSize", "20"))
	unreadOnly := c.QueryBool("unread", false)

	alerts, total, err := database.ListAlerts(c.UserContext(), db, restaurantID(c), page, pageSize, unreadOnly)
	if err != nil {
		log.WithError(err).Error("❌ [ALERTS] Error fetching alerts")
		return fail(c, fiber.StatusInternalServerError, "Database error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    alerts,
		"meta":    utils.CreatePagination(total, page, pageSize),
	})
}

// HandleGetUnreadAlertsCount handles fetching the count of unread alerts.
// GET /api/v1/restaurant/alerts/unread-count
func HandleGetUnreadAlertsCount(c *fiber.Ctx) error {
	db, ok := pool(c)
	if !ok {
		return nil
	}
	count, err := database.CountUnreadAlerts(c.UserContext(), db, restaurantID(c))
	if err != nil {
		log.WithError(err).Error("❌ [ALERTS] Error counting unread alerts")
		return fail(c, fiber.StatusInternalServerError, "Database error")
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"count": count}})
}

// HandleMarkAlertAsRead handles marking a specific alert as read.
// PUT /api/v1/restaurant/alerts/:alertId/read
func HandleMarkAlertAsRead(c *fiber.Ctx) error {
	db, ok := pool(c)
	if !ok {
		return nil
	}
	err := database.MarkAlertRead(c.UserContext(), db, restaurantID(c), c.Params("alertId"))
	if errors.Is(err, database.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "Alert not found or you do not have permission to modify it.")
	}
	if err != nil {
		log.WithError(err).Error("❌ [ALERTS] Error marking alert as read")
		return fail(c, fiber.StatusInternalServerError, "Database error")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Alert marked as read"})
}
