package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"deliveryhub/config"
	"deliveryhub/database"
	"deliveryhub/middleware"
	"deliveryhub/models"
	"deliveryhub/utils"
)

// HandleLogin authenticates a user and returns a JWT token.
// POST /api/v1/auth/login
func HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	db, ok := pool(c)
	if !ok {
		return nil
	}
	user, passwordHash, err := database.FindUserByEmail(c.UserContext(), db, req.Email)
	if errors.Is(err, database.ErrNotFound) {
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		log.WithError(err).WithField("email", req.Email).Error("❌ [LOGIN] Database error")
		return fail(c, fiber.StatusInternalServerError, "Database error")
	}

	if !user.IsActive {
		return fail(c, fiber.StatusUnauthorized, "User account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	role, ok := utils.ValidateAndNormalizeRole(user.Role)
	if !ok {
		log.WithFields(log.Fields{"userId": user.ID, "role": user.Role}).Warn("⚠️ [LOGIN] Unknown role")
		return fail(c, fiber.StatusForbidden, "Role not allowed")
	}
	user.Role = role

	token, err := middleware.NewToken(user, utils.StringValue(user.RestaurantID), config.AppConfig.JWTSecret, time.Now())
	if err != nil {
		log.WithError(err).WithField("userId", user.ID).Error("❌ [LOGIN] Could not sign token")
		return fail(c, fiber.StatusInternalServerError, "Could not sign token")
	}

	log.WithFields(log.Fields{"userId": user.ID, "role": user.Role}).Info("🔑 [LOGIN] User signed in")
	return c.JSON(fiber.Map{"success": true, "accessToken": token, "user": user})
}
