package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"deliveryhub/assistant"
	"deliveryhub/config"
	"deliveryhub/database"
	"deliveryhub/insights"
	"deliveryhub/metrics"
	"deliveryhub/models"
	"deliveryhub/utils"
)

const assistantTimeout = 45 * time.Second

// analyticsAssistantRequest may carry its own snapshot instead of using the
// restaurant's stored data.
type analyticsAssistantRequest struct {
	models.AssistantRequest
	Snapshot *models.InsightsSnapshot `json:"snapshot,omitempty"`
}

// HandleFinancialAssistant answers revenue questions.
// POST /api/v1/restaurant/assistant/financial
func HandleFinancialAssistant(c *fiber.Ctx) error {
	if Assistant == nil {
		return fail(c, fiber.StatusServiceUnavailable, "AI assistant is not configured")
	}
	var req models.AssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	db, ok := pool(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), assistantTimeout)
	defer cancel()

	id := restaurantID(c)
	summary, err := database.LoadFinancialSummary(ctx, db, id, config.AppConfig.CurrentDays, time.Now())
	if err != nil {
		log.WithError(err).WithField("restaurantId", id).Error("❌ [ASSISTANT] Failed to load financial summary")
		return fail(c, fiber.StatusInternalServerError, "Failed to load financial data")
	}

	return answer(ctx, c, "financial", assistant.FinancialSystemPrompt(summary), req)
}

// HandleAnalyticsAssistant answers questions about the restaurant's analysis.
// POST /api/v1/restaurant/assistant/analytics
func HandleAnalyticsAssistant(c *fiber.Ctx) error {
	if Assistant == nil {
		return fail(c, fiber.StatusServiceUnavailable, "AI assistant is not configured")
	}
	var req analyticsAssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), assistantTimeout)
	defer cancel()

	var output models.AnalysisOutput
	if req.Snapshot != nil {
		output = insights.Analyze(req.Snapshot.Historico, req.Snapshot.Atual)
		if err := insights.CheckFinite(output); err != nil {
			return fail(c, fiber.StatusBadRequest, "Snapshot values are too large to analyze")
		}
	} else {
		if _, ok := pool(c); !ok {
			return nil
		}
		var err error
		if output, _, err = loadAnalysis(ctx, restaurantID(c), false); err != nil {
			log.WithError(err).Error("❌ [ASSISTANT] Analysis failed")
			return fail(c, fiber.StatusInternalServerError, "Failed to analyze restaurant data")
		}
	}

	return answer(ctx, c, "analytics", assistant.AnalyticsSystemPrompt(output), req.AssistantRequest)
}

func answer(ctx context.Context, c *fiber.Ctx, kind, system string, req models.AssistantRequest) error {
	reply, err := assistant.Ask(ctx, Assistant, system, req)
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		metrics.ObserveAssistant(kind, "invalid")
		return fail(c, fiber.StatusBadRequest, "Message is required")
	case err != nil:
		metrics.ObserveAssistant(kind, "error")
		log.WithError(err).WithFields(log.Fields{
			"kind":    kind,
			"message": utils.Truncate(req.Message, 80),
		}).Error("❌ [ASSISTANT] Generation failed")
		return fail(c, fiber.StatusBadGateway, "The assistant could not answer right now")
	}

	metrics.ObserveAssistant(kind, "ok")
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"reply": reply}})
}
