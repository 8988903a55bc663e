package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"deliveryhub/config"
	"deliveryhub/database"
	"deliveryhub/insights"
	"deliveryhub/metrics"
	"deliveryhub/models"
	"deliveryhub/report"
)

const analysisTimeout = 20 * time.Second

// loadAnalysis returns the cached analysis for a restaurant or computes a
// fresh one from the database, persisting its predictions and alerts.
func loadAnalysis(ctx context.Context, restaurantID string, refresh bool) (models.AnalysisOutput, bool, error) {
	var output models.AnalysisOutput
	if refresh {
		if err := InsightsCache.Delete(ctx, restaurantID); err != nil {
			log.WithError(err).Warn("⚠️ [INSIGHTS] Cache invalidation failed")
		}
	} else {
		hit, err := InsightsCache.Get(ctx, restaurantID, &output)
		if err != nil {
			log.WithError(err).Warn("⚠️ [INSIGHTS] Cache read failed")
		}
		if InsightsCache.Enabled() {
			metrics.ObserveCache(hit)
		}
		if hit {
			return output, true, nil
		}
	}

	started := time.Now()
	db := database.GetDB()
	if db == nil {
		return output, false, errors.New("database not connected")
	}
	cfg := config.AppConfig

	historical, err := database.LoadHistoricalData(ctx, db, restaurantID, cfg.HistoryWeeks, started)
	if err != nil {
		return output, false, err
	}
	current, err := database.LoadCurrentData(ctx, db, restaurantID, cfg.CurrentDays, started)
	if err != nil {
		return output, false, err
	}

	output = insights.Analyze(historical, current)
	metrics.ObserveAnalysis("database", started, output.ProblemasDetectados)

	fields := log.Fields{"restaurantId": restaurantID, "problems": len(output.ProblemasDetectados), "suggestions": len(output.SugestoesPersonalizadas)}
	if err := database.SavePredictions(ctx, db, restaurantID, output.Predicoes, started); err != nil {
		log.WithError(err).WithFields(fields).Error("❌ [INSIGHTS] Failed to save predictions")
	}
	saved, err := database.SaveAlerts(ctx, db, restaurantID, output.ProblemasDetectados)
	if err != nil {
		log.WithError(err).WithFields(fields).Error("❌ [INSIGHTS] Failed to save alerts")
	}
	fields["alerts"] = saved

	if err := InsightsCache.Set(ctx, restaurantID, output, cfg.CacheTTL); err != nil {
		log.WithError(err).Warn("⚠️ [INSIGHTS] Cache write failed")
	}
	log.WithFields(fields).Info("📊 [INSIGHTS] Analysis computed")
	return output, false, nil
}

// HandleGetInsights runs the analysis for the caller's restaurant.
// GET /api/v1/restaurant/insights?refresh=true
func HandleGetInsights(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), analysisTimeout)
	defer cancel()

	id := restaurantID(c)
	refresh := c.QueryBool("refresh", false)
	log.WithFields(log.Fields{"restaurantId": id, "refresh": refresh}).Debug("📊 [INSIGHTS] Request")

	output, cached, err := loadAnalysis(ctx, id, refresh)
	if err != nil {
		log.WithError(err).WithField("restaurantId", id).Error("❌ [INSIGHTS] Analysis failed")
		return fail(c, fiber.StatusInternalServerError, "Failed to analyze restaurant data")
	}
	return c.JSON(fiber.Map{"success": true, "cached": cached, "data": output})
}

// HandleAnalyzeSnapshot runs the analysis over a caller supplied snapshot
// without touching the database.
// POST /api/v1/restaurant/insights/analyze
func HandleAnalyzeSnapshot(c *fiber.Ctx) error {
	var snapshot models.InsightsSnapshot
	if err := c.BodyParser(&snapshot); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid snapshot body")
	}

	started := time.Now()
	output := insights.Analyze(snapshot.Historico, snapshot.Atual)
	if err := insights.CheckFinite(output); err != nil {
		log.WithError(err).Warn("⚠️ [INSIGHTS] Snapshot values out of range")
		return fail(c, fiber.StatusBadRequest, "Snapshot values are too large to analyze")
	}
	metrics.ObserveAnalysis("snapshot", started, output.ProblemasDetectados)

	return c.JSON(fiber.Map{"success": true, "data": output})
}

// HandleGetPredictions lists stored predictions.
// GET /api/v1/restaurant/insights/predictions?limit=28
func HandleGetPredictions(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "28"))
	if err != nil || limit <= 0 || limit > 200 {
		return fail(c, fiber.StatusBadRequest, "Invalid limit")
	}

	db, ok := pool(c)
	if !ok {
		return nil
	}
	records, err := database.ListPredictions(c.UserContext(), db, restaurantID(c), limit)
	if err != nil {
		log.WithError(err).Error("❌ [PREDICTIONS] Failed to list predictions")
		return fail(c, fiber.StatusInternalServerError, "Database error")
	}
	return c.JSON(fiber.Map{"success": true, "data": records})
}

// HandleInsightsReport renders the current analysis as a PDF download.
// GET /api/v1/restaurant/insights/report.pdf
func HandleInsightsReport(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), analysisTimeout)
	defer cancel()

	id := restaurantID(c)
	output, _, err := loadAnalysis(ctx, id, false)
	if err != nil {
		log.WithError(err).WithField("restaurantId", id).Error("❌ [REPORT] Analysis failed")
		return fail(c, fiber.StatusInternalServerError, "Failed to analyze restaurant data")
	}

	var name string
	if db := database.GetDB(); db != nil {
		name, err = database.RestaurantName(ctx, db, id)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			log.WithError(err).Warn("⚠️ [REPORT] Restaurant name unavailable")
		}
	}

	now := time.Now()
	doc, err := report.BuildInsightsPDF(name, output, now)
	if err != nil {
		log.WithError(err).Error("❌ [REPORT] Failed to render PDF")
		return fail(c, fiber.StatusInternalServerError, "Failed to generate report")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="insights-%s.pdf"`, now.Format("2006-01-02")))
	return c.Send(doc)
}
