package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliveryhub/cache"
	"deliveryhub/models"
)

type stubGenerator struct {
	reply  string
	err    error
	system string
}

func (s *stubGenerator) Generate(_ context.Context, system string, _ []models.ChatMessage, _ string) (string, error) {
	s.system = system
	return s.reply, s.err
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "u1")
		c.Locals("userRole", "owner")
		c.Locals("restaurantID", "r1")
		return c.Next()
	})
	app.Get("/insights", HandleGetInsights)
	app.Post("/insights/analyze", HandleAnalyzeSnapshot)
	app.Post("/assistant/analytics", HandleAnalyticsAssistant)
	app.Post("/assistant/financial", HandleFinancialAssistant)
	app.Put("/alerts/:alertId/read", HandleMarkAlertAsRead)
	app.Get("/health", HandleHealth)
	app.Get("/version", HandleVersion)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	_ = json.Unmarshal(raw, &decoded)
	return resp.StatusCode, decoded
}

func scenarioSnapshot() models.InsightsSnapshot {
	return models.InsightsSnapshot{
		Historico: models.HistoricalData{
			Semanas:   9,
			Pedidos:   []float64{50, 52, 48, 51, 49, 50, 10, 9, 8},
			Abandonos: []float64{10, 11, 9, 10, 12, 10, 11, 9, 10},
		},
		Atual: models.CurrentData{PedidosTotal: 9, Abandonos: 30},
	}
}

func TestHandleAnalyzeSnapshot(t *testing.T) {
	app := newTestApp()
	status, body := doJSON(t, app, "POST", "/insights/analyze", scenarioSnapshot())
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	problems, ok := data["problemas_detectados"].([]interface{})
	require.True(t, ok)

	tipos := make([]string, 0, len(problems))
	for _, p := range problems {
		tipos = append(tipos, p.(map[string]interface{})["tipo"].(string))
	}
	assert.Contains(t, tipos, "queda_pedidos_recente")
	assert.Contains(t, tipos, "abandono_acima_do_padrao")
	assert.Len(t, data["predicoes"], 4)
}

func TestHandleAnalyzeSnapshotIsDeterministic(t *testing.T) {
	app := newTestApp()
	_, first := doJSON(t, app, "POST", "/insights/analyze", scenarioSnapshot())
	_, second := doJSON(t, app, "POST", "/insights/analyze", scenarioSnapshot())
	assert.Equal(t, first, second)
}

func TestHandleAnalyzeSnapshotRejectsBadBody(t *testing.T) {
	status, body := doJSON(t, newTestApp(), "POST", "/insights/analyze", "{not json")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestHandleAnalyzeSnapshotRejectsOverflow(t *testing.T) {
	snapshot := models.InsightsSnapshot{
		Historico: models.HistoricalData{Semanas: 4, Pedidos: []float64{1e308, 1e308, 1e308, 1e308}},
		Atual:     models.CurrentData{PedidosTotal: 1e308},
	}
	status, body := doJSON(t, newTestApp(), "POST", "/insights/analyze", snapshot)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Snapshot values are too large to analyze", body["message"])
}

func newRedisStore(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewStore(client, "insights"), mr
}

func TestGetInsightsServesCachedAnalysis(t *testing.T) {
	store, mr := newRedisStore(t)
	Init(nil, store)
	defer Init(nil, cache.NewStore(nil, "insights"))

	raw, err := json.Marshal(models.AnalysisOutput{SugestoesPersonalizadas: []string{"Crie um combo"}})
	require.NoError(t, err)
	require.NoError(t, mr.Set("insights:r1", string(raw)))

	status, body := doJSON(t, newTestApp(), "GET", "/insights", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["cached"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Crie um combo"}, data["sugestoes_personalizadas"])
}

func TestGetInsightsRefreshDropsCachedAnalysis(t *testing.T) {
	store, mr := newRedisStore(t)
	Init(nil, store)
	defer Init(nil, cache.NewStore(nil, "insights"))
	require.NoError(t, mr.Set("insights:r1", "{}"))

	// no database is connected, so the recompute fails after the drop
	status, _ := doJSON(t, newTestApp(), "GET", "/insights?refresh=true", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.False(t, mr.Exists("insights:r1"))
}

func TestAssistantNotConfigured(t *testing.T) {
	Init(nil, cache.NewStore(nil, "insights"))
	status, _ := doJSON(t, newTestApp(), "POST", "/assistant/financial", models.AssistantRequest{Message: "oi"})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	status, _ = doJSON(t, newTestApp(), "POST", "/assistant/analytics", models.AssistantRequest{Message: "oi"})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestAnalyticsAssistantWithSnapshot(t *testing.T) {
	gen := &stubGenerator{reply: "Os pedidos caíram 82%."}
	Init(gen, cache.NewStore(nil, "insights"))
	defer Init(nil, cache.NewStore(nil, "insights"))

	snapshot := scenarioSnapshot()
	status, body := doJSON(t, newTestApp(), "POST", "/assistant/analytics", analyticsAssistantRequest{
		AssistantRequest: models.AssistantRequest{Message: "O que aconteceu com os pedidos?"},
		Snapshot:         &snapshot,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Os pedidos caíram 82%.", body["data"].(map[string]interface{})["reply"])
	assert.Contains(t, gen.system, "queda_pedidos_recente")
}

func TestAnalyticsAssistantErrors(t *testing.T) {
	snapshot := scenarioSnapshot()

	Init(&stubGenerator{reply: "ok"}, cache.NewStore(nil, "insights"))
	status, _ := doJSON(t, newTestApp(), "POST", "/assistant/analytics", analyticsAssistantRequest{Snapshot: &snapshot})
	assert.Equal(t, fiber.StatusBadRequest, status)

	Init(&stubGenerator{err: errors.New("quota")}, cache.NewStore(nil, "insights"))
	status, _ = doJSON(t, newTestApp(), "POST", "/assistant/analytics", analyticsAssistantRequest{
		AssistantRequest: models.AssistantRequest{Message: "oi"},
		Snapshot:         &snapshot,
	})
	assert.Equal(t, fiber.StatusBadGateway, status)

	Init(nil, cache.NewStore(nil, "insights"))
}

func TestAnalyticsAssistantWithoutSnapshotOrDatabase(t *testing.T) {
	Init(&stubGenerator{reply: "ok"}, cache.NewStore(nil, "insights"))
	defer Init(nil, cache.NewStore(nil, "insights"))

	status, body := doJSON(t, newTestApp(), "POST", "/assistant/analytics", models.AssistantRequest{Message: "oi"})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "Database not available", body["message"])
}

func TestAnalyticsAssistantRejectsOverflowingSnapshot(t *testing.T) {
	Init(&stubGenerator{reply: "ok"}, cache.NewStore(nil, "insights"))
	defer Init(nil, cache.NewStore(nil, "insights"))

	snapshot := models.InsightsSnapshot{Historico: models.HistoricalData{Pedidos: []float64{1e308, 1e308, 1e308, 1e308}}}
	status, _ := doJSON(t, newTestApp(), "POST", "/assistant/analytics", analyticsAssistantRequest{
		AssistantRequest: models.AssistantRequest{Message: "oi"},
		Snapshot:         &snapshot,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMarkAlertAsReadWithoutDatabase(t *testing.T) {
	status, body := doJSON(t, newTestApp(), "PUT", "/alerts/not-a-uuid/read", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, false, body["success"])
}

func TestHealthWithoutDatabase(t *testing.T) {
	status, body := doJSON(t, newTestApp(), "GET", "/health", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "disabled", checks["database"])
}

func TestVersion(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest("GET", "/version", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
