package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliveryhub/models"
)

func TestObserveAnalysis(t *testing.T) {
	before := testutil.ToFloat64(analysesTotal.WithLabelValues("test"))
	problems := []models.Problem{
		{Tipo: "queda_pedidos_recente", Gravidade: models.SeverityCritical},
		{Tipo: "queda_pedidos_recente", Gravidade: models.SeverityCritical},
	}
	ObserveAnalysis("test", time.Now(), problems)

	assert.Equal(t, before+1, testutil.ToFloat64(analysesTotal.WithLabelValues("test")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(problemsTotal.WithLabelValues("queda_pedidos_recente", "crítica")), 2.0)
}

func TestObserveCache(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))
	ObserveCache(true)
	ObserveCache(false)
	ObserveCache(false)
	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveAssistant("financial", "ok")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "deliveryhub_assistant_calls_total")
	assert.Contains(t, string(body), "go_goroutines")
}
