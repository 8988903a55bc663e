package config

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(testViper(map[string]interface{}{
		"database_url": "postgres://localhost/delivery",
		"jwt_secret":   "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 12, cfg.HistoryWeeks)
	assert.Equal(t, 7, cfg.CurrentDays)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 20, cfg.AssistantRateLimit)
	assert.Equal(t, time.Minute, cfg.AssistantRateWindow)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.AIEnabled())
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := FromViper(testViper(map[string]interface{}{
		"database_url":           "postgres://localhost/delivery",
		"jwt_secret":             "secret",
		"gemini_api_key":         "key",
		"insights_history_weeks": 8,
		"insights_cache_ttl":     "30s",
	}))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.HistoryWeeks)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.AIEnabled())
}

func TestValidateReportsMissingKeys(t *testing.T) {
	_, err := FromViper(testViper(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateRejectsEmptyWindows(t *testing.T) {
	cfg := Config{DatabaseURL: "x", JWTSecret: "y", HistoryWeeks: 0, CurrentDays: 7, AssistantRateLimit: 1, AssistantRateWindow: time.Second}
	assert.Error(t, cfg.Validate())

	cfg.HistoryWeeks = 4
	assert.NoError(t, cfg.Validate())
}

func TestSetupLogger(t *testing.T) {
	SetupLogger("debug", "json")
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	SetupLogger("nonsense", "text")
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
