package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds application configuration.
// It is loaded once at startup and shared through AppConfig.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	GeminiAPIKey string
	GeminiModel  string

	RedisURL string

	HistoryWeeks int
	CurrentDays  int
	CacheTTL     time.Duration

	AssistantRateLimit  int
	AssistantRateWindow time.Duration

	LogLevel  string
	LogFormat string
}

// AppConfig holds the application-wide configuration
var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("insights_history_weeks", 12)
	v.SetDefault("insights_current_days", 7)
	v.SetDefault("insights_cache_ttl", "5m")
	v.SetDefault("assistant_rate_limit", 20)
	v.SetDefault("assistant_rate_window", "1m")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads an optional .env file, then resolves every key from the
// environment on top of the defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	for _, key := range []string{"database_url", "jwt_secret", "gemini_api_key", "redis_url"} {
		_ = v.BindEnv(key)
	}
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:                v.GetString("port"),
		DatabaseURL:         v.GetString("database_url"),
		JWTSecret:           v.GetString("jwt_secret"),
		GeminiAPIKey:        v.GetString("gemini_api_key"),
		GeminiModel:         v.GetString("gemini_model"),
		RedisURL:            v.GetString("redis_url"),
		HistoryWeeks:        v.GetInt("insights_history_weeks"),
		CurrentDays:         v.GetInt("insights_current_days"),
		CacheTTL:            v.GetDuration("insights_cache_ttl"),
		AssistantRateLimit:  v.GetInt("assistant_rate_limit"),
		AssistantRateWindow: v.GetDuration("assistant_rate_window"),
		LogLevel:            v.GetString("log_level"),
		LogFormat:           v.GetString("log_format"),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports missing required keys and out of range windows.
func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.HistoryWeeks < 1 {
		return fmt.Errorf("INSIGHTS_HISTORY_WEEKS must be positive, got %d", c.HistoryWeeks)
	}
	if c.CurrentDays < 1 {
		return fmt.Errorf("INSIGHTS_CURRENT_DAYS must be positive, got %d", c.CurrentDays)
	}
	if c.AssistantRateLimit < 1 || c.AssistantRateWindow <= 0 {
		return fmt.Errorf("assistant rate limit must be positive")
	}
	return nil
}

// AIEnabled tells whether an assistant backend is configured.
func (c Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

// SetupLogger applies level and format to the standard logrus logger.
func SetupLogger(level, format string) {
	logLevel, err := log.ParseLevel(level)
	if err != nil {
		logLevel = log.InfoLevel
	}
	log.SetLevel(logLevel)

	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}
}
