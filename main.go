package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"deliveryhub/assistant"
	"deliveryhub/cache"
	"deliveryhub/config"
	"deliveryhub/database"
	"deliveryhub/handlers"
	"deliveryhub/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	config.AppConfig = cfg
	config.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
		cancel()
		log.Fatal(err)
	}
	defer database.Close()

	if err := cache.ConnectRedis(ctx, cfg.RedisURL); err != nil {
		log.WithError(err).Warn("⚠️ [CACHE] Redis unavailable, continuing without cache")
	}
	defer cache.Close()

	var gen assistant.Generator
	if cfg.AIEnabled() {
		gemini, err := assistant.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.WithError(err).Warn("⚠️ [ASSISTANT] Gemini unavailable, assistant routes disabled")
		} else {
			defer gemini.Close()
			gen = gemini
		}
	} else {
		log.Info("GEMINI_API_KEY not set, assistant routes disabled")
	}
	cancel()

	handlers.Init(gen, cache.NewStore(cache.RedisClient, "insights"))

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.SetupRoutes(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("Server stopped")
		}
	}()
	log.WithField("port", cfg.Port).Info("🚀 Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}
