package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"agent-kb/internal/api"
	"agent-kb/internal/api/handlers"
	"agent-kb/internal/repository"
	"agent-kb/internal/service"
	"agent-kb/pkg/auth"
	"agent-kb/pkg/config"
	"agent-kb/pkg/logger"
	"agent-kb/pkg/postgres"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// @title Agent Knowledge Base API
// @version 1.0
// @description Knowledge base editing and compilation for the calling agent

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting agent knowledge base service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		appLogger.Fatal("Failed to prepare database schema", zap.Error(err))
	}

	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)

	checks := map[string]handlers.Pinger{"database": db}
	var knowledgeCache service.KnowledgeCache
	if cfg.Redis.URL != "" {
		cache, err := repository.NewKnowledgeCache(cfg.Redis.URL, cfg.Redis.CacheTTL, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer cache.Close()
		knowledgeCache = cache
		checks["cache"] = cache
		appLogger.Info("Knowledge base cache enabled", zap.Duration("ttl", cfg.Redis.CacheTTL))
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	knowledgeService := service.NewKnowledgeService(knowledgeRepo, knowledgeCache, appLogger)

	app := api.SetupRouter(api.RouterConfig{
		Knowledge:  handlers.NewKnowledgeHandler(knowledgeService, appLogger),
		Health:     handlers.NewHealthHandler(checks, appLogger),
		JWTManager: jwtManager,
		Fiber: fiber.Config{
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		AccessLog: true,
	}, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
