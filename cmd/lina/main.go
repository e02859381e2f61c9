package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lina-ai/internal/api"
	"lina-ai/internal/api/handlers"
	"lina-ai/internal/repository"
	"lina-ai/internal/service"
	"lina-ai/pkg/auth"
	"lina-ai/pkg/config"
	"lina-ai/pkg/logger"
	"lina-ai/pkg/postgres"

	"go.uber.org/zap"
)

// @title Lina AI Query Router
// @version 1.0
// @description Routes free-text financial queries to action confirmations, insights, or chat replies

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

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Lina AI service")

	// The audit trail is the only database consumer; without it the service
	// runs fully stateless.
	var auditRepo *repository.QueryLogRepository
	if cfg.Audit.Enabled {
		ctx := context.Background()
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		auditRepo = repository.NewQueryLogRepository(db, appLogger)
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	routerService := service.NewRouterService(
		service.NewIntentExtractor(appLogger),
		service.NewActionService(appLogger),
		service.NewInsightService(appLogger),
		llmService,
		appLogger,
	)

	queryHandler := handlers.NewQueryHandler(routerService, auditRepo, appLogger)

	app := api.SetupRouter(queryHandler, jwtManager, cfg, appLogger)

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
