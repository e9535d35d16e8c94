package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/api"
	"github.com/glebpopoff/expense-app-ai/internal/api/handlers"
	"github.com/glebpopoff/expense-app-ai/internal/categorizer"
	"github.com/glebpopoff/expense-app-ai/internal/repository"
	"github.com/glebpopoff/expense-app-ai/internal/service"
	"github.com/glebpopoff/expense-app-ai/pkg/config"
	"github.com/glebpopoff/expense-app-ai/pkg/logger"
	"github.com/glebpopoff/expense-app-ai/pkg/postgres"
)

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
	appLogger.Info("Starting expense app")

	ctx := context.Background()

	// Daily-record store
	var store repository.ExpenseStore
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		pgStore := repository.NewPostgresStore(db, appLogger)
		if err := pgStore.Migrate(ctx); err != nil {
			appLogger.Fatal("Failed to migrate database", zap.Error(err))
		}
		store = pgStore
	default:
		fileStore, err := repository.NewFileStore(cfg.Storage.DataDir, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to open data directory", zap.Error(err))
		}
		store = fileStore
	}

	// The generation service is optional: without it categorization falls
	// back to "other" and answers carry no commentary.
	var insightClient service.InsightClient
	if cfg.GigaChat.APIKey != "" {
		llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
		if err != nil {
			appLogger.Warn("LLM service unavailable, continuing without insights", zap.Error(err))
		} else {
			defer llmService.Close()
			insightClient = llmService
		}
	} else {
		appLogger.Warn("GIGACHAT_API_KEY not set, continuing without insights")
	}

	cat := categorizer.New(insightClient, appLogger)
	expenseService := service.NewExpenseService(store, cat, appLogger)
	analyzerService := service.NewAnalyzerService(store, appLogger)
	queryService := service.NewQueryService(analyzerService, insightClient, appLogger)

	expenseHandler := handlers.NewExpenseHandler(expenseService, appLogger)
	analysisHandler := handlers.NewAnalysisHandler(analyzerService, queryService, appLogger)

	app := api.SetupRouter(expenseHandler, analysisHandler, appLogger)

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
