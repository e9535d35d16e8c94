// Seeds the configured store with sample expenses by running real free-text
// entries through the submission pipeline.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/categorizer"
	"github.com/glebpopoff/expense-app-ai/internal/repository"
	"github.com/glebpopoff/expense-app-ai/internal/service"
	"github.com/glebpopoff/expense-app-ai/pkg/config"
	"github.com/glebpopoff/expense-app-ai/pkg/logger"
	"github.com/glebpopoff/expense-app-ai/pkg/postgres"
)

var sampleEntries = []string{
	"Coffee and a bagel $8.75",
	"Filled up the tank, gas $42.00 yesterday",
	"Uber to the airport $23.40 3 days ago",
	"Grocery run $64.15 last monday",
	"Movie tickets $28.00 last friday",
	"New running shoes $89.99 last week",
	"Electric bill $120.50 5 days ago",
	"Pharmacy $15.25 yesterday",
	"Lunch with the team $18.60 today",
	"Dinner $32.80 2 days ago",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()

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

	// No classifier here: keyword rules cover every sample entry.
	expenseService := service.NewExpenseService(store, categorizer.New(nil, appLogger), appLogger)

	appLogger.Info("Seeding sample expenses", zap.Int("count", len(sampleEntries)))

	now := time.Now()
	for _, text := range sampleEntries {
		expense, err := expenseService.Submit(ctx, text, now)
		if err != nil {
			appLogger.Fatal("Failed to seed entry",
				zap.String("text", text),
				zap.Error(err),
			)
		}
		appLogger.Info("Seeded expense",
			zap.String("day", expense.Day()),
			zap.Float64("amount", expense.Amount),
			zap.String("category", string(expense.Category)),
		)
	}

	appLogger.Info("Seeding completed")
}
