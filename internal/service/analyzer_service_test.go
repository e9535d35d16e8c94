package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/models"
	"github.com/glebpopoff/expense-app-ai/internal/repository"
)

func newAnalyzer(t *testing.T) (*AnalyzerService, *repository.FileStore) {
	t.Helper()
	store, err := repository.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return NewAnalyzerService(store, zap.NewNop()), store
}

func storedExpense(amount float64, category models.Category, day string) models.Expense {
	date, _ := time.Parse("2006-01-02", day)
	return models.Expense{
		ID:          uuid.New(),
		Amount:      amount,
		Category:    category,
		Description: "stored expense",
		Date:        date,
		CreatedAt:   date,
	}
}

func mustDay(t *testing.T, day string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	return d
}

func TestAnalyze_EmptyRange(t *testing.T) {
	analyzer, _ := newAnalyzer(t)

	analysis, expenses, err := analyzer.Analyze(context.Background(), mustDay(t, "2025-05-01"), mustDay(t, "2025-05-31"))
	require.NoError(t, err)

	assert.Empty(t, expenses)
	assert.Zero(t, analysis.TotalSpent)
	assert.Zero(t, analysis.DailyAverage, "empty range must not divide by zero")
	assert.Empty(t, analysis.CategorySummary)
	assert.Empty(t, analysis.UnusualSpending)
	assert.Empty(t, analysis.Recommendations)
}

func TestAnalyze_RoundTripOrdering(t *testing.T) {
	analyzer, store := newAnalyzer(t)
	ctx := context.Background()

	first := storedExpense(10, models.CategoryFood, "2025-05-12")
	second := storedExpense(20, models.CategoryFood, "2025-05-12")
	third := storedExpense(30, models.CategoryTransportation, "2025-05-10")
	require.NoError(t, store.Save(ctx, "2025-05-12", []models.Expense{first, second}))
	require.NoError(t, store.Save(ctx, "2025-05-10", []models.Expense{third}))

	_, expenses, err := analyzer.Analyze(ctx, mustDay(t, "2025-05-01"), mustDay(t, "2025-05-31"))
	require.NoError(t, err)
	require.Len(t, expenses, 3)

	// day-ascending, then insertion order within the day
	assert.Equal(t, third.ID, expenses[0].ID)
	assert.Equal(t, first.ID, expenses[1].ID)
	assert.Equal(t, second.ID, expenses[2].ID)
}

func TestAnalyze_Totals(t *testing.T) {
	analyzer, store := newAnalyzer(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "2025-05-12", []models.Expense{
		storedExpense(20, models.CategoryTransportation, "2025-05-12"),
		storedExpense(15.50, models.CategoryFood, "2025-05-12"),
	}))
	require.NoError(t, store.Save(ctx, "2025-05-13", []models.Expense{
		storedExpense(4.50, models.CategoryFood, "2025-05-13"),
	}))

	analysis, _, err := analyzer.Analyze(ctx, mustDay(t, "2025-05-12"), mustDay(t, "2025-05-13"))
	require.NoError(t, err)

	assert.InDelta(t, 40.0, analysis.TotalSpent, 1e-9)
	assert.InDelta(t, 20.0, analysis.DailyAverage, 1e-9)
	assert.Len(t, analysis.CategorySummary, 2)
	assert.InDelta(t, 20.0, analysis.CategorySummary[models.CategoryFood], 1e-9)
	assert.InDelta(t, 20.0, analysis.CategorySummary[models.CategoryTransportation], 1e-9)
}

func TestAnalyze_SingleDayAverage(t *testing.T) {
	analyzer, store := newAnalyzer(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "2025-05-12", []models.Expense{
		storedExpense(10, models.CategoryFood, "2025-05-12"),
		storedExpense(20, models.CategoryFood, "2025-05-12"),
		storedExpense(30, models.CategoryFood, "2025-05-12"),
	}))

	analysis, _, err := analyzer.Analyze(ctx, mustDay(t, "2025-05-12"), mustDay(t, "2025-05-12"))
	require.NoError(t, err)
	assert.InDelta(t, 60.0, analysis.DailyAverage, 1e-9)
}

func TestAnalyze_SingleCategoryNeverUnusual(t *testing.T) {
	analyzer, store := newAnalyzer(t)
	ctx := context.Background()

	for _, day := range []string{"2025-05-10", "2025-05-11", "2025-05-12"} {
		require.NoError(t, store.Save(ctx, day, []models.Expense{
			storedExpense(25, models.CategoryFood, day),
		}))
	}

	analysis, _, err := analyzer.Analyze(ctx, mustDay(t, "2025-05-01"), mustDay(t, "2025-05-31"))
	require.NoError(t, err)
	assert.Empty(t, analysis.UnusualSpending, "a lone category equals the overall average and cannot exceed it")
	assert.Empty(t, analysis.Recommendations)
}

func TestAnalyze_OneOffSpikeFlagged(t *testing.T) {
	analyzer, store := newAnalyzer(t)
	ctx := context.Background()

	days := []string{"2025-05-10", "2025-05-11", "2025-05-12", "2025-05-13", "2025-05-14"}
	for _, day := range days {
		require.NoError(t, store.Save(ctx, day, []models.Expense{
			storedExpense(10, models.CategoryFood, day),
		}))
	}
	// one-off purchase on a single day
	spikeDay := "2025-05-12"
	rec, err := store.Load(ctx, spikeDay)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, spikeDay, append(rec.Expenses, storedExpense(100, models.CategoryShopping, spikeDay))))

	analysis, _, err := analyzer.Analyze(ctx, mustDay(t, "2025-05-01"), mustDay(t, "2025-05-31"))
	require.NoError(t, err)

	// overall: $150 across 5 days = $30/day; shopping: $100 on its single day
	assert.InDelta(t, 30.0, analysis.DailyAverage, 1e-9)
	require.Len(t, analysis.UnusualSpending, 1)
	unusual := analysis.UnusualSpending[0]
	assert.Equal(t, models.CategoryShopping, unusual.Category)
	assert.InDelta(t, 100.0, unusual.Total, 1e-9)
	assert.InDelta(t, 100.0, unusual.AvgPerDay, 1e-9)
	require.Len(t, analysis.Recommendations, 1)
}
