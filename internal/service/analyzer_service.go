package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/models"
	"github.com/glebpopoff/expense-app-ai/internal/repository"
)

// AnalyzerService computes summary statistics over expenses in a date span.
type AnalyzerService struct {
	store  repository.ExpenseStore
	logger *zap.Logger
}

const overspendingAdvice = "Some categories show unusually high spending for the period. Review those expenses to find savings opportunities."

func NewAnalyzerService(store repository.ExpenseStore, logger *zap.Logger) *AnalyzerService {
	return &AnalyzerService{
		store:  store,
		logger: logger,
	}
}

// Analyze loads every daily record in the inclusive [start, end] range and
// returns the computed statistics along with the combined expense list in
// day-ascending, within-day insertion order.
//
// The daily average divides by the number of distinct calendar days that
// actually hold expenses, clamped to at least 1 so an empty or single-day
// range never divides by zero. A category counts as unusual when its own
// per-day rate exceeds that overall average; a lone large purchase can
// therefore be flagged even if it happened once.
func (s *AnalyzerService) Analyze(ctx context.Context, start, end time.Time) (*models.Analysis, []models.Expense, error) {
	records, err := s.store.LoadRange(ctx, models.DayKey(start), models.DayKey(end))
	if err != nil {
		return nil, nil, fmt.Errorf("load range: %w", err)
	}

	var expenses []models.Expense
	for _, rec := range records {
		expenses = append(expenses, rec.Expenses...)
	}

	analysis := &models.Analysis{
		CategorySummary: map[models.Category]float64{},
		UnusualSpending: []models.UnusualCategory{},
		Recommendations: []string{},
	}

	days := map[string]struct{}{}
	categoryDays := map[models.Category]map[string]struct{}{}
	for _, e := range expenses {
		analysis.TotalSpent += e.Amount
		analysis.CategorySummary[e.Category] += e.Amount
		days[e.Day()] = struct{}{}
		if categoryDays[e.Category] == nil {
			categoryDays[e.Category] = map[string]struct{}{}
		}
		categoryDays[e.Category][e.Day()] = struct{}{}
	}

	divisor := len(days)
	if divisor < 1 {
		divisor = 1
	}
	analysis.DailyAverage = analysis.TotalSpent / float64(divisor)

	for _, cat := range models.Categories {
		total, ok := analysis.CategorySummary[cat]
		if !ok {
			continue
		}
		// The per-category rate divides by the days that category appears
		// on, so a large one-off purchase can exceed the overall average.
		catDivisor := len(categoryDays[cat])
		if catDivisor < 1 {
			catDivisor = 1
		}
		avgPerDay := total / float64(catDivisor)
		if avgPerDay > analysis.DailyAverage {
			analysis.UnusualSpending = append(analysis.UnusualSpending, models.UnusualCategory{
				Category:  cat,
				Total:     total,
				AvgPerDay: avgPerDay,
			})
		}
	}

	if len(analysis.UnusualSpending) > 0 {
		analysis.Recommendations = append(analysis.Recommendations, overspendingAdvice)
	}

	s.logger.Debug("Range analyzed",
		zap.String("start", models.DayKey(start)),
		zap.String("end", models.DayKey(end)),
		zap.Int("expenses", len(expenses)),
		zap.Int("days", len(days)),
	)
	return analysis, expenses, nil
}
