package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/models"
)

// QueryService turns a natural-language question into a textual answer built
// from aggregate statistics and optional generated commentary.
type QueryService struct {
	analyzer *AnalyzerService
	insights InsightClient // nil when no generation service is configured
	logger   *zap.Logger
}

const noExpensesMessage = "No expenses found for the specified time period."

func NewQueryService(analyzer *AnalyzerService, insights InsightClient, logger *zap.Logger) *QueryService {
	return &QueryService{
		analyzer: analyzer,
		insights: insights,
		logger:   logger,
	}
}

// resolveRange picks the implicit date range for a query. Triggers are
// substring matches checked in priority order: today, this week (since the
// most recent Sunday), this month, then a trailing 30-day default.
func resolveRange(query string, now time.Time) (time.Time, time.Time) {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "today"):
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), now
	case strings.Contains(q, "this week"):
		return time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, now.Location()), now
	case strings.Contains(q, "this month"):
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	default:
		return now.AddDate(0, 0, -30), now
	}
}

// Answer resolves the query's date range, aggregates it, and assembles the
// reply from an ordered list of trigger rules. Each trigger is tested
// independently against the lowercased query and any subset may fire; when
// none fire and generated commentary is available, a full summary is used
// instead.
func (s *QueryService) Answer(ctx context.Context, query string, now time.Time) (string, error) {
	start, end := resolveRange(query, now)
	analysis, expenses, err := s.analyzer.Analyze(ctx, start, end)
	if err != nil {
		return "", err
	}
	if len(expenses) == 0 {
		return noExpensesMessage, nil
	}

	var insights *models.Insights
	if s.insights != nil {
		insights, err = s.insights.GenerateInsights(ctx, analysis)
		if err != nil {
			s.logger.Warn("Insight generation failed, answering without commentary",
				zap.Error(err),
			)
			insights = nil
		}
	}

	q := strings.ToLower(query)
	var parts []string
	fired := false

	if strings.Contains(q, "today") {
		fired = true
		answer := fmt.Sprintf("Today's total spending: $%.2f.", analysis.TotalSpent)
		if breakdown := categoryBreakdown(analysis); breakdown != "" {
			answer += " Spending by category: " + breakdown + "."
		}
		parts = append(parts, answer)
	}
	if strings.Contains(q, "this week") {
		fired = true
		parts = append(parts, fmt.Sprintf("This week you spent $%.2f, averaging $%.2f per day.",
			analysis.TotalSpent, analysis.DailyAverage))
	}
	if strings.Contains(q, "total") || strings.Contains(q, "spent") {
		fired = true
		parts = append(parts, fmt.Sprintf("Total spending for the period: $%.2f, with a daily average of $%.2f.",
			analysis.TotalSpent, analysis.DailyAverage))
	}
	if insights != nil {
		if strings.Contains(q, "pattern") || strings.Contains(q, "trend") {
			fired = true
			parts = append(parts, insights.Patterns)
		}
		if strings.Contains(q, "save") || strings.Contains(q, "savings") {
			fired = true
			parts = append(parts, insights.SavingsTips)
		}
		if strings.Contains(q, "unusual") || strings.Contains(q, "strange") {
			fired = true
			parts = append(parts, insights.UnusualSpending)
		}
	}
	if strings.Contains(q, "category") || strings.Contains(q, "breakdown") {
		fired = true
		if breakdown := categoryBreakdown(analysis); breakdown != "" {
			parts = append(parts, "Spending by category: "+breakdown+".")
		}
	}

	if !fired && insights != nil {
		parts = append(parts,
			fmt.Sprintf("You spent $%.2f in total, averaging $%.2f per day.",
				analysis.TotalSpent, analysis.DailyAverage),
			insights.Patterns,
			insights.SavingsTips,
		)
	}

	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// Insights recomputes the trailing-30-day analysis and asks the generation
// service for commentary. Service absence or failure degrades to a message
// with null insights, never an error.
func (s *QueryService) Insights(ctx context.Context, now time.Time) (string, *models.Insights, error) {
	analysis, expenses, err := s.analyzer.Analyze(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		return "", nil, err
	}
	if len(expenses) == 0 {
		return "No expenses recorded in the last 30 days.", nil, nil
	}
	if s.insights == nil {
		return "Insight service is not configured.", nil, nil
	}

	insights, err := s.insights.GenerateInsights(ctx, analysis)
	if err != nil {
		s.logger.Warn("Insight generation failed",
			zap.Error(err),
		)
		return "Insight service is unavailable.", nil, nil
	}
	return "Insights generated from your last 30 days of spending.", insights, nil
}

// categoryBreakdown renders the per-category sums as a comma-joined list in
// fixed category order, with the trailing separator trimmed.
func categoryBreakdown(analysis *models.Analysis) string {
	var b strings.Builder
	for _, cat := range models.Categories {
		if total, ok := analysis.CategorySummary[cat]; ok {
			fmt.Fprintf(&b, "%s: $%.2f, ", cat, total)
		}
	}
	return strings.TrimSuffix(b.String(), ", ")
}
