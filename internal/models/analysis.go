package models

// Analysis holds the summary statistics computed over a date range. It is
// derived per request and never persisted.
type Analysis struct {
	TotalSpent      float64              `json:"total_spent"`
	CategorySummary map[Category]float64 `json:"category_summary"`
	DailyAverage    float64              `json:"daily_average"`
	UnusualSpending []UnusualCategory    `json:"unusual_spending"`
	Recommendations []string             `json:"recommendations"`
}

// UnusualCategory flags a category whose per-day spending rate exceeds the
// overall daily average across all categories.
type UnusualCategory struct {
	Category  Category `json:"category"`
	Total     float64  `json:"total"`
	AvgPerDay float64  `json:"avg_per_day"`
}

// Insights is free-text commentary produced by the generation service from
// an Analysis.
type Insights struct {
	Patterns        string `json:"patterns"`
	SavingsTips     string `json:"savings_tips"`
	UnusualSpending string `json:"unusual_spending"`
}
