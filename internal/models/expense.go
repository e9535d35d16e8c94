package models

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryShopping       Category = "shopping"
	CategoryUtilities      Category = "utilities"
	CategoryHealthcare     Category = "healthcare"
	CategoryOther          Category = "other"
)

// Categories lists every known category in a fixed order. Keyword rules and
// summary output both rely on this order being stable.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryShopping,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryOther,
}

// Expense is a single recorded spending event. Immutable once persisted.
type Expense struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Amount      float64   `json:"amount" db:"amount"`
	Category    Category  `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Day returns the UTC calendar-day key the expense belongs to.
func (e Expense) Day() string {
	return DayKey(e.Date)
}

// DayKey normalizes a timestamp to its UTC ISO calendar-day string. The
// fixed-width YYYY-MM-DD format is what makes lexical range comparison valid.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DailyRecord holds the ordered expense list recorded on one calendar day.
// Expenses keep insertion order; a new submission appends and the whole
// record is persisted again.
type DailyRecord struct {
	Date     string    `json:"date"`
	Expenses []Expense `json:"expenses"`
}
