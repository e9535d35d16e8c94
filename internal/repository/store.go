// Package repository implements per-day persistence of expense records.
package repository

import (
	"context"

	"github.com/glebpopoff/expense-app-ai/internal/models"
)

// ExpenseStore is the daily-record persistence contract. Load returns an
// empty record for a missing day rather than an error; Save overwrites the
// whole day's expense list.
type ExpenseStore interface {
	Load(ctx context.Context, day string) (*models.DailyRecord, error)
	Save(ctx context.Context, day string, expenses []models.Expense) error
	// LoadRange returns every stored record whose day key falls within the
	// inclusive [start, end] range, in day-ascending order. Day keys compare
	// lexically, which is valid for the fixed-width YYYY-MM-DD format.
	LoadRange(ctx context.Context, start, end string) ([]*models.DailyRecord, error)
}
