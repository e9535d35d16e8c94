package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/categorizer"
	"github.com/glebpopoff/expense-app-ai/internal/models"
	"github.com/glebpopoff/expense-app-ai/internal/parser"
	"github.com/glebpopoff/expense-app-ai/internal/repository"
)

// ExpenseService runs the submission pipeline: parse free text, categorize,
// and append to the daily record. Appends to the same calendar day are
// serialized with a per-day mutex so the read-modify-write cannot interleave.
type ExpenseService struct {
	store       repository.ExpenseStore
	categorizer *categorizer.Categorizer
	logger      *zap.Logger

	mu       sync.Mutex
	dayLocks map[string]*sync.Mutex
}

func NewExpenseService(store repository.ExpenseStore, cat *categorizer.Categorizer, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		store:       store,
		categorizer: cat,
		logger:      logger,
		dayLocks:    map[string]*sync.Mutex{},
	}
}

func (s *ExpenseService) dayLock(day string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.dayLocks[day]
	if !ok {
		lock = &sync.Mutex{}
		s.dayLocks[day] = lock
	}
	return lock
}

// Submit creates an Expense from free text and persists it. A text with no
// parseable amount returns parser.ErrNoAmount and writes nothing.
func (s *ExpenseService) Submit(ctx context.Context, text string, now time.Time) (*models.Expense, error) {
	parsed, err := parser.ExtractExpense(text, now)
	if err != nil {
		return nil, err
	}

	expense := models.Expense{
		ID:          uuid.New(),
		Amount:      parsed.Amount,
		Category:    s.categorizer.Categorize(ctx, text),
		Description: text,
		Date:        parsed.Date,
		CreatedAt:   now,
	}

	day := expense.Day()
	lock := s.dayLock(day)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.store.Load(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load daily record: %w", err)
	}
	if err := s.store.Save(ctx, day, append(rec.Expenses, expense)); err != nil {
		return nil, fmt.Errorf("save daily record: %w", err)
	}

	s.logger.Info("Expense recorded",
		zap.String("id", expense.ID.String()),
		zap.Float64("amount", expense.Amount),
		zap.String("category", string(expense.Category)),
		zap.String("day", day),
	)
	return &expense, nil
}

// Recent returns the flat expense list for the trailing 30 days, in
// day-ascending then insertion order.
func (s *ExpenseService) Recent(ctx context.Context, now time.Time) ([]models.Expense, error) {
	start := now.AddDate(0, 0, -30)
	records, err := s.store.LoadRange(ctx, models.DayKey(start), models.DayKey(now))
	if err != nil {
		return nil, fmt.Errorf("load range: %w", err)
	}

	flat := []models.Expense{}
	for _, rec := range records {
		flat = append(flat, rec.Expenses...)
	}
	return flat, nil
}
