package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/models"
)

// PostgresStore persists each day's expenses as ordered rows keyed by the
// day string and an insertion position.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

const expensesSchema = `
CREATE TABLE IF NOT EXISTS expenses (
	id          UUID PRIMARY KEY,
	day         TEXT NOT NULL,
	position    INT NOT NULL,
	amount      DOUBLE PRECISION NOT NULL,
	category    TEXT NOT NULL,
	description TEXT NOT NULL,
	date        TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	UNIQUE (day, position)
);
CREATE INDEX IF NOT EXISTS idx_expenses_day ON expenses (day);
`

var expenseColumns = []string{"id", "day", "position", "amount", "category", "description", "date", "created_at"}

func NewPostgresStore(db *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the expenses table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, expensesSchema); err != nil {
		return fmt.Errorf("migrate expenses table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, day string) (*models.DailyRecord, error) {
	query := squirrel.Select(expenseColumns...).
		From("expenses").
		Where(squirrel.Eq{"day": day}).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("load daily record %s: %w", day, err)
	}
	defer rows.Close()

	rec := &models.DailyRecord{Date: day, Expenses: []models.Expense{}}
	for rows.Next() {
		var (
			e        models.Expense
			rowDay   string
			position int
		)
		if err := rows.Scan(&e.ID, &rowDay, &position, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		rec.Expenses = append(rec.Expenses, e)
	}
	return rec, rows.Err()
}

func (s *PostgresStore) Save(ctx context.Context, day string, expenses []models.Expense) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save for %s: %w", day, err)
	}
	defer tx.Rollback(ctx)

	del := squirrel.Delete("expenses").
		Where(squirrel.Eq{"day": day}).
		PlaceholderFormat(squirrel.Dollar)
	sql, args, err := del.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear daily record %s: %w", day, err)
	}

	if len(expenses) > 0 {
		ins := squirrel.Insert("expenses").
			Columns(expenseColumns...).
			PlaceholderFormat(squirrel.Dollar)
		for i, e := range expenses {
			ins = ins.Values(e.ID, day, i, e.Amount, e.Category, e.Description, e.Date, e.CreatedAt)
		}
		sql, args, err = ins.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("write daily record %s: %w", day, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) LoadRange(ctx context.Context, start, end string) ([]*models.DailyRecord, error) {
	query := squirrel.Select(expenseColumns...).
		From("expenses").
		Where(squirrel.GtOrEq{"day": start}).
		Where(squirrel.LtOrEq{"day": end}).
		OrderBy("day ASC", "position ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("load range [%s, %s]: %w", start, end, err)
	}
	defer rows.Close()

	var records []*models.DailyRecord
	for rows.Next() {
		var (
			e        models.Expense
			rowDay   string
			position int
		)
		if err := rows.Scan(&e.ID, &rowDay, &position, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(records) == 0 || records[len(records)-1].Date != rowDay {
			records = append(records, &models.DailyRecord{Date: rowDay, Expenses: []models.Expense{}})
		}
		last := records[len(records)-1]
		last.Expenses = append(last.Expenses, e)
	}
	return records, rows.Err()
}
