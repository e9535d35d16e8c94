package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/models"
)

// FileStore keeps one JSON document per calendar day under a data directory,
// named YYYY-MM-DD.json.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(day string) string {
	return filepath.Join(s.dir, day+".json")
}

func (s *FileStore) Load(_ context.Context, day string) (*models.DailyRecord, error) {
	data, err := os.ReadFile(s.path(day))
	if os.IsNotExist(err) {
		return &models.DailyRecord{Date: day, Expenses: []models.Expense{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read daily record %s: %w", day, err)
	}

	var rec models.DailyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode daily record %s: %w", day, err)
	}
	return &rec, nil
}

func (s *FileStore) Save(_ context.Context, day string, expenses []models.Expense) error {
	rec := models.DailyRecord{Date: day, Expenses: expenses}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode daily record %s: %w", day, err)
	}
	if err := os.WriteFile(s.path(day), data, 0o644); err != nil {
		return fmt.Errorf("write daily record %s: %w", day, err)
	}

	s.logger.Debug("Daily record saved",
		zap.String("day", day),
		zap.Int("expenses", len(expenses)),
	)
	return nil
}

func (s *FileStore) LoadRange(ctx context.Context, start, end string) ([]*models.DailyRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list data dir: %w", err)
	}

	var days []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		day := strings.TrimSuffix(name, ".json")
		if len(day) != len("2006-01-02") {
			continue
		}
		if day >= start && day <= end {
			days = append(days, day)
		}
	}
	sort.Strings(days)

	records := make([]*models.DailyRecord, 0, len(days))
	for _, day := range days {
		rec, err := s.Load(ctx, day)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
