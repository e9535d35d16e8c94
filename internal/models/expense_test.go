package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKey_UTCNormalized(t *testing.T) {
	// 23:30 on May 14th in UTC+5 is still May 14th in UTC
	plusFive := time.FixedZone("UTC+5", 5*3600)
	assert.Equal(t, "2025-05-14", DayKey(time.Date(2025, 5, 14, 23, 30, 0, 0, plusFive)))

	// 02:00 on May 14th in UTC+5 is May 13th in UTC
	assert.Equal(t, "2025-05-13", DayKey(time.Date(2025, 5, 14, 2, 0, 0, 0, plusFive)))
}

func TestExpenseDay(t *testing.T) {
	e := Expense{Date: time.Date(2025, 5, 14, 12, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2025-05-14", e.Day())
}
