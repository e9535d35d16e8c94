// Package parser extracts a monetary amount and a calendar date out of
// free-text expense entries.
package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
)

// ErrNoAmount reports that the text contains no parseable monetary amount.
// It is a normal parse outcome, not a failure of the pipeline.
var ErrNoAmount = errors.New("no expense found in text")

// Optional currency symbol, then digits with an optional fraction of up to
// two decimals. Also accepts bare fractions like "$.99".
var amountRe = regexp.MustCompile(`\$?\s?(\d+(?:\.\d{1,2})?|\.\d{1,2})`)

// ParsedExpense is the successful result of extraction.
type ParsedExpense struct {
	Amount float64
	Date   time.Time
}

// ExtractExpense pulls the first monetary amount out of text and resolves a
// natural-language date phrase relative to now. Date resolution is biased to
// the past, so "monday" means the most recent Monday. When no date phrase is
// present the expense is dated now.
func ExtractExpense(text string, now time.Time) (ParsedExpense, error) {
	loc := amountRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return ParsedExpense{}, ErrNoAmount
	}

	raw := text[loc[2]:loc[3]]
	if strings.HasPrefix(raw, ".") {
		raw = "0" + raw
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ParsedExpense{}, ErrNoAmount
	}

	// Strip the amount before date parsing so its digits are not mistaken
	// for a day of the month.
	remainder := strings.TrimSpace(text[:loc[0]] + " " + text[loc[1]:])
	date, err := naturaldate.Parse(remainder, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		date = now
	}

	return ParsedExpense{Amount: amount, Date: date}, nil
}
