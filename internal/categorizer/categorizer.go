// Package categorizer assigns a category label to an expense description
// using ordered keyword rules with an external classification fallback.
package categorizer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/models"
)

// SentimentClassifier labels free text as positive or negative. Implemented
// by the LLM service; a nil classifier disables the fallback.
type SentimentClassifier interface {
	ClassifySentiment(ctx context.Context, text string) (string, error)
}

type rule struct {
	category models.Category
	keywords []string
}

// Rules are evaluated in declaration order and the first keyword hit wins,
// so ties resolve by table position rather than alphabetically.
var rules = []rule{
	{models.CategoryFood, []string{"restaurant", "lunch", "dinner", "breakfast", "coffee", "grocery", "groceries", "pizza", "burger", "snack"}},
	{models.CategoryTransportation, []string{"gas", "fuel", "uber", "lyft", "taxi", "bus", "train", "parking"}},
	{models.CategoryEntertainment, []string{"movie", "cinema", "concert", "netflix", "spotify", "game", "ticket"}},
	{models.CategoryShopping, []string{"clothes", "shoes", "amazon", "mall", "electronics"}},
	{models.CategoryUtilities, []string{"electric", "water bill", "internet", "phone bill", "rent"}},
	{models.CategoryHealthcare, []string{"doctor", "pharmacy", "medicine", "dentist", "gym"}},
}

type Categorizer struct {
	classifier SentimentClassifier
	logger     *zap.Logger
}

func New(classifier SentimentClassifier, logger *zap.Logger) *Categorizer {
	return &Categorizer{
		classifier: classifier,
		logger:     logger,
	}
}

// Categorize returns the category for a description. Keyword rules run
// first; when none match, the sentiment classifier breaks the tie. A missing
// or failed classifier degrades to CategoryOther instead of failing the
// submission.
func (c *Categorizer) Categorize(ctx context.Context, description string) models.Category {
	lower := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}

	if c.classifier == nil {
		return models.CategoryOther
	}

	label, err := c.classifier.ClassifySentiment(ctx, description)
	if err != nil {
		c.logger.Warn("Sentiment classification failed, defaulting category",
			zap.Error(err),
		)
		return models.CategoryOther
	}

	positive := strings.Contains(strings.ToUpper(label), "POSITIVE")
	switch {
	case positive && (strings.Contains(lower, "buy") || strings.Contains(lower, "purchase")):
		return models.CategoryShopping
	case strings.Contains(lower, "eat") || strings.Contains(lower, "drink"):
		return models.CategoryFood
	default:
		return models.CategoryOther
	}
}
