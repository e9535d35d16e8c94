package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/models"
	"github.com/glebpopoff/expense-app-ai/pkg/config"
)

// InsightClient is the contract for the external text-generation service:
// sentiment classification for the categorizer fallback and free-text
// commentary for queries and the insights endpoint.
type InsightClient interface {
	ClassifySentiment(ctx context.Context, text string) (string, error)
	GenerateInsights(ctx context.Context, analysis *models.Analysis) (*models.Insights, error)
}

// LLMService implements InsightClient on top of GigaChat. It is constructed
// once at startup and injected; there is no ambient model state.
type LLMService struct {
	client  *gigago.Client
	model   *gigago.GenerativeModel
	timeout time.Duration
	logger  *zap.Logger
}

const systemInstruction = `You are a personal-finance assistant. You classify short expense descriptions and comment on spending summaries. Answer concisely, in English, and exactly in the format each request asks for. Never invent amounts that are not present in the data you are given.`

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = systemInstruction
	model.Temperature = 0.3

	return &LLMService{
		client:  client,
		model:   model,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// ClassifySentiment labels text as POSITIVE or NEGATIVE.
func (s *LLMService) ClassifySentiment(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`Classify the sentiment of the following text. Respond with a single word: POSITIVE or NEGATIVE.

Text: %s`, text)

	content, err := s.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(content)), nil
}

// GenerateInsights asks the model to comment on an aggregated spending
// summary and parses the structured reply.
func (s *LLMService) GenerateInsights(ctx context.Context, analysis *models.Analysis) (*models.Insights, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var categories strings.Builder
	for _, cat := range models.Categories {
		if total, ok := analysis.CategorySummary[cat]; ok {
			fmt.Fprintf(&categories, "- %s: $%.2f\n", cat, total)
		}
	}
	var unusual strings.Builder
	for _, u := range analysis.UnusualSpending {
		fmt.Fprintf(&unusual, "- %s: $%.2f total, $%.2f per day\n", u.Category, u.Total, u.AvgPerDay)
	}
	if unusual.Len() == 0 {
		unusual.WriteString("- none\n")
	}

	prompt := fmt.Sprintf(`Here is a summary of a user's spending for the period.

Total spent: $%.2f
Daily average: $%.2f
By category:
%s
Unusually high categories:
%s
Return ONLY a valid JSON object, no markdown and no commentary, in this exact shape:
{
  "patterns": "one or two sentences about spending patterns",
  "savings_tips": "one or two sentences with concrete savings advice",
  "unusual_spending": "one or two sentences about the unusually high categories, or an empty string if there are none"
}`,
		analysis.TotalSpent,
		analysis.DailyAverage,
		categories.String(),
		unusual.String(),
	)

	content, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	insights, err := parseInsights(content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Insights generated",
		zap.Int("response_length", len(content)),
	)
	return insights, nil
}

func (s *LLMService) generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseInsights extracts the JSON object from a model reply, tolerating
// markdown fences and surrounding chatter.
func parseInsights(content string) (*models.Insights, error) {
	content = strings.TrimSpace(content)

	jsonStart := strings.Index(content, "{")
	jsonEnd := strings.LastIndex(content, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return nil, fmt.Errorf("invalid insights response format: %s", content)
	}

	jsonStr := content[jsonStart : jsonEnd+1]

	var insights models.Insights
	if err := json.Unmarshal([]byte(jsonStr), &insights); err != nil {
		jsonStr = strings.TrimSpace(jsonStr)
		jsonStr = strings.TrimPrefix(jsonStr, "```json")
		jsonStr = strings.TrimPrefix(jsonStr, "```")
		jsonStr = strings.TrimSuffix(jsonStr, "```")
		jsonStr = strings.TrimSpace(jsonStr)

		if err := json.Unmarshal([]byte(jsonStr), &insights); err != nil {
			return nil, fmt.Errorf("parse insights JSON: %w, content: %s", err, content)
		}
	}

	insights.Patterns = sanitizeUTF8(insights.Patterns)
	insights.SavingsTips = sanitizeUTF8(insights.SavingsTips)
	insights.UnusualSpending = sanitizeUTF8(insights.UnusualSpending)
	return &insights, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
