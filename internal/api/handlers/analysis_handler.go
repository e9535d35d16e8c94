package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/dto"
	"github.com/glebpopoff/expense-app-ai/internal/service"
)

type AnalysisHandler struct {
	analyzer     *service.AnalyzerService
	queryService *service.QueryService
	logger       *zap.Logger
}

func NewAnalysisHandler(analyzer *service.AnalyzerService, queryService *service.QueryService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:     analyzer,
		queryService: queryService,
		logger:       logger,
	}
}

// Query handles POST /query: a natural-language question answered from the
// aggregated statistics. Always 200, even when there is no data.
func (h *AnalysisHandler) Query(c *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	answer, err := h.queryService.Answer(c.UserContext(), req.Query, time.Now())
	if err != nil {
		h.logger.Error("Failed to answer query", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(dto.QueryResponse{Answer: answer})
}

// Insights handles GET /insights: generated commentary on the trailing
// 30-day window, degrading to a message with null insights when the
// generation service is missing or down.
func (h *AnalysisHandler) Insights(c *fiber.Ctx) error {
	message, insights, err := h.queryService.Insights(c.UserContext(), time.Now())
	if err != nil {
		h.logger.Error("Failed to build insights", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(dto.InsightsResponse{
		Message:  message,
		Insights: insights,
	})
}

// Analysis handles GET /analysis: the raw Analysis object for the trailing
// 30-day window.
func (h *AnalysisHandler) Analysis(c *fiber.Ctx) error {
	now := time.Now()
	analysis, _, err := h.analyzer.Analyze(c.UserContext(), now.AddDate(0, 0, -30), now)
	if err != nil {
		h.logger.Error("Failed to analyze expenses", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(analysis)
}
