package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/dto"
	"github.com/glebpopoff/expense-app-ai/internal/models"
	"github.com/glebpopoff/expense-app-ai/internal/parser"
	"github.com/glebpopoff/expense-app-ai/internal/service"
)

type ExpenseHandler struct {
	expenseService *service.ExpenseService
	logger         *zap.Logger
}

func NewExpenseHandler(expenseService *service.ExpenseService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

// Create handles POST /expenses: parses the free-text entry and persists the
// resulting expense.
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	expense, err := h.expenseService.Submit(c.UserContext(), req.Text, time.Now())
	if errors.Is(err, parser.ErrNoAmount) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No expense found. Include an amount like $12.50 in your entry.",
		})
	}
	if err != nil {
		h.logger.Error("Failed to submit expense", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(toExpenseResponse(*expense))
}

// List handles GET /expenses: the flat expense sequence for the trailing
// 30-day window.
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	expenses, err := h.expenseService.Recent(c.UserContext(), time.Now())
	if err != nil {
		h.logger.Error("Failed to list expenses", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	resp := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp = append(resp, toExpenseResponse(e))
	}
	return c.JSON(resp)
}

func toExpenseResponse(e models.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID.String(),
		Amount:      e.Amount,
		Category:    string(e.Category),
		Description: e.Description,
		Date:        e.Date.UTC().Format(time.RFC3339),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
