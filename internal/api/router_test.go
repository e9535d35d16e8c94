package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/api/handlers"
	"github.com/glebpopoff/expense-app-ai/internal/categorizer"
	"github.com/glebpopoff/expense-app-ai/internal/repository"
	"github.com/glebpopoff/expense-app-ai/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := repository.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	cat := categorizer.New(nil, zap.NewNop())
	expenseService := service.NewExpenseService(store, cat, zap.NewNop())
	analyzerService := service.NewAnalyzerService(store, zap.NewNop())
	queryService := service.NewQueryService(analyzerService, nil, zap.NewNop())

	return SetupRouter(
		handlers.NewExpenseHandler(expenseService, zap.NewNop()),
		handlers.NewAnalysisHandler(analyzerService, queryService, zap.NewNop()),
		zap.NewNop(),
	)
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestCreateExpense(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/expenses", map[string]string{"text": "I spent $20 on gas"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 20.0, body["amount"])
	assert.Equal(t, "transportation", body["category"])
	assert.Equal(t, "I spent $20 on gas", body["description"])
	assert.NotEmpty(t, body["id"])
}

func TestCreateExpense_NoAmount(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/expenses", map[string]string{"text": "bought some things"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "No expense found")
}

func TestListExpenses_Idempotent(t *testing.T) {
	app := newTestApp(t)

	status, _ := postJSON(t, app, "/expenses", map[string]string{"text": "Lunch $15.50 today"})
	require.Equal(t, fiber.StatusOK, status)

	read := func() (int, string) {
		resp, err := app.Test(httptest.NewRequest("GET", "/expenses", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(raw)
	}

	status1, body1 := read()
	status2, body2 := read()
	assert.Equal(t, fiber.StatusOK, status1)
	assert.Equal(t, status1, status2)
	assert.Equal(t, body1, body2)
	assert.Contains(t, body1, "15.5")
}

func TestQuery_EmptyStore(t *testing.T) {
	app := newTestApp(t)

	status, body := postJSON(t, app, "/query", map[string]string{"query": "How much did I spend today?"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "No expenses found for the specified time period.", body["answer"])
}

func TestQuery_TodayTotal(t *testing.T) {
	app := newTestApp(t)

	for _, text := range []string{"I spent $20 on gas", "Lunch $15.50 today"} {
		status, _ := postJSON(t, app, "/expenses", map[string]string{"text": text})
		require.Equal(t, fiber.StatusOK, status)
	}

	status, body := postJSON(t, app, "/query", map[string]string{"query": "How much did I spend today?"})
	assert.Equal(t, fiber.StatusOK, status)
	answer, _ := body["answer"].(string)
	assert.Contains(t, answer, "Today's total spending: $35.50.")
	assert.Contains(t, answer, "transportation: $20.00")
	assert.Contains(t, answer, "food: $15.50")
}

func TestAnalysis(t *testing.T) {
	app := newTestApp(t)

	status, _ := postJSON(t, app, "/expenses", map[string]string{"text": "Coffee $4.00"})
	require.Equal(t, fiber.StatusOK, status)

	resp, err := app.Test(httptest.NewRequest("GET", "/analysis", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var analysis map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analysis))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 4.0, analysis["total_spent"])
	assert.Equal(t, 4.0, analysis["daily_average"])

	summary, ok := analysis["category_summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 4.0, summary["food"])
}

func TestInsights_NotConfigured(t *testing.T) {
	app := newTestApp(t)

	status, _ := postJSON(t, app, "/expenses", map[string]string{"text": "Coffee $4.00"})
	require.Equal(t, fiber.StatusOK, status)

	resp, err := app.Test(httptest.NewRequest("GET", "/insights", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Insight service is not configured.", body["message"])
	assert.Nil(t, body["insights"])
}
