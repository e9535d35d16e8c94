package dto

import "github.com/glebpopoff/expense-app-ai/internal/models"

type QueryRequest struct {
	Query string `json:"query"`
}

type QueryResponse struct {
	Answer string `json:"answer"`
}

type InsightsResponse struct {
	Message  string           `json:"message"`
	Insights *models.Insights `json:"insights"`
}
