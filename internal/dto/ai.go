package dto

import (
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CategorizeRequest asks for a category suggestion.
type CategorizeRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Amount      decimal.Decimal `json:"amount"`
}

// CategorizeResponse is the suggested category.
type CategorizeResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// InsightsResponse is the output of the insights endpoint.
type InsightsResponse struct {
	Anomalies       []domain.Anomaly         `json:"anomalies"`
	ForecastNet30d  decimal.Decimal          `json:"forecast_net_30d"`
	AverageDailyNet decimal.Decimal          `json:"average_daily_net"`
	Spending        []domain.SpendingInsight `json:"spending_insights"`
	Currency        string                   `json:"currency"`
}

// ToInsightsResponse converts domain.Insights to its DTO.
func ToInsightsResponse(in *domain.Insights) InsightsResponse {
	anomalies := in.Anomalies
	if anomalies == nil {
		anomalies = []domain.Anomaly{}
	}
	spending := in.Spending
	if spending == nil {
		spending = []domain.SpendingInsight{}
	}
	return InsightsResponse{
		Anomalies:       anomalies,
		ForecastNet30d:  in.ForecastNet30d,
		AverageDailyNet: in.AverageDailyNet,
		Spending:        spending,
		Currency:        in.Currency,
	}
}

// HealthResponse reports dependency reachability.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	Timestamp string `json:"timestamp"`
}
