package domain

import "github.com/shopspring/decimal"

// CategorySuggestion is the categorizer's guess for a transaction description.
type CategorySuggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Anomaly is an expense that stands out against the company's recent spending.
type Anomaly struct {
	TransactionID string          `json:"transactionID"`
	Description   string          `json:"description"`
	AmountBase    decimal.Decimal `json:"amountBase"`
	Threshold     decimal.Decimal `json:"threshold"`
}

// SpendingInsight is the share of total expenses taken by one category.
type SpendingInsight struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Share    decimal.Decimal `json:"share"`
}

// Insights bundles anomaly detection, a naive cash forecast and spending shares.
type Insights struct {
	Anomalies       []Anomaly         `json:"anomalies"`
	ForecastNet30d  decimal.Decimal   `json:"forecastNet30d"`
	AverageDailyNet decimal.Decimal   `json:"averageDailyNet"`
	Spending        []SpendingInsight `json:"spending"`
	Currency        string            `json:"currency"`
}
