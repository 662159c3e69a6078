package dto

import (
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRatesParams selects the base of the rate table.
type ExchangeRatesParams struct {
	Base string `form:"base" binding:"omitempty,alpha,len=3"`
}

// ConvertParams are the query parameters of a one-off conversion.
type ConvertParams struct {
	Amount string `form:"amount" binding:"required"`
	From   string `form:"from" binding:"required,len=3"`
	To     string `form:"to" binding:"required,len=3"`
}

// RateHistoryParams filters persisted rates.
type RateHistoryParams struct {
	Base   string  `form:"base" binding:"omitempty,alpha,len=3"`
	Target *string `form:"target" binding:"omitempty,alpha,len=3"`
	Limit  int     `form:"limit,default=100" binding:"omitempty,min=1,max=1000"`
}

// ExchangeRatesResponse is the current rate table against a base.
type ExchangeRatesResponse struct {
	BaseCurrency string                     `json:"base_currency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	Source       string                     `json:"source"`
	LastUpdate   time.Time                  `json:"last_update"`
	Timestamp    time.Time                  `json:"timestamp"`
}

// ConversionResponse is the result of a one-off conversion.
type ConversionResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Converted decimal.Decimal `json:"converted"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Status    string          `json:"status"`
	Reason    string          `json:"reason,omitempty"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	BaseCurrency   string          `json:"base_currency"`
	TargetCurrency string          `json:"target_currency"`
	Rate           decimal.Decimal `json:"rate"`
	Date           string          `json:"date"`
	Source         string          `json:"source"`
}

// ToExchangeRatesResponse converts a snapshot to its DTO.
func ToExchangeRatesResponse(s *domain.RateSnapshot, now time.Time) ExchangeRatesResponse {
	return ExchangeRatesResponse{
		BaseCurrency: s.Base,
		Rates:        s.CopyRates(),
		Source:       s.Source,
		LastUpdate:   s.FetchedAt,
		Timestamp:    now,
	}
}

// ToConversionResponse converts a domain.ConversionResult to its DTO.
func ToConversionResponse(amount decimal.Decimal, r domain.ConversionResult) ConversionResponse {
	return ConversionResponse{
		Amount:    amount,
		Converted: r.Amount,
		From:      r.From,
		To:        r.To,
		Rate:      r.Rate,
		Status:    string(r.Status),
		Reason:    r.Reason,
	}
}

// ToListExchangeRateResponse converts persisted rates to DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	out := make([]ExchangeRateResponse, len(rates))
	for i, r := range rates {
		out[i] = ExchangeRateResponse{
			BaseCurrency:   r.BaseCurrency,
			TargetCurrency: r.TargetCurrency,
			Rate:           r.Rate,
			Date:           r.Date.Format(DateLayout),
			Source:         r.Source,
		}
	}
	return out
}
