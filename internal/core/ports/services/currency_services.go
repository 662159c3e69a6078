package services

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyNormalizerSvc serves cached rate tables and converts amounts through the
// reference currency. None of its methods fail; problems degrade and are logged.
type CurrencyNormalizerSvc interface {
	// BaseCurrency is the pivot currency stored amounts are normalized into.
	BaseCurrency() string

	// GetRates returns a copy of the factor table against base.
	GetRates(ctx context.Context, base string) map[string]decimal.Decimal

	// GetSnapshot returns the current snapshot for base, refreshing it when stale.
	GetSnapshot(ctx context.Context, base string) domain.RateSnapshot

	// Convert returns amount expressed in to. On any problem it returns amount unchanged.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal

	// ConvertDetailed is Convert with the rate used and whether the result is degraded.
	ConvertDetailed(ctx context.Context, amount decimal.Decimal, from, to string) domain.ConversionResult
}

// ExchangeRateHistorySvc reads persisted quotes.
type ExchangeRateHistorySvc interface {
	ListHistory(ctx context.Context, base string, target *string, limit int) ([]domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	CurrencyNormalizerSvc
	ExchangeRateHistorySvc
}
