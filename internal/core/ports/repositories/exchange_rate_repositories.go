package repositories

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// ListExchangeRates returns persisted quotes for base, newest first. A nil target
	// returns every target.
	ListExchangeRates(ctx context.Context, base string, target *string, limit int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// UpsertExchangeRate stores the rate, overwriting any row with the same
	// (base, target, date) key.
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
