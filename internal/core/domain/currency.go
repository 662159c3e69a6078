package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceCurrency is the pivot every stored amount is normalized into.
const ReferenceCurrency = "MAD"

// ExchangeRate is one persisted (base, target, date) quote. Later writes for the same
// key overwrite the rate.
type ExchangeRate struct {
	BaseCurrency   string          `json:"baseCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	Date           time.Time       `json:"date"`
	Source         string          `json:"source"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// RateSnapshot is an immutable table of factors against Base. A snapshot is replaced
// wholesale on refresh and never edited in place.
type RateSnapshot struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	Source    string                     `json:"source"`
	FetchedAt time.Time                  `json:"fetchedAt"`
}

// IsFresh reports whether the snapshot is younger than ttl at now.
func (s *RateSnapshot) IsFresh(now time.Time, ttl time.Duration) bool {
	if s == nil {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}

// CopyRates returns a copy of the factor table so callers cannot alter the snapshot.
func (s *RateSnapshot) CopyRates() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.Rates))
	for k, v := range s.Rates {
		out[k] = v
	}
	return out
}

// ConversionStatus tells whether a conversion used real rates.
type ConversionStatus string

const (
	ConversionOK       ConversionStatus = "ok"
	ConversionDegraded ConversionStatus = "degraded"
)

// Reasons a conversion can be degraded.
const (
	ReasonMissingRate     = "missing_rate"
	ReasonZeroRate        = "zero_rate"
	ReasonRateSourceError = "rate_source_error"
)

// ConversionResult is the outcome of converting an amount between two currencies.
// A degraded result still carries a usable Amount; Reason explains what was substituted.
type ConversionResult struct {
	Amount decimal.Decimal  `json:"amount"`
	From   string           `json:"from"`
	To     string           `json:"to"`
	Rate   decimal.Decimal  `json:"rate"`
	Status ConversionStatus `json:"status"`
	Reason string           `json:"reason,omitempty"`
}

// Degraded reports whether the conversion fell back to an identity factor or the input amount.
func (r ConversionResult) Degraded() bool {
	return r.Status == ConversionDegraded
}
