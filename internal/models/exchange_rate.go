package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the exchange_rates table, unique per (base, target, date).
type ExchangeRate struct {
	BaseCurrency   string          `db:"base_currency"`
	TargetCurrency string          `db:"target_currency"`
	Rate           decimal.Decimal `db:"rate"`
	Date           time.Time       `db:"date"`
	Source         string          `db:"source"`
	UpdatedAt      time.Time       `db:"updated_at"`
}
