package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table. AmountBase is indexed for the
// dashboard aggregates.
type Transaction struct {
	TransactionID    string          `db:"transaction_id"`
	CompanyID        int64           `db:"company_id"`
	UserID           string          `db:"user_id"`
	Date             time.Time       `db:"date"`
	Description      string          `db:"description"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	OriginalCurrency string          `db:"original_currency"`
	AmountBase       decimal.Decimal `db:"amount_base"`
	ExchangeRate     decimal.Decimal `db:"exchange_rate"`
	ExchangeRateDate time.Time       `db:"exchange_rate_date"`
	Type             string          `db:"type"`
	Category         string          `db:"category"`
	Source           string          `db:"source"`
	ImportBatchID    *string         `db:"import_batch_id"`
	AuditFields
}
