package domain

import "github.com/shopspring/decimal"

// InventoryItem is a stock line valued in its purchase currency and in the base currency.
type InventoryItem struct {
	ItemID        string          `json:"itemID"`
	CompanyID     int64           `json:"companyID"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Currency      string          `json:"currency"`
	UnitPriceBase decimal.Decimal `json:"unitPriceBase"`
	AuditFields
}

// ValueBase returns quantity times the base-currency unit price.
func (i InventoryItem) ValueBase() decimal.Decimal {
	return i.UnitPriceBase.Mul(decimal.NewFromInt(i.Quantity))
}
