package models

import "github.com/shopspring/decimal"

// InventoryItem is a row of the inventory_items table.
type InventoryItem struct {
	ItemID        string          `db:"item_id"`
	CompanyID     int64           `db:"company_id"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	Quantity      int64           `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Currency      string          `db:"currency"`
	UnitPriceBase decimal.Decimal `db:"unit_price_base"`
	AuditFields
}
