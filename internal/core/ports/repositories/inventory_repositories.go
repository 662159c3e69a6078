package repositories

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryReader defines read operations for inventory items.
type InventoryReader interface {
	FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, companyID int64) ([]domain.InventoryItem, error)

	// TotalValueBase sums quantity * unit_price_base over the company's stock.
	TotalValueBase(ctx context.Context, companyID int64) (decimal.Decimal, error)
}

// InventoryWriter defines write operations for inventory items.
type InventoryWriter interface {
	SaveItem(ctx context.Context, item domain.InventoryItem) error
	UpdateItem(ctx context.Context, item domain.InventoryItem) error
	DeleteItem(ctx context.Context, itemID string) error
}

// InventoryRepositoryFacade combines all inventory repository interfaces.
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
}
