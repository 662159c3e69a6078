package dto

import (
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInventoryItemRequest is the payload for adding a stock line.
type CreateInventoryItemRequest struct {
	Name      string          `json:"name" binding:"required,max=200"`
	Category  string          `json:"category" binding:"max=100"`
	Quantity  int64           `json:"quantity" binding:"min=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency" binding:"omitempty,iso4217"`
	CompanyID *int64          `json:"company_id" binding:"omitempty,gt=0"`
}

// UpdateInventoryItemRequest uses pointers so omitted fields keep their stored value.
type UpdateInventoryItemRequest struct {
	Name      *string          `json:"name" binding:"omitempty,max=200"`
	Category  *string          `json:"category" binding:"omitempty,max=100"`
	Quantity  *int64           `json:"quantity" binding:"omitempty,min=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Currency  *string          `json:"currency" binding:"omitempty,iso4217"`
}

// InventoryItemResponse is the public view of a stock line.
type InventoryItemResponse struct {
	ID           string          `json:"id"`
	CompanyID    int64           `json:"company_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Currency     string          `json:"currency"`
	UnitPriceMAD decimal.Decimal `json:"unit_price_mad"`
	TotalMAD     decimal.Decimal `json:"total_value_mad"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToInventoryItemResponse converts a domain.InventoryItem to its DTO.
func ToInventoryItemResponse(item *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:           item.ItemID,
		CompanyID:    item.CompanyID,
		Name:         item.Name,
		Category:     item.Category,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		Currency:     item.Currency,
		UnitPriceMAD: item.UnitPriceBase,
		TotalMAD:     item.ValueBase(),
		CreatedAt:    item.CreatedAt,
	}
}

// ToListInventoryResponse converts items to DTOs.
func ToListInventoryResponse(items []domain.InventoryItem) []InventoryItemResponse {
	out := make([]InventoryItemResponse, len(items))
	for i := range items {
		out[i] = ToInventoryItemResponse(&items[i])
	}
	return out
}
