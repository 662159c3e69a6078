package services

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/dto"
)

// InventorySvcFacade manages stock lines.
type InventorySvcFacade interface {
	CreateItem(ctx context.Context, actorID string, req dto.CreateInventoryItemRequest) (*domain.InventoryItem, error)
	GetItem(ctx context.Context, actorID string, itemID string) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, actorID string, companyID *int64) ([]domain.InventoryItem, error)
	UpdateItem(ctx context.Context, actorID string, itemID string, req dto.UpdateInventoryItemRequest) (*domain.InventoryItem, error)
	DeleteItem(ctx context.Context, actorID string, itemID string) error
}
