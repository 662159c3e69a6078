package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
)

// InventoryService manages stock lines.
type InventoryService struct {
	BaseService
	inventoryRepo portsrepo.InventoryRepositoryFacade
	normalizer    portssvc.CurrencyNormalizerSvc
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepositoryFacade, normalizer portssvc.CurrencyNormalizerSvc, access portssvc.AccessAuthorizerSvc) *InventoryService {
	return &InventoryService{
		BaseService:   BaseService{Access: access},
		inventoryRepo: inventoryRepo,
		normalizer:    normalizer,
	}
}

var _ portssvc.InventorySvcFacade = (*InventoryService)(nil)

// CreateItem adds a stock line valued in the base currency.
func (s *InventoryService) CreateItem(ctx context.Context, actorID string, req dto.CreateInventoryItemRequest) (*domain.InventoryItem, error) {
	_, companyID, err := s.Access.ResolveCompany(ctx, actorID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if req.Quantity < 0 {
		return nil, apperrors.NewValidationError("quantity cannot be negative")
	}
	if req.UnitPrice.IsNegative() {
		return nil, apperrors.NewValidationError("unit_price cannot be negative")
	}

	now := time.Now()
	item := domain.InventoryItem{
		ItemID:    uuid.NewString(),
		CompanyID: companyID,
		Name:      name,
		Category:  strings.TrimSpace(req.Category),
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Currency:  normalizeCurrency(req.Currency, s.normalizer.BaseCurrency()),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	item.UnitPriceBase = s.normalizer.Convert(ctx, item.UnitPrice, item.Currency, s.normalizer.BaseCurrency())

	if err := s.inventoryRepo.SaveItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save inventory item", slog.Int64("company_id", companyID))
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	s.LogInfo(ctx, "Inventory item created", slog.String("item_id", item.ItemID), slog.Int64("company_id", companyID))
	return &item, nil
}

// GetItem returns a stock line the actor may access.
func (s *InventoryService) GetItem(ctx context.Context, actorID string, itemID string) (*domain.InventoryItem, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.findAccessible(ctx, actor, itemID)
}

// ListItems returns the company's stock lines.
func (s *InventoryService) ListItems(ctx context.Context, actorID string, companyID *int64) ([]domain.InventoryItem, error) {
	_, cid, err := s.Access.ResolveCompany(ctx, actorID, companyID)
	if err != nil {
		return nil, err
	}
	items, err := s.inventoryRepo.ListItems(ctx, cid)
	if err != nil {
		s.LogError(ctx, err, "Failed to list inventory", slog.Int64("company_id", cid))
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	if items == nil {
		return []domain.InventoryItem{}, nil
	}
	return items, nil
}

// UpdateItem applies the provided fields; a changed price or currency is revalued.
func (s *InventoryService) UpdateItem(ctx context.Context, actorID string, itemID string, req dto.UpdateInventoryItemRequest) (*domain.InventoryItem, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	item, err := s.findAccessible(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}

	revalue := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name is required")
		}
		item.Name = name
	}
	if req.Category != nil {
		item.Category = strings.TrimSpace(*req.Category)
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, apperrors.NewValidationError("quantity cannot be negative")
		}
		item.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, apperrors.NewValidationError("unit_price cannot be negative")
		}
		revalue = revalue || !req.UnitPrice.Equal(item.UnitPrice)
		item.UnitPrice = *req.UnitPrice
	}
	if req.Currency != nil {
		currency := normalizeCurrency(*req.Currency, s.normalizer.BaseCurrency())
		revalue = revalue || currency != item.Currency
		item.Currency = currency
	}
	if revalue {
		item.UnitPriceBase = s.normalizer.Convert(ctx, item.UnitPrice, item.Currency, s.normalizer.BaseCurrency())
	}
	item.LastUpdatedAt = time.Now()
	item.LastUpdatedBy = actorID

	if err := s.inventoryRepo.UpdateItem(ctx, *item); err != nil {
		s.LogError(ctx, err, "Failed to update inventory item", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return item, nil
}

// DeleteItem removes a stock line the actor may access.
func (s *InventoryService) DeleteItem(ctx context.Context, actorID string, itemID string) error {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}
	if _, err := s.findAccessible(ctx, actor, itemID); err != nil {
		return err
	}
	if err := s.inventoryRepo.DeleteItem(ctx, itemID); err != nil {
		s.LogError(ctx, err, "Failed to delete inventory item", slog.String("item_id", itemID))
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	s.LogInfo(ctx, "Inventory item deleted", slog.String("item_id", itemID), slog.String("deleted_by", actorID))
	return nil
}

func (s *InventoryService) findAccessible(ctx context.Context, actor *domain.User, itemID string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load inventory item", slog.String("item_id", itemID))
		}
		return nil, err
	}
	if err := authorizeCompany(actor, item.CompanyID, "inventory item"); err != nil {
		return nil, err
	}
	return item, nil
}
