package services

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/dto"
)

// DataEntrySvcFacade manages free-form records. Non-admins only reach their own entries.
type DataEntrySvcFacade interface {
	CreateDataEntry(ctx context.Context, actorID string, req dto.CreateDataEntryRequest) (*domain.DataEntry, error)
	GetDataEntry(ctx context.Context, actorID string, entryID string) (*domain.DataEntry, error)
	ListDataEntries(ctx context.Context, actorID string, params dto.ListDataEntriesParams) ([]domain.DataEntry, error)
	UpdateDataEntry(ctx context.Context, actorID string, entryID string, req dto.UpdateDataEntryRequest) (*domain.DataEntry, error)
	DeleteDataEntry(ctx context.Context, actorID string, entryID string) error
}
