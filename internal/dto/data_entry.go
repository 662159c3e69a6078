package dto

import (
	"encoding/json"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
)

// CreateDataEntryRequest is the payload for storing a free-form record.
type CreateDataEntryRequest struct {
	EntryType   string          `json:"entry_type" binding:"required,max=50"`
	Data        json.RawMessage `json:"data"`
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Status      string          `json:"status" binding:"omitempty,max=20"`
	CompanyID   *int64          `json:"company_id" binding:"omitempty,gt=0"`
}

// UpdateDataEntryRequest uses pointers so omitted fields keep their stored value.
type UpdateDataEntryRequest struct {
	EntryType   *string         `json:"entry_type" binding:"omitempty,max=50"`
	Data        json.RawMessage `json:"data"`
	Title       *string         `json:"title" binding:"omitempty,max=200"`
	Description *string         `json:"description" binding:"omitempty,max=2000"`
	Status      *string         `json:"status" binding:"omitempty,max=20"`
}

// ListDataEntriesParams are the query filters of the data entry listing.
type ListDataEntriesParams struct {
	EntryType *string `form:"entry_type"`
	CompanyID *int64  `form:"company_id" binding:"omitempty,gt=0"`
}

// DataEntryResponse is the public view of a data entry.
type DataEntryResponse struct {
	ID          string          `json:"id"`
	CompanyID   int64           `json:"company_id"`
	EntryType   string          `json:"entry_type"`
	Data        json.RawMessage `json:"data"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToDataEntryResponse converts a domain.DataEntry to its DTO.
func ToDataEntryResponse(e *domain.DataEntry) DataEntryResponse {
	return DataEntryResponse{
		ID:          e.EntryID,
		CompanyID:   e.CompanyID,
		EntryType:   e.EntryType,
		Data:        e.Data,
		Title:       e.Title,
		Description: e.Description,
		Status:      e.Status,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.LastUpdatedAt,
	}
}

// ToListDataEntryResponse converts entries to DTOs.
func ToListDataEntryResponse(entries []domain.DataEntry) []DataEntryResponse {
	out := make([]DataEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToDataEntryResponse(&entries[i])
	}
	return out
}
