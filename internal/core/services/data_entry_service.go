package services

import (
	"context"
	"encoding/json"
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

const defaultDataEntryStatus = "active"

// DataEntryService manages free-form records. Admins see the whole company; other
// users only what they created.
type DataEntryService struct {
	BaseService
	entryRepo portsrepo.DataEntryRepositoryFacade
}

// NewDataEntryService creates a new DataEntryService.
func NewDataEntryService(entryRepo portsrepo.DataEntryRepositoryFacade, access portssvc.AccessAuthorizerSvc) *DataEntryService {
	return &DataEntryService{
		BaseService: BaseService{Access: access},
		entryRepo:   entryRepo,
	}
}

var _ portssvc.DataEntrySvcFacade = (*DataEntryService)(nil)

// CreateDataEntry stores a record. Data must be a JSON object when given.
func (s *DataEntryService) CreateDataEntry(ctx context.Context, actorID string, req dto.CreateDataEntryRequest) (*domain.DataEntry, error) {
	_, companyID, err := s.Access.ResolveCompany(ctx, actorID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	entryType := strings.TrimSpace(req.EntryType)
	title := strings.TrimSpace(req.Title)
	if entryType == "" || title == "" {
		return nil, apperrors.NewValidationError("entry_type and title are required")
	}
	data, err := normalizeEntryData(req.Data)
	if err != nil {
		return nil, err
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = defaultDataEntryStatus
	}

	now := time.Now()
	entry := domain.DataEntry{
		EntryID:     uuid.NewString(),
		CompanyID:   companyID,
		EntryType:   entryType,
		Data:        data,
		Title:       title,
		Description: req.Description,
		Status:      status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.entryRepo.SaveDataEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save data entry", slog.Int64("company_id", companyID))
		return nil, fmt.Errorf("failed to create data entry: %w", err)
	}
	s.LogInfo(ctx, "Data entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_type", entryType))
	return &entry, nil
}

// GetDataEntry returns an entry the actor may see.
func (s *DataEntryService) GetDataEntry(ctx context.Context, actorID string, entryID string) (*domain.DataEntry, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.findAccessible(ctx, actor, entryID)
}

// ListDataEntries returns the company's entries, restricted to the actor's own unless
// they are an admin.
func (s *DataEntryService) ListDataEntries(ctx context.Context, actorID string, params dto.ListDataEntriesParams) ([]domain.DataEntry, error) {
	actor, companyID, err := s.Access.ResolveCompany(ctx, actorID, params.CompanyID)
	if err != nil {
		return nil, err
	}

	filter := portsrepo.DataEntryFilter{CompanyID: companyID}
	if params.EntryType != nil && *params.EntryType != "" {
		filter.EntryType = params.EntryType
	}
	if !actor.IsAdmin() {
		filter.CreatedBy = &actor.UserID
	}

	entries, err := s.entryRepo.ListDataEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list data entries", slog.Int64("company_id", companyID))
		return nil, fmt.Errorf("failed to list data entries: %w", err)
	}
	if entries == nil {
		return []domain.DataEntry{}, nil
	}
	return entries, nil
}

// UpdateDataEntry applies the provided fields.
func (s *DataEntryService) UpdateDataEntry(ctx context.Context, actorID string, entryID string, req dto.UpdateDataEntryRequest) (*domain.DataEntry, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	entry, err := s.findAccessible(ctx, actor, entryID)
	if err != nil {
		return nil, err
	}

	if req.EntryType != nil {
		if strings.TrimSpace(*req.EntryType) == "" {
			return nil, apperrors.NewValidationError("entry_type cannot be empty")
		}
		entry.EntryType = strings.TrimSpace(*req.EntryType)
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, apperrors.NewValidationError("title cannot be empty")
		}
		entry.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Status != nil {
		entry.Status = strings.TrimSpace(*req.Status)
	}
	if req.Data != nil {
		data, err := normalizeEntryData(req.Data)
		if err != nil {
			return nil, err
		}
		entry.Data = data
	}
	entry.LastUpdatedAt = time.Now()
	entry.LastUpdatedBy = actorID

	if err := s.entryRepo.UpdateDataEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to update data entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update data entry: %w", err)
	}
	return entry, nil
}

// DeleteDataEntry removes an entry the actor may modify.
func (s *DataEntryService) DeleteDataEntry(ctx context.Context, actorID string, entryID string) error {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}
	if _, err := s.findAccessible(ctx, actor, entryID); err != nil {
		return err
	}
	if err := s.entryRepo.DeleteDataEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete data entry", slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete data entry: %w", err)
	}
	s.LogInfo(ctx, "Data entry deleted", slog.String("entry_id", entryID), slog.String("deleted_by", actorID))
	return nil
}

// findAccessible loads an entry and hides it unless the actor is an admin of a reachable
// company or its creator.
func (s *DataEntryService) findAccessible(ctx context.Context, actor *domain.User, entryID string) (*domain.DataEntry, error) {
	entry, err := s.entryRepo.FindDataEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load data entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if err := authorizeCompany(actor, entry.CompanyID, "data entry"); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && entry.CreatedBy != actor.UserID {
		return nil, apperrors.NewNotFoundError("data entry not found")
	}
	return entry, nil
}

// normalizeEntryData accepts a JSON object, treating empty input as {}.
func normalizeEntryData(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage(`{}`), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, apperrors.NewValidationError("data must be a JSON object")
	}
	return raw, nil
}
