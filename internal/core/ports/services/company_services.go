package services

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/dto"
)

// CompanySvcFacade manages tenants.
type CompanySvcFacade interface {
	ListCompanies(ctx context.Context, actorID string) ([]domain.Company, error)
	GetCompany(ctx context.Context, actorID string, companyID int64) (*domain.Company, error)
	CreateCompany(ctx context.Context, actorID string, req dto.CreateCompanyRequest) (*domain.Company, error)
}

// SeederSvc provisions the default tenant on an empty database.
type SeederSvc interface {
	SeedDefaults(ctx context.Context) error
}
