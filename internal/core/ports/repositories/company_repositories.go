package repositories

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
)

// CompanyReader defines read operations for companies.
type CompanyReader interface {
	FindCompanyByID(ctx context.Context, companyID int64) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	CountCompanies(ctx context.Context) (int, error)
}

// CompanyWriter defines write operations for companies.
type CompanyWriter interface {
	// SaveCompany inserts the company and sets its generated CompanyID.
	SaveCompany(ctx context.Context, company *domain.Company) error
}

// CompanyRepositoryFacade combines all company repository interfaces.
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
