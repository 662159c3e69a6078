package services

import (
	"context"
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
	"github.com/hdtransit/erp_backend/internal/utils"
)

// CompanyService manages tenants.
type CompanyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
	baseCcy     string
}

// NewCompanyService creates a new CompanyService. New companies default to baseCurrency.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, access portssvc.AccessAuthorizerSvc, baseCurrency string) *CompanyService {
	return &CompanyService{
		BaseService: BaseService{Access: access},
		companyRepo: companyRepo,
		baseCcy:     normalizeCurrency(baseCurrency, domain.ReferenceCurrency),
	}
}

var _ portssvc.CompanySvcFacade = (*CompanyService)(nil)

// ListCompanies returns every company to admins and only their own company to others.
func (s *CompanyService) ListCompanies(ctx context.Context, actorID string) ([]domain.Company, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		company, err := s.companyRepo.FindCompanyByID(ctx, actor.CompanyID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load own company", slog.Int64("company_id", actor.CompanyID))
			return nil, fmt.Errorf("failed to load company: %w", err)
		}
		return []domain.Company{*company}, nil
	}

	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies")
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}

// GetCompany returns a company the actor may access.
func (s *CompanyService) GetCompany(ctx context.Context, actorID string, companyID int64) (*domain.Company, error) {
	actor, err := s.Access.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCompany(actor, companyID, "company"); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return company, nil
}

// CreateCompany registers a new tenant. Admin only.
func (s *CompanyService) CreateCompany(ctx context.Context, actorID string, req dto.CreateCompanyRequest) (*domain.Company, error) {
	if _, err := s.Access.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("company name is required")
	}

	now := time.Now()
	company := &domain.Company{
		Name:         name,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        strings.ToLower(req.Email),
		TaxID:        req.TaxID,
		BaseCurrency: normalizeCurrency(req.BaseCurrency, s.baseCcy),
		Status:       domain.StatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company", slog.String("name", name))
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.LogInfo(ctx, "Company created", slog.Int64("company_id", company.CompanyID), slog.String("created_by", actorID))
	return company, nil
}

// Default tenant provisioned on an empty database.
const (
	defaultCompanyName   = "Happy Deal Transit"
	defaultCompanyEmail  = "contact@hdtransit.com"
	defaultAdminEmail    = "admin@hdtransit.com"
	defaultAdminPassword = "admin123"
	defaultUserEmail     = "user@hdtransit.com"
	defaultUserPassword  = "user123"
	systemActor          = "system"
)

// SeedService provisions the default tenant.
type SeedService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	baseCcy     string
}

// NewSeedService creates a new SeedService.
func NewSeedService(companyRepo portsrepo.CompanyRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, baseCurrency string) *SeedService {
	return &SeedService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		baseCcy:     normalizeCurrency(baseCurrency, domain.ReferenceCurrency),
	}
}

var _ portssvc.SeederSvc = (*SeedService)(nil)

// SeedDefaults creates the default company with an admin and a regular user, unless
// any company already exists.
func (s *SeedService) SeedDefaults(ctx context.Context) error {
	count, err := s.companyRepo.CountCompanies(ctx)
	if err != nil {
		return fmt.Errorf("failed to count companies: %w", err)
	}
	if count > 0 {
		s.LogDebug(ctx, "Database already seeded", slog.Int("companies", count))
		return nil
	}

	now := time.Now()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: systemActor, LastUpdatedAt: now, LastUpdatedBy: systemActor}

	company := &domain.Company{
		Name:         defaultCompanyName,
		Email:        defaultCompanyEmail,
		BaseCurrency: s.baseCcy,
		Status:       domain.StatusActive,
		AuditFields:  audit,
	}
	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		return fmt.Errorf("failed to seed company: %w", err)
	}

	seedUsers := []struct {
		name, email, password string
		role                  domain.UserRole
	}{
		{"Admin User", defaultAdminEmail, defaultAdminPassword, domain.RoleAdmin},
		{"User Test", defaultUserEmail, defaultUserPassword, domain.RoleUser},
	}
	for _, su := range seedUsers {
		hash, err := utils.HashPassword(su.password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		user := domain.User{
			UserID:       uuid.NewString(),
			Name:         su.name,
			Email:        su.email,
			PasswordHash: hash,
			Role:         su.role,
			CompanyID:    company.CompanyID,
			Status:       domain.StatusActive,
			AuditFields:  audit,
		}
		if err := s.userRepo.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", su.email, err)
		}
	}

	s.LogInfo(ctx, "Seeded default company and users",
		slog.Int64("company_id", company.CompanyID),
		slog.String("admin_email", defaultAdminEmail))
	return nil
}
