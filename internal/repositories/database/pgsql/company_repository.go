package pgsql

import (
	"context"
	"fmt"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	"github.com/hdtransit/erp_backend/internal/models"
	"github.com/hdtransit/erp_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const companyColumns = `company_id, name, address, phone, email, tax_id, base_currency, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(pool *pgxpool.Pool) *PgxCompanyRepository {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

func scanCompany(row pgx.Row) (models.Company, error) {
	var m models.Company
	err := row.Scan(
		&m.CompanyID,
		&m.Name,
		&m.Address,
		&m.Phone,
		&m.Email,
		&m.TaxID,
		&m.BaseCurrency,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCompany inserts the company and writes the generated id back into it.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company *domain.Company) error {
	m := mapping.ToModelCompany(*company)
	query := `
		INSERT INTO companies (name, address, phone, email, tax_id, base_currency, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING company_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.Name,
		m.Address,
		m.Phone,
		m.Email,
		m.TaxID,
		m.BaseCurrency,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&company.CompanyID)
	if err != nil {
		return wrapWriteError(err, "failed to save company")
	}
	return nil
}

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID int64) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE company_id = $1;`
	m, err := scanCompany(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("failed to find company %d", companyID))
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}

func (r *PgxCompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY company_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	modelCompanies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Company, error) {
		return scanCompany(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan company rows: %w", err)
	}

	companies := make([]domain.Company, len(modelCompanies))
	for i, m := range modelCompanies {
		companies[i] = mapping.ToDomainCompany(m)
	}
	return companies, nil
}

func (r *PgxCompanyRepository) CountCompanies(ctx context.Context) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return count, nil
}
