package pgsql

import (
	"context"
	"fmt"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	"github.com/hdtransit/erp_backend/internal/models"
	"github.com/hdtransit/erp_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `invoice_id, company_id, user_id, invoice_number, client_name, client_email,
	amount, currency, tax_amount, total_amount, total_base, date_created, date_due, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.CompanyID,
		&m.UserID,
		&m.InvoiceNumber,
		&m.ClientName,
		&m.ClientEmail,
		&m.Amount,
		&m.Currency,
		&m.TaxAmount,
		&m.TotalAmount,
		&m.TotalBase,
		&m.DateCreated,
		&m.DateDue,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveInvoice inserts the invoice. A clashing invoice number yields apperrors.ErrDuplicate.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (invoice_id, company_id, user_id, invoice_number, client_name, client_email,
			amount, currency, tax_amount, total_amount, total_base, date_created, date_due, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.InvoiceID,
		m.CompanyID,
		m.UserID,
		m.InvoiceNumber,
		m.ClientName,
		m.ClientEmail,
		m.Amount,
		m.Currency,
		m.TaxAmount,
		m.TotalAmount,
		m.TotalBase,
		m.DateCreated,
		m.DateDue,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "invoice number "+m.InvoiceNumber)
	}
	return nil
}

func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices
		SET client_name = $1, client_email = $2, amount = $3, currency = $4, tax_amount = $5,
			total_amount = $6, total_base = $7, date_due = $8, status = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE invoice_id = $12;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ClientName,
		m.ClientEmail,
		m.Amount,
		m.Currency,
		m.TaxAmount,
		m.TotalAmount,
		m.TotalBase,
		m.DateDue,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.InvoiceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s not found: %w", m.InvoiceID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s not found: %w", invoiceID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find invoice "+invoiceID)
	}
	invoice := mapping.ToDomainInvoice(m)
	return &invoice, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, companyID int64, status *domain.InvoiceStatus) ([]domain.Invoice, error) {
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE company_id = $1 AND ($2::TEXT IS NULL OR status = $2)
		ORDER BY date_created DESC, created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, companyID, statusArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	modelInvoices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Invoice, error) {
		return scanInvoice(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice rows: %w", err)
	}

	invoices := make([]domain.Invoice, len(modelInvoices))
	for i, m := range modelInvoices {
		invoices[i] = mapping.ToDomainInvoice(m)
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) CountInvoicesByCompany(ctx context.Context, companyID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM invoices WHERE company_id = $1;`, companyID)
}

func (r *PgxInvoiceRepository) CountInvoicesByStatus(ctx context.Context, companyID int64, status domain.InvoiceStatus) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM invoices WHERE company_id = $1 AND status = $2;`, companyID, string(status))
}

func (r *PgxInvoiceRepository) CountInvoicesByUser(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM invoices WHERE user_id = $1;`, userID)
}

func (r *PgxInvoiceRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}
