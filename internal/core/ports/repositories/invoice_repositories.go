package repositories

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoices.
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, companyID int64, status *domain.InvoiceStatus) ([]domain.Invoice, error)
	CountInvoicesByCompany(ctx context.Context, companyID int64) (int, error)
	CountInvoicesByStatus(ctx context.Context, companyID int64, status domain.InvoiceStatus) (int, error)
	CountInvoicesByUser(ctx context.Context, userID string) (int, error)
}

// InvoiceWriter defines write operations for invoices.
type InvoiceWriter interface {
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
