package services

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/dto"
)

// InvoiceSvcFacade manages invoices.
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, actorID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, actorID string, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, actorID string, params dto.ListInvoicesParams) ([]domain.Invoice, error)
	UpdateInvoice(ctx context.Context, actorID string, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, actorID string, invoiceID string) error
}
