package dto

import (
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest is the payload for issuing an invoice.
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"omitempty,max=50"`
	ClientName    string          `json:"client_name" binding:"required,max=200"`
	ClientEmail   string          `json:"client_email" binding:"omitempty,email"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"omitempty,iso4217"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	DateDue       *string         `json:"date_due" binding:"omitempty,datetime=2006-01-02"`
	Status        string          `json:"status" binding:"omitempty,invstatus"`
	CompanyID     *int64          `json:"company_id" binding:"omitempty,gt=0"`
}

// UpdateInvoiceRequest uses pointers so omitted fields keep their stored value.
type UpdateInvoiceRequest struct {
	ClientName  *string          `json:"client_name" binding:"omitempty,max=200"`
	ClientEmail *string          `json:"client_email" binding:"omitempty,email"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency" binding:"omitempty,iso4217"`
	TaxAmount   *decimal.Decimal `json:"tax_amount"`
	DateDue     *string          `json:"date_due" binding:"omitempty,datetime=2006-01-02"`
	Status      *string          `json:"status" binding:"omitempty,invstatus"`
}

// ListInvoicesParams are the query filters of the invoice listing.
type ListInvoicesParams struct {
	Status    *string `form:"status" binding:"omitempty,invstatus"`
	CompanyID *int64  `form:"company_id" binding:"omitempty,gt=0"`
}

// InvoiceResponse is the public view of an invoice.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	CompanyID     int64           `json:"company_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	ClientEmail   string          `json:"client_email"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalMAD      decimal.Decimal `json:"total_mad"`
	DateCreated   string          `json:"date_created"`
	DateDue       string          `json:"date_due"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain.Invoice to its DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.InvoiceID,
		CompanyID:     inv.CompanyID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		Amount:        inv.Amount,
		Currency:      inv.Currency,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		TotalMAD:      inv.TotalBase,
		DateCreated:   inv.DateCreated.Format(DateLayout),
		DateDue:       inv.DateDue.Format(DateLayout),
		Status:        string(inv.Status),
		CreatedAt:     inv.CreatedAt,
	}
}

// ToListInvoiceResponse converts invoices to DTOs.
func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out
}
