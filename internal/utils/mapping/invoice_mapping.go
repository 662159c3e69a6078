package mapping

import (
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		CompanyID:     d.CompanyID,
		UserID:        d.UserID,
		InvoiceNumber: d.InvoiceNumber,
		ClientName:    d.ClientName,
		ClientEmail:   d.ClientEmail,
		Amount:        d.Amount,
		Currency:      d.Currency,
		TaxAmount:     d.TaxAmount,
		TotalAmount:   d.TotalAmount,
		TotalBase:     d.TotalBase,
		DateCreated:   d.DateCreated,
		DateDue:       d.DateDue,
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		CompanyID:     m.CompanyID,
		UserID:        m.UserID,
		InvoiceNumber: m.InvoiceNumber,
		ClientName:    m.ClientName,
		ClientEmail:   m.ClientEmail,
		Amount:        m.Amount,
		Currency:      m.Currency,
		TaxAmount:     m.TaxAmount,
		TotalAmount:   m.TotalAmount,
		TotalBase:     m.TotalBase,
		DateCreated:   m.DateCreated,
		DateDue:       m.DateDue,
		Status:        domain.InvoiceStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
