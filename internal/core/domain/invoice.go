package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
	InvoiceOverdue   InvoiceStatus = "overdue"
)

// IsValid reports whether s is a known invoice status.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceCancelled, InvoiceOverdue:
		return true
	}
	return false
}

// DefaultInvoiceTerm is the gap between creation and due date when none is given.
const DefaultInvoiceTerm = 30 * 24 * time.Hour

// Invoice is a bill issued by a company to a client.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	CompanyID     int64           `json:"companyID"`
	UserID        string          `json:"userID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ClientName    string          `json:"clientName"`
	ClientEmail   string          `json:"clientEmail"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalBase     decimal.Decimal `json:"totalBase"`
	DateCreated   time.Time       `json:"dateCreated"`
	DateDue       time.Time       `json:"dateDue"`
	Status        InvoiceStatus   `json:"status"`
	AuditFields
}
