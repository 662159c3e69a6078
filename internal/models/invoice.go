package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	CompanyID     int64           `db:"company_id"`
	UserID        string          `db:"user_id"`
	InvoiceNumber string          `db:"invoice_number"`
	ClientName    string          `db:"client_name"`
	ClientEmail   string          `db:"client_email"`
	Amount        decimal.Decimal `db:"amount"`
	Currency      string          `db:"currency"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	TotalBase     decimal.Decimal `db:"total_base"`
	DateCreated   time.Time       `db:"date_created"`
	DateDue       time.Time       `db:"date_due"`
	Status        string          `db:"status"`
	AuditFields
}
