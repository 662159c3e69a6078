package models

// Company is a row of the companies table.
type Company struct {
	CompanyID    int64  `db:"company_id"`
	Name         string `db:"name"`
	Address      string `db:"address"`
	Phone        string `db:"phone"`
	Email        string `db:"email"`
	TaxID        string `db:"tax_id"`
	BaseCurrency string `db:"base_currency"`
	Status       string `db:"status"`
	AuditFields
}
