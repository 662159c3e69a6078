package domain

// Company is a tenant. All bookkeeping rows belong to exactly one company.
type Company struct {
	CompanyID    int64        `json:"companyID"`
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	TaxID        string       `json:"taxID"`
	BaseCurrency string       `json:"baseCurrency"`
	Status       EntityStatus `json:"status"`
	AuditFields
}
