package mapping

import (
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/models"
)

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:    d.CompanyID,
		Name:         d.Name,
		Address:      d.Address,
		Phone:        d.Phone,
		Email:        d.Email,
		TaxID:        d.TaxID,
		BaseCurrency: d.BaseCurrency,
		Status:       string(d.Status),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:    m.CompanyID,
		Name:         m.Name,
		Address:      m.Address,
		Phone:        m.Phone,
		Email:        m.Email,
		TaxID:        m.TaxID,
		BaseCurrency: m.BaseCurrency,
		Status:       toDomainStatus(m.Status),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
