package mapping

import (
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/models"
)

// ToModelAuditFields copies audit columns onto a model.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields(d)
}

// ToDomainAuditFields copies audit columns onto a domain entity.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields(m)
}

// toDomainStatus reads a status column. An empty value reads as active.
func toDomainStatus(s string) domain.EntityStatus {
	if s == "" {
		return domain.StatusActive
	}
	return domain.EntityStatus(s)
}
