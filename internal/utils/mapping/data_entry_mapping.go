package mapping

import (
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/models"
)

// ToModelDataEntry converts a domain DataEntry to a model DataEntry
func ToModelDataEntry(d domain.DataEntry) models.DataEntry {
	return models.DataEntry{
		EntryID:     d.EntryID,
		CompanyID:   d.CompanyID,
		EntryType:   d.EntryType,
		Data:        d.Data,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDataEntry converts a model DataEntry to a domain DataEntry
func ToDomainDataEntry(m models.DataEntry) domain.DataEntry {
	return domain.DataEntry{
		EntryID:     m.EntryID,
		CompanyID:   m.CompanyID,
		EntryType:   m.EntryType,
		Data:        m.Data,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
