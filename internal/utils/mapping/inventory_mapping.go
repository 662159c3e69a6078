package mapping

import (
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/models"
)

// ToModelInventoryItem converts a domain InventoryItem to a model InventoryItem
func ToModelInventoryItem(d domain.InventoryItem) models.InventoryItem {
	return models.InventoryItem{
		ItemID:        d.ItemID,
		CompanyID:     d.CompanyID,
		Name:          d.Name,
		Category:      d.Category,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		Currency:      d.Currency,
		UnitPriceBase: d.UnitPriceBase,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInventoryItem converts a model InventoryItem to a domain InventoryItem
func ToDomainInventoryItem(m models.InventoryItem) domain.InventoryItem {
	return domain.InventoryItem{
		ItemID:        m.ItemID,
		CompanyID:     m.CompanyID,
		Name:          m.Name,
		Category:      m.Category,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Currency:      m.Currency,
		UnitPriceBase: m.UnitPriceBase,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
