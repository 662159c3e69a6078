package mapping

import (
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:    d.TransactionID,
		CompanyID:        d.CompanyID,
		UserID:           d.UserID,
		Date:             d.Date,
		Description:      d.Description,
		Amount:           d.Amount,
		Currency:         d.Currency,
		OriginalCurrency: d.OriginalCurrency,
		AmountBase:       d.AmountBase,
		ExchangeRate:     d.ExchangeRate,
		ExchangeRateDate: d.ExchangeRateDate,
		Type:             string(d.Type),
		Category:         d.Category,
		Source:           string(d.Source),
		ImportBatchID:    d.ImportBatchID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:    m.TransactionID,
		CompanyID:        m.CompanyID,
		UserID:           m.UserID,
		Date:             m.Date,
		Description:      m.Description,
		Amount:           m.Amount,
		Currency:         m.Currency,
		OriginalCurrency: m.OriginalCurrency,
		AmountBase:       m.AmountBase,
		ExchangeRate:     m.ExchangeRate,
		ExchangeRateDate: m.ExchangeRateDate,
		Type:             domain.TransactionType(m.Type),
		Category:         m.Category,
		Source:           domain.TransactionSource(m.Source),
		ImportBatchID:    m.ImportBatchID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
