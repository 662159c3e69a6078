package dto

import (
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted and returned by the API.
const DateLayout = "2006-01-02"

// CreateTransactionRequest is the payload for recording a transaction.
type CreateTransactionRequest struct {
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Description string          `json:"description" binding:"required,max=500"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" binding:"omitempty,iso4217"`
	Type        string          `json:"type" binding:"required,txtype"`
	Category    string          `json:"category" binding:"max=100"`
	CompanyID   *int64          `json:"company_id" binding:"omitempty,gt=0"`
}

// UpdateTransactionRequest uses pointers so omitted fields keep their stored value.
type UpdateTransactionRequest struct {
	Date        *string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency" binding:"omitempty,iso4217"`
	Type        *string          `json:"type" binding:"omitempty,txtype"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
}

// ListTransactionsParams are the query filters of the transaction listing.
type ListTransactionsParams struct {
	Type      *string `form:"type" binding:"omitempty,txtype"`
	Category  *string `form:"category"`
	StartDate *string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	PageSize  int     `form:"page_size,default=50" binding:"omitempty,min=1,max=500"`
	NextToken *string `form:"next_token"`
	CompanyID *int64  `form:"company_id" binding:"omitempty,gt=0"`
}

// BulkTransactionRow is one element of a bulk import payload. Fields are loose on purpose
// so a single bad row is reported instead of failing the whole request.
type BulkTransactionRow struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// BulkImportRequest wraps rows for POST /transactions/bulk-import.
type BulkImportRequest struct {
	Transactions []BulkTransactionRow `json:"transactions" binding:"required,min=1,max=5000"`
	CompanyID    *int64               `json:"company_id" binding:"omitempty,gt=0"`
}

// TransactionResponse is the public view of a transaction.
type TransactionResponse struct {
	ID               string          `json:"id"`
	CompanyID        int64           `json:"company_id"`
	UserID           string          `json:"user_id"`
	Date             string          `json:"date"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	OriginalCurrency string          `json:"original_currency"`
	AmountMAD        decimal.Decimal `json:"amount_mad"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate"`
	ExchangeRateDate string          `json:"exchange_rate_date"`
	Type             string          `json:"type"`
	Category         string          `json:"category"`
	Source           string          `json:"source"`
	ImportBatchID    *string         `json:"import_batch_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"next_token,omitempty"`
}

// ImportResponse reports the outcome of a bulk or file import.
type ImportResponse struct {
	BatchID    string                  `json:"batch_id"`
	Imported   int                     `json:"imported"`
	TotalRows  int                     `json:"total_rows"`
	ErrorCount int                     `json:"error_count"`
	Errors     []domain.ImportRowError `json:"errors"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.TransactionID,
		CompanyID:        t.CompanyID,
		UserID:           t.UserID,
		Date:             t.Date.Format(DateLayout),
		Description:      t.Description,
		Amount:           t.Amount,
		Currency:         t.Currency,
		OriginalCurrency: t.OriginalCurrency,
		AmountMAD:        t.AmountBase,
		ExchangeRate:     t.ExchangeRate,
		ExchangeRateDate: t.ExchangeRateDate.Format(DateLayout),
		Type:             string(t.Type),
		Category:         t.Category,
		Source:           string(t.Source),
		ImportBatchID:    t.ImportBatchID,
		CreatedAt:        t.CreatedAt,
	}
}

// ToListTransactionsResponse converts a page of transactions to its DTO.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: out, NextToken: nextToken}
}

// ToImportResponse converts a domain.ImportResult to its DTO.
func ToImportResponse(r *domain.ImportResult) ImportResponse {
	errs := r.Errors
	if errs == nil {
		errs = []domain.ImportRowError{}
	}
	return ImportResponse{
		BatchID:    r.BatchID,
		Imported:   r.Imported,
		TotalRows:  r.TotalRows,
		ErrorCount: r.ErrorCount,
		Errors:     errs,
	}
}
