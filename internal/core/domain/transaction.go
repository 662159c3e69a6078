package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// TransactionSource records how a transaction entered the system.
type TransactionSource string

const (
	SourceManual     TransactionSource = "manual"
	SourceBulkImport TransactionSource = "bulk_import"
	SourceCSVImport  TransactionSource = "csv_import"
)

// Transaction is a single income or expense line of a company.
// Amount is kept in the entered currency; AmountBase is the same value normalized
// into the reference currency and is what every aggregate is computed from.
type Transaction struct {
	TransactionID    string            `json:"transactionID"`
	CompanyID        int64             `json:"companyID"`
	UserID           string            `json:"userID"`
	Date             time.Time         `json:"date"`
	Description      string            `json:"description"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         string            `json:"currency"`
	OriginalCurrency string            `json:"originalCurrency"`
	AmountBase       decimal.Decimal   `json:"amountBase"`
	ExchangeRate     decimal.Decimal   `json:"exchangeRate"`
	ExchangeRateDate time.Time         `json:"exchangeRateDate"`
	Type             TransactionType   `json:"type"`
	Category         string            `json:"category"`
	Source           TransactionSource `json:"source"`
	ImportBatchID    *string           `json:"importBatchID,omitempty"`
	AuditFields
}

// TransactionFilter narrows a transaction listing. Nil fields do not filter.
type TransactionFilter struct {
	CompanyID int64
	Type      *TransactionType
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	NextToken *string
}

// ImportRowError describes why one input row of an import was rejected.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult summarizes a bulk or file import.
type ImportResult struct {
	BatchID    string           `json:"batchID"`
	Imported   int              `json:"imported"`
	TotalRows  int              `json:"totalRows"`
	ErrorCount int              `json:"errorCount"`
	Errors     []ImportRowError `json:"errors"`
}

// TransactionDraft is an unvalidated transaction as it arrives from a bulk payload or a
// parsed import file.
type TransactionDraft struct {
	Row         int
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Currency    string
	Type        TransactionType
	Category    string
}
