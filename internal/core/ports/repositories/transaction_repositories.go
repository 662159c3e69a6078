package repositories

import (
	"context"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for company transactions.
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page matching the filter, newest first, and the token
	// of the next page (nil when exhausted).
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)

	// ListExpensesSince returns the company's expenses dated on or after since.
	ListExpensesSince(ctx context.Context, companyID int64, since time.Time) ([]domain.Transaction, error)

	CountTransactionsByUser(ctx context.Context, userID string) (int, error)
}

// TransactionAggregator defines the base-currency aggregates behind dashboards.
type TransactionAggregator interface {
	// SumByType returns total income and expenses in the base currency.
	SumByType(ctx context.Context, companyID int64) (income decimal.Decimal, expenses decimal.Decimal, err error)

	// DailyTotals returns per-day income and expense sums in [from, to).
	DailyTotals(ctx context.Context, companyID int64, from, to time.Time) ([]domain.DailyTotal, error)

	// ExpenseTotalsByCategory returns expense sums per category in [from, to), largest first.
	ExpenseTotalsByCategory(ctx context.Context, companyID int64, from, to time.Time) ([]domain.CategoryTotal, error)
}

// TransactionWriter defines write operations for transactions.
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveTransactions persists all rows atomically.
	SaveTransactions(ctx context.Context, txns []domain.Transaction) error

	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionAggregator
	TransactionWriter
}
