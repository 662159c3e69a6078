package services

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions.
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, actorID string, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, actorID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// TransactionWriterSvc defines write operations for transactions.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, actorID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, actorID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, actorID string, transactionID string) error
}

// TransactionImporterSvc persists many drafts at once, reporting rejected rows.
type TransactionImporterSvc interface {
	BulkImport(ctx context.Context, actorID string, req dto.BulkImportRequest) (*domain.ImportResult, error)

	// ImportDrafts validates drafts, normalizes them and saves the valid ones atomically.
	// rejected carries rows a parser already refused; totalRows counts both.
	ImportDrafts(ctx context.Context, actorID string, companyID *int64, drafts []domain.TransactionDraft, rejected []domain.ImportRowError, totalRows int, source domain.TransactionSource) (*domain.ImportResult, error)
}

// TransactionSvcFacade combines all transaction service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionImporterSvc
}
