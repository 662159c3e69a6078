package pgsql

import (
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:      newPgxCompanyRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		InvoiceRepo:      newPgxInvoiceRepository(dbPool),
		InventoryRepo:    newPgxInventoryRepository(dbPool),
		DataEntryRepo:    newPgxDataEntryRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		Health:           &BaseRepository{Pool: dbPool},
	}
}
