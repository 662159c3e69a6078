package services

import (
	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/platform/config"
)

// ServiceDeps carries the infrastructure built at startup and shared by services.
type ServiceDeps struct {
	Normalizer *CurrencyNormalizer
	// Publisher may be nil when event publishing is disabled.
	Publisher gateways.EventPublisher
	// Cache may be nil when no shared cache is configured.
	Cache portsrepo.HealthChecker
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps ServiceDeps) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	// Access control first since every other service depends on it
	access := NewAccessService(repos.UserRepo)
	container.Access = access

	container.ExchangeRate = deps.Normalizer
	baseCurrency := deps.Normalizer.BaseCurrency()

	container.TokenService = NewTokenService(cfg)
	container.Auth = NewAuthService(repos.UserRepo, container.TokenService, NewGoogleOAuthHandlerService(cfg))
	container.Company = NewCompanyService(repos.CompanyRepo, access, baseCurrency)
	container.User = NewUserService(repos.UserRepo, access,
		WithUserCompanyReader(repos.CompanyRepo),
		WithUserActivityReaders(repos.TransactionRepo, repos.InvoiceRepo, repos.DataEntryRepo),
	)

	categorizer := NewKeywordCategorizer()
	transactions := NewTransactionService(repos.TransactionRepo, deps.Normalizer, access,
		WithTransactionCategorizer(categorizer),
		WithTransactionEventPublisher(deps.Publisher),
	)
	container.Transaction = transactions
	container.Import = NewImportService(transactions, baseCurrency, WithImportCategorizer(categorizer))
	container.Insight = NewInsightService(repos.TransactionRepo, access, baseCurrency, WithInsightCategorizer(categorizer))

	container.Invoice = NewInvoiceService(repos.InvoiceRepo, deps.Normalizer, access,
		WithInvoiceEventPublisher(deps.Publisher),
	)
	container.Inventory = NewInventoryService(repos.InventoryRepo, deps.Normalizer, access)
	container.DataEntry = NewDataEntryService(repos.DataEntryRepo, access)
	container.Dashboard = NewDashboardService(repos.TransactionRepo, repos.InvoiceRepo, repos.InventoryRepo, deps.Normalizer, access)

	container.Health = NewHealthService(repos.Health, deps.Cache)
	container.Seeder = NewSeedService(repos.CompanyRepo, repos.UserRepo, baseCurrency)

	return container
}
