package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Access       AccessAuthorizerSvc
	Auth         AuthSvcFacade
	TokenService TokenSvcFacade
	Company      CompanySvcFacade
	User         UserSvcFacade
	Transaction  TransactionSvcFacade
	Invoice      InvoiceSvcFacade
	Inventory    InventorySvcFacade
	DataEntry    DataEntrySvcFacade
	ExchangeRate ExchangeRateSvcFacade
	Dashboard    DashboardSvc
	Import       ImportSvc
	Insight      InsightSvc
	Health       HealthSvc
	Seeder       SeederSvc
}
