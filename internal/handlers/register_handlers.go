package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hdtransit/erp_backend/cmd/docs"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/middleware"
	"github.com/hdtransit/erp_backend/internal/platform/config"
	"github.com/hdtransit/erp_backend/internal/utils"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// posthogClient and loginLimiter may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
	loginLimiter *limiter.Limiter,
) {
	api := r.Group("/api")

	// Public routes
	registerHomeRoutes(api, services.Health)
	var loginLimit gin.HandlerFunc
	if loginLimiter != nil {
		loginLimit = middleware.RateLimit(loginLimiter)
	}
	registerAuthRoutes(api, services.Auth, services.Access, posthogClient, loginLimit)

	setupProtectedRoutes(api, cfg, services, posthogClient)

	setupSwaggerRoutes(r, cfg)
}

// setupProtectedRoutes applies AuthMiddleware to the rest of /api and delegates to the
// entity route registrations.
func setupProtectedRoutes(
	api *gin.RouterGroup,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	authed := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret), middleware.PosthogMiddleware(posthogClient))

	registerProfileRoutes(authed, service.Auth, service.Access)
	registerCompanyRoutes(authed, service.Company)
	registerUserRoutes(authed, service.User)
	registerTransactionRoutes(authed, service.Transaction)
	registerImportRoutes(authed, service.Import, posthogClient)
	registerInvoiceRoutes(authed, service.Invoice)
	registerInventoryRoutes(authed, service.Inventory)
	registerDataEntryRoutes(authed, service.DataEntry)
	registerExchangeRateRoutes(authed, service.ExchangeRate)
	registerDashboardRoutes(authed, service.Dashboard)
	registerInsightRoutes(authed, service.Insight)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
