package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardSvc
}

func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvc) {
	h := &dashboardHandler{dashboardService: dashboardService}

	rg.GET("/dashboard", h.summary)
	rg.GET("/dashboard/charts", h.charts)
}

// summary godoc
// @Summary Company totals
// @Description Income, expenses, profit, pending invoices and stock value in the display currency.
// @Tags dashboard
// @Produce json
// @Param currency query string false "Display currency" default(MAD)
// @Param company_id query int false "Company (admins only)"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) summary(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var params dto.DashboardParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	summary, err := h.dashboardService.Summary(c.Request.Context(), userID, params.CompanyID, params.Currency)
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardResponse(summary))
}

// charts godoc
// @Summary Dashboard charts
// @Description Income and expense series plus expense categories for the period.
// @Tags dashboard
// @Produce json
// @Param period query string false "weekly, monthly, 6months or yearly" default(monthly)
// @Param currency query string false "Display currency" default(MAD)
// @Param company_id query int false "Company (admins only)"
// @Success 200 {object} dto.ChartResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/charts [get]
func (h *dashboardHandler) charts(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var params dto.ChartParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	data, err := h.dashboardService.Charts(c.Request.Context(), userID, params.CompanyID, domain.ChartPeriod(params.Period), params.Currency)
	if err != nil {
		respondError(c, err, "Failed to load charts")
		return
	}
	c.JSON(http.StatusOK, dto.ToChartResponse(data))
}
