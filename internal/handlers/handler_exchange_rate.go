package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/hdtransit/erp_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// exchangeRateHandler exposes the currency normalizer.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{rateService: rs}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("", h.getRates)
		rates.GET("/convert", h.convert)
		rates.GET("/history", h.history)
	}
}

// getRates godoc
// @Summary Current exchange rates
// @Description Returns how many units of each currency one unit of base buys.
// @Tags exchange-rates
// @Produce json
// @Param base query string false "Base currency" default(MAD)
// @Success 200 {object} dto.ExchangeRatesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) getRates(c *gin.Context) {
	var params dto.ExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	snap := h.rateService.GetSnapshot(c.Request.Context(), params.Base)
	c.JSON(http.StatusOK, dto.ToExchangeRatesResponse(&snap, time.Now().UTC()))
}

// convert godoc
// @Summary Convert an amount
// @Description Never fails on unknown currencies; the result is marked degraded instead.
// @Tags exchange-rates
// @Produce json
// @Param amount query string true "Amount"
// @Param from query string true "Source currency"
// @Param to query string true "Target currency"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ConvertParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid amount"})
		return
	}

	result := h.rateService.ConvertDetailed(c.Request.Context(), amount, params.From, params.To)
	if result.Degraded() {
		logger.Warn("Degraded conversion",
			slog.String("from", result.From),
			slog.String("to", result.To),
			slog.String("reason", result.Reason))
	}
	c.JSON(http.StatusOK, dto.ToConversionResponse(amount, result))
}

// history godoc
// @Summary Recorded exchange rates
// @Tags exchange-rates
// @Produce json
// @Param base query string false "Base currency" default(MAD)
// @Param target query string false "Target currency"
// @Param limit query int false "Maximum rows" default(100)
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates/history [get]
func (h *exchangeRateHandler) history(c *gin.Context) {
	var params dto.RateHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	rates, err := h.rateService.ListHistory(c.Request.Context(), params.Base, params.Target, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve rate history")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}
