package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
)

type insightHandler struct {
	insightService portssvc.InsightSvc
}

func registerInsightRoutes(rg *gin.RouterGroup, insightService portssvc.InsightSvc) {
	h := &insightHandler{insightService: insightService}

	ai := rg.Group("/ai")
	{
		ai.POST("/categorize", h.categorize)
		ai.GET("/insights", h.insights)
	}
}

// categorize godoc
// @Summary Suggest a category
// @Description Keyword based; unknown descriptions map to Other.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body dto.CategorizeRequest true "Description"
// @Success 200 {object} dto.CategorizeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ai/categorize [post]
func (h *insightHandler) categorize(c *gin.Context) {
	var req dto.CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	s := h.insightService.Categorize(c.Request.Context(), req.Description, req.Amount)
	c.JSON(http.StatusOK, dto.CategorizeResponse{Category: s.Category, Confidence: s.Confidence})
}

// insights godoc
// @Summary Spending insights
// @Description Unusual expenses, a 30-day cash flow forecast and the largest expense categories.
// @Tags ai
// @Produce json
// @Param company_id query int false "Company (admins only)"
// @Success 200 {object} dto.InsightsResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ai/insights [get]
func (h *insightHandler) insights(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var scope dto.CompanyScopeParams
	if err := c.ShouldBindQuery(&scope); err != nil {
		bindError(c, err)
		return
	}

	in, err := h.insightService.Insights(c.Request.Context(), userID, scope.CompanyID)
	if err != nil {
		respondError(c, err, "Failed to compute insights")
		return
	}
	c.JSON(http.StatusOK, dto.ToInsightsResponse(in))
}
