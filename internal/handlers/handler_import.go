package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/hdtransit/erp_backend/internal/middleware"
	"github.com/hdtransit/erp_backend/internal/utils"
)

const maxUploadBytes = 10 << 20

// registerImportRoutes registers the spreadsheet upload route.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvc, posthog *utils.PosthogClientWrapper) {
	rg.POST("/import-csv", importFile(importService, posthog))
}

// importFile godoc
// @Summary Import a spreadsheet of transactions
// @Description Accepts .csv, .xlsx or .json. Only the first 10 row errors are listed.
// @Tags transactions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet"
// @Param company_id query int false "Company (admins only)"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /import-csv [post]
func importFile(importService portssvc.ImportSvc, posthog *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actorID(c)
		if !ok {
			return
		}

		var scope dto.CompanyScopeParams
		if err := c.ShouldBindQuery(&scope); err != nil {
			bindError(c, err)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "No file provided"})
			return
		}
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read file"})
			return
		}
		defer f.Close()

		result, err := importService.ImportFile(c.Request.Context(), userID, scope.CompanyID, header.Filename, f)
		if err != nil {
			respondError(c, err, "Failed to import file")
			return
		}
		middleware.PosthogEvent(c, posthog, "transactions_file_imported", map[string]any{
			"imported":    result.Imported,
			"total_rows":  result.TotalRows,
			"error_count": result.ErrorCount,
		})
		c.JSON(http.StatusOK, dto.ToImportResponse(result))
	}
}
