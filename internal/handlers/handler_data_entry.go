package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
)

type dataEntryHandler struct {
	dataEntryService portssvc.DataEntrySvcFacade
}

func registerDataEntryRoutes(rg *gin.RouterGroup, dataEntryService portssvc.DataEntrySvcFacade) {
	h := &dataEntryHandler{dataEntryService: dataEntryService}

	entries := rg.Group("/data-entries")
	{
		entries.GET("", h.listEntries)
		entries.POST("", h.createEntry)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
	}
}

// listEntries godoc
// @Summary List data entries
// @Description Non-admins only see entries they created.
// @Tags data-entries
// @Produce json
// @Param entry_type query string false "Entry type"
// @Param company_id query int false "Company (admins only)"
// @Success 200 {array} dto.DataEntryResponse
// @Security BearerAuth
// @Router /data-entries [get]
func (h *dataEntryHandler) listEntries(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var params dto.ListDataEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	entries, err := h.dataEntryService.ListDataEntries(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list data entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDataEntryResponse(entries))
}

// createEntry godoc
// @Summary Create a data entry
// @Tags data-entries
// @Accept json
// @Produce json
// @Param entry body dto.CreateDataEntryRequest true "Entry"
// @Success 201 {object} dto.DataEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /data-entries [post]
func (h *dataEntryHandler) createEntry(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.CreateDataEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.dataEntryService.CreateDataEntry(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create data entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDataEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a data entry
// @Tags data-entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.DataEntryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /data-entries/{id} [get]
func (h *dataEntryHandler) getEntry(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	entry, err := h.dataEntryService.GetDataEntry(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve data entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToDataEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a data entry
// @Tags data-entries
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param entry body dto.UpdateDataEntryRequest true "Fields to change"
// @Success 200 {object} dto.DataEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /data-entries/{id} [put]
func (h *dataEntryHandler) updateEntry(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.UpdateDataEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.dataEntryService.UpdateDataEntry(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update data entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToDataEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a data entry
// @Tags data-entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /data-entries/{id} [delete]
func (h *dataEntryHandler) deleteEntry(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.dataEntryService.DeleteDataEntry(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete data entry")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Data entry deleted successfully"})
}
