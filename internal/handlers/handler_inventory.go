package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
)

type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := &inventoryHandler{inventoryService: inventoryService}

	items := rg.Group("/inventory")
	{
		items.GET("", h.listItems)
		items.POST("", h.createItem)
		items.GET("/:id", h.getItem)
		items.PUT("/:id", h.updateItem)
		items.DELETE("/:id", h.deleteItem)
	}
}

// listItems godoc
// @Summary List inventory items
// @Tags inventory
// @Produce json
// @Param company_id query int false "Company (admins only)"
// @Success 200 {array} dto.InventoryItemResponse
// @Security BearerAuth
// @Router /inventory [get]
func (h *inventoryHandler) listItems(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var scope dto.CompanyScopeParams
	if err := c.ShouldBindQuery(&scope); err != nil {
		bindError(c, err)
		return
	}

	items, err := h.inventoryService.ListItems(c.Request.Context(), userID, scope.CompanyID)
	if err != nil {
		respondError(c, err, "Failed to list inventory")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInventoryResponse(items))
}

// createItem godoc
// @Summary Add an inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Param item body dto.CreateInventoryItemRequest true "Item"
// @Success 201 {object} dto.InventoryItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /inventory [post]
func (h *inventoryHandler) createItem(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create inventory item")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInventoryItemResponse(item))
}

// getItem godoc
// @Summary Get an inventory item
// @Tags inventory
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.InventoryItemResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /inventory/{id} [get]
func (h *inventoryHandler) getItem(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve inventory item")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryItemResponse(item))
}

// updateItem godoc
// @Summary Update an inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param item body dto.UpdateInventoryItemRequest true "Fields to change"
// @Success 200 {object} dto.InventoryItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /inventory/{id} [put]
func (h *inventoryHandler) updateItem(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update inventory item")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryItemResponse(item))
}

// deleteItem godoc
// @Summary Delete an inventory item
// @Tags inventory
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /inventory/{id} [delete]
func (h *inventoryHandler) deleteItem(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteItem(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete inventory item")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Item deleted successfully"})
}
