package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/warehouse/backend/internal/application/catalog"
	"github.com/warehouse/backend/internal/interfaces/http/dto"
)

// WarehouseHandler handles warehouse and location endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *catalogapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *catalogapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// RegisterRoutes registers warehouse and location routes
func (h *WarehouseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	warehouses := rg.Group("/catalog/warehouses")
	{
		warehouses.POST("", h.Create)
		warehouses.GET("", h.List)
		warehouses.GET("/:id", h.Get)
		warehouses.GET("/code/:code", h.GetByCode)
		warehouses.PUT("/:id", h.Update)
		warehouses.DELETE("/:id", h.Delete)
		warehouses.POST("/:id/locations", h.AddLocation)
	}

	locations := rg.Group("/catalog/locations")
	{
		locations.GET("/:id", h.GetLocation)
		locations.PUT("/:id", h.RenameLocation)
		locations.DELETE("/:id", h.DeleteLocation)
	}
}

// Create creates a new warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req catalogapp.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.warehouseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists warehouses
func (h *WarehouseHandler) List(c *gin.Context) {
	var filter catalogapp.WarehouseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, total, err := h.warehouseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, total, filter.Page, filter.PageSize)
}

// Get returns a warehouse with its locations
func (h *WarehouseHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	resp, err := h.warehouseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByCode returns a warehouse by its short code
func (h *WarehouseHandler) GetByCode(c *gin.Context) {
	resp, err := h.warehouseService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update renames a warehouse
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req catalogapp.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.warehouseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a warehouse whose locations hold no stock
func (h *WarehouseHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	if err := h.warehouseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddLocation adds a location to a warehouse
func (h *WarehouseHandler) AddLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req catalogapp.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.warehouseService.AddLocation(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetLocation returns a location by ID
func (h *WarehouseHandler) GetLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	resp, err := h.warehouseService.GetLocation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RenameLocation changes the display name of a location
func (h *WarehouseHandler) RenameLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	var req dto.RenameLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.warehouseService.RenameLocation(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteLocation removes a location that holds no stock
func (h *WarehouseHandler) DeleteLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	if err := h.warehouseService.DeleteLocation(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
