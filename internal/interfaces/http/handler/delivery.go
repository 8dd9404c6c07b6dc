package handler

import (
	"github.com/gin-gonic/gin"

	docapp "github.com/warehouse/backend/internal/application/document"
	"github.com/warehouse/backend/internal/interfaces/http/dto"
)

// DeliveryHandler handles delivery order endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *docapp.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *docapp.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// RegisterRoutes registers delivery routes
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deliveries := rg.Group("/documents/deliveries")
	{
		deliveries.POST("", h.Create)
		deliveries.GET("", h.List)
		deliveries.GET("/waiting", h.ListWaiting)
		deliveries.GET("/:id", h.Get)
		deliveries.GET("/number/:number", h.GetByNumber)
		deliveries.POST("/:id/lines", h.AddLine)
		deliveries.PUT("/:id/lines/:line_id", h.UpdateLine)
		deliveries.DELETE("/:id/lines/:line_id", h.RemoveLine)
		deliveries.POST("/:id/validate", h.Validate)
		deliveries.POST("/:id/process", h.Process)
		deliveries.POST("/:id/cancel", h.Cancel)
		deliveries.DELETE("/:id", h.Delete)
	}
}

// Create creates a draft delivery and assigns its document number
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req docapp.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.deliveryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists deliveries with optional filters
func (h *DeliveryHandler) List(c *gin.Context) {
	var filter docapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, total, err := h.deliveryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, total, filter.Page, filter.PageSize)
}

// ListWaiting lists deliveries blocked on stock, oldest first
func (h *DeliveryHandler) ListWaiting(c *gin.Context) {
	var filter docapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.deliveryService.ListWaiting(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns a delivery by ID
func (h *DeliveryHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	resp, err := h.deliveryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns a delivery by its document number
func (h *DeliveryHandler) GetByNumber(c *gin.Context) {
	resp, err := h.deliveryService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLine adds a line to a draft delivery
func (h *DeliveryHandler) AddLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	var req docapp.DeliveryLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.deliveryService.AddLine(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLine changes quantity and unit price on a draft delivery line
func (h *DeliveryHandler) UpdateLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	var req dto.UpdateDeliveryLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.deliveryService.UpdateLine(c.Request.Context(), id, lineID, req.Quantity, req.UnitPrice)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine removes a line from a draft delivery
func (h *DeliveryHandler) RemoveLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	resp, err := h.deliveryService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Validate checks availability and routes the delivery to Ready or Waiting
func (h *DeliveryHandler) Validate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	resp, err := h.deliveryService.Validate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Process applies the delivery's stock effect and marks it Done
func (h *DeliveryHandler) Process(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	resp, err := h.deliveryService.Process(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel aborts a delivery before its stock effect was applied
func (h *DeliveryHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	var req docapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.deliveryService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a draft delivery
func (h *DeliveryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	if err := h.deliveryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
