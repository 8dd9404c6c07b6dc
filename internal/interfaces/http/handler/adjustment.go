package handler

import (
	"github.com/gin-gonic/gin"

	docapp "github.com/warehouse/backend/internal/application/document"
	"github.com/warehouse/backend/internal/interfaces/http/dto"
)

// AdjustmentHandler handles inventory adjustment endpoints
type AdjustmentHandler struct {
	BaseHandler
	adjustmentService *docapp.AdjustmentService
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(adjustmentService *docapp.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService}
}

// RegisterRoutes registers adjustment routes
func (h *AdjustmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	adjustments := rg.Group("/documents/adjustments")
	{
		adjustments.POST("", h.Create)
		adjustments.GET("", h.List)
		adjustments.GET("/:id", h.Get)
		adjustments.GET("/number/:number", h.GetByNumber)
		adjustments.POST("/:id/lines", h.AddLine)
		adjustments.PUT("/:id/lines/:line_id", h.UpdateLine)
		adjustments.DELETE("/:id/lines/:line_id", h.RemoveLine)
		adjustments.POST("/:id/process", h.Process)
		adjustments.POST("/:id/cancel", h.Cancel)
		adjustments.DELETE("/:id", h.Delete)
	}
}

// Create creates a draft adjustment, capturing current quantities per line
func (h *AdjustmentHandler) Create(c *gin.Context) {
	var req docapp.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.adjustmentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists adjustments with optional filters
func (h *AdjustmentHandler) List(c *gin.Context) {
	var filter docapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, total, err := h.adjustmentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, total, filter.Page, filter.PageSize)
}

// Get returns an adjustment by ID
func (h *AdjustmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	resp, err := h.adjustmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns an adjustment by its document number
func (h *AdjustmentHandler) GetByNumber(c *gin.Context) {
	resp, err := h.adjustmentService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLine adds a counted line to a draft adjustment
func (h *AdjustmentHandler) AddLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	var req docapp.AdjustmentLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.adjustmentService.AddLine(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLine changes the counted quantity on a draft adjustment line
func (h *AdjustmentHandler) UpdateLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	var req dto.UpdateAdjustmentLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.adjustmentService.UpdateLine(c.Request.Context(), id, lineID, req.CountedQty)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine removes a line from a draft adjustment
func (h *AdjustmentHandler) RemoveLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	resp, err := h.adjustmentService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Process applies counted-minus-captured deltas and marks the adjustment Done
func (h *AdjustmentHandler) Process(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	resp, err := h.adjustmentService.Process(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel aborts an adjustment before its stock effect was applied
func (h *AdjustmentHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	var req docapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.adjustmentService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a draft adjustment
func (h *AdjustmentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	if err := h.adjustmentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
