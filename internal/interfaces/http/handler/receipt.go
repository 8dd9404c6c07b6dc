package handler

import (
	"github.com/gin-gonic/gin"

	docapp "github.com/warehouse/backend/internal/application/document"
	"github.com/warehouse/backend/internal/interfaces/http/dto"
)

// ReceiptHandler handles goods receipt endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService *docapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *docapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// RegisterRoutes registers receipt routes
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/documents/receipts")
	{
		receipts.POST("", h.Create)
		receipts.GET("", h.List)
		receipts.GET("/:id", h.Get)
		receipts.GET("/number/:number", h.GetByNumber)
		receipts.POST("/:id/lines", h.AddLine)
		receipts.PUT("/:id/lines/:line_id", h.UpdateLine)
		receipts.DELETE("/:id/lines/:line_id", h.RemoveLine)
		receipts.POST("/:id/validate", h.Validate)
		receipts.POST("/:id/process", h.Process)
		receipts.POST("/:id/cancel", h.Cancel)
		receipts.DELETE("/:id", h.Delete)
	}
}

// Create creates a draft receipt and assigns its document number
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req docapp.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.receiptService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists receipts with optional filters
func (h *ReceiptHandler) List(c *gin.Context) {
	var filter docapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, total, err := h.receiptService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, total, filter.Page, filter.PageSize)
}

// Get returns a receipt by ID
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	resp, err := h.receiptService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns a receipt by its document number
func (h *ReceiptHandler) GetByNumber(c *gin.Context) {
	resp, err := h.receiptService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLine adds a line to a draft receipt
func (h *ReceiptHandler) AddLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req docapp.ReceiptLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.receiptService.AddLine(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLine changes quantity and unit cost on a draft receipt line
func (h *ReceiptHandler) UpdateLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	var req dto.UpdateReceiptLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.receiptService.UpdateLine(c.Request.Context(), id, lineID, req.Quantity, req.UnitCost)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine removes a line from a draft receipt
func (h *ReceiptHandler) RemoveLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	resp, err := h.receiptService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Validate moves a draft receipt to Ready
func (h *ReceiptHandler) Validate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	resp, err := h.receiptService.Validate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Process applies the receipt's stock effect and marks it Done
func (h *ReceiptHandler) Process(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	resp, err := h.receiptService.Process(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel aborts a receipt before its stock effect was applied
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req docapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.receiptService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a draft receipt
func (h *ReceiptHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
