package handler

import (
	"github.com/gin-gonic/gin"

	docapp "github.com/warehouse/backend/internal/application/document"
	"github.com/warehouse/backend/internal/interfaces/http/dto"
)

// TransferHandler handles internal transfer endpoints
type TransferHandler struct {
	BaseHandler
	transferService *docapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *docapp.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// RegisterRoutes registers transfer routes
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/documents/transfers")
	{
		transfers.POST("", h.Create)
		transfers.GET("", h.List)
		transfers.GET("/:id", h.Get)
		transfers.GET("/number/:number", h.GetByNumber)
		transfers.POST("/:id/lines", h.AddLine)
		transfers.PUT("/:id/lines/:line_id", h.UpdateLine)
		transfers.DELETE("/:id/lines/:line_id", h.RemoveLine)
		transfers.POST("/:id/process", h.Process)
		transfers.POST("/:id/cancel", h.Cancel)
		transfers.DELETE("/:id", h.Delete)
	}
}

// Create creates a draft transfer and assigns its document number
func (h *TransferHandler) Create(c *gin.Context) {
	var req docapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.transferService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists transfers with optional filters
func (h *TransferHandler) List(c *gin.Context) {
	var filter docapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, total, err := h.transferService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, total, filter.Page, filter.PageSize)
}

// Get returns a transfer by ID
func (h *TransferHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	resp, err := h.transferService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns a transfer by its document number
func (h *TransferHandler) GetByNumber(c *gin.Context) {
	resp, err := h.transferService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLine adds a line to a draft transfer
func (h *TransferHandler) AddLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	var req docapp.TransferLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.transferService.AddLine(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLine changes the quantity on a draft transfer line
func (h *TransferHandler) UpdateLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	var req dto.UpdateTransferLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.transferService.UpdateLine(c.Request.Context(), id, lineID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine removes a line from a draft transfer
func (h *TransferHandler) RemoveLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}
	lineID, ok := parseIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	resp, err := h.transferService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Process applies the transfer's paired out and in movements and marks it Done
func (h *TransferHandler) Process(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	resp, err := h.transferService.Process(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel aborts a transfer before its stock effect was applied
func (h *TransferHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	var req docapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.transferService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a draft transfer
func (h *TransferHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	if err := h.transferService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
