package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	invapp "github.com/warehouse/backend/internal/application/inventory"
)

// StockHandler handles stock query and movement endpoints
type StockHandler struct {
	BaseHandler
	stockService *invapp.StockQueryService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *invapp.StockQueryService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RegisterRoutes registers stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.GET("/levels", h.ListLevels)
		stock.GET("/quantity", h.GetQuantity)
		stock.GET("/products/:id/total", h.GetProductTotal)
		stock.GET("/movements", h.ListMovements)
		stock.GET("/movements/source/:type/:id", h.GetMovementsBySource)
		stock.GET("/reconciliation", h.Reconcile)
	}
}

// ListLevels lists per-location stock levels
func (h *StockHandler) ListLevels(c *gin.Context) {
	var filter invapp.StockListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, total, err := h.stockService.ListStockLevels(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, total, filter.Page, filter.PageSize)
}

// GetQuantity returns the on-hand quantity for one product at one location
func (h *StockHandler) GetQuantity(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		h.BadRequest(c, "Invalid location_id")
		return
	}

	resp, err := h.stockService.GetQuantity(c.Request.Context(), productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetProductTotal returns the quantity of a product summed over all locations
func (h *StockHandler) GetProductTotal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.stockService.GetProductTotal(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMovements lists ledger entries with optional filters
func (h *StockHandler) ListMovements(c *gin.Context) {
	var filter invapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, total, err := h.stockService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp, total, filter.Page, filter.PageSize)
}

// GetMovementsBySource returns all movements written by one source document
func (h *StockHandler) GetMovementsBySource(c *gin.Context) {
	sourceID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid source ID")
		return
	}

	resp, err := h.stockService.GetMovementsBySource(c.Request.Context(), c.Param("type"), sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reconcile compares stock levels against movement sums
func (h *StockHandler) Reconcile(c *gin.Context) {
	resp, err := h.stockService.Reconcile(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
