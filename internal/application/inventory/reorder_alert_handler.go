package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// ReorderAlertNotifier is the interface for delivering reorder alerts.
// Implementations can support different channels (in-app, email, webhook).
type ReorderAlertNotifier interface {
	// SendAlert delivers one reorder alert
	SendAlert(ctx context.Context, alert ReorderAlert) error
}

// ReorderAlert describes a product whose on-hand quantity dropped below
// its configured reorder level
type ReorderAlert struct {
	ProductID    string `json:"product_id"`
	LocationID   string `json:"location_id"`
	OnHand       string `json:"on_hand"`
	ReorderLevel string `json:"reorder_level"`
	AlertType    string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// ReorderAlertHandler reacts to StockBelowReorderLevel events published
// after a document commits. It always logs the shortage; a notifier is
// optional.
type ReorderAlertHandler struct {
	logger   *zap.Logger
	notifier ReorderAlertNotifier
}

// NewReorderAlertHandler creates a new handler for reorder level events
func NewReorderAlertHandler(logger *zap.Logger) *ReorderAlertHandler {
	return &ReorderAlertHandler{logger: logger}
}

// WithNotifier sets the notifier for delivering alerts
func (h *ReorderAlertHandler) WithNotifier(notifier ReorderAlertNotifier) *ReorderAlertHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *ReorderAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowReorderLevel}
}

// Handle processes a StockBelowReorderLevelEvent
func (h *ReorderAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	reorderEvent, ok := event.(*inventory.StockBelowReorderLevelEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockBelowReorderLevel),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowReorderLevel, event.EventType())
	}

	h.logger.Warn("stock below reorder level",
		zap.String("product_id", reorderEvent.ProductID.String()),
		zap.String("location_id", reorderEvent.LocationID.String()),
		zap.String("on_hand", reorderEvent.OnHand.String()),
		zap.String("reorder_level", reorderEvent.ReorderLevel.String()),
	)

	if h.notifier == nil {
		return nil
	}

	alertType := "low_stock"
	if !reorderEvent.OnHand.IsPositive() {
		alertType = "out_of_stock"
	}
	alert := ReorderAlert{
		ProductID:    reorderEvent.ProductID.String(),
		LocationID:   reorderEvent.LocationID.String(),
		OnHand:       reorderEvent.OnHand.String(),
		ReorderLevel: reorderEvent.ReorderLevel.String(),
		AlertType:    alertType,
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		h.logger.Error("failed to send reorder alert",
			zap.String("product_id", alert.ProductID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
