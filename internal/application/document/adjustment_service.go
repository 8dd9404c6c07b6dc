package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/warehouse/backend/internal/application/inventory"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/document"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// AdjustmentService handles stock adjustment business operations. Each
// adjustment line captures the system quantity at recording time, so the
// applied correction is always counted minus captured, not counted minus
// whatever the system says later.
type AdjustmentService struct {
	adjustmentRepo document.AdjustmentRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  catalog.WarehouseRepository
	stockRepo      inventory.StockLevelRepository
	scope          appinv.TransactionScope
	engine         *appinv.StockApplicationEngine
	eventPublisher shared.EventPublisher
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(
	adjustmentRepo document.AdjustmentRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo catalog.WarehouseRepository,
	stockRepo inventory.StockLevelRepository,
	scope appinv.TransactionScope,
	engine *appinv.StockApplicationEngine,
) *AdjustmentService {
	return &AdjustmentService{
		adjustmentRepo: adjustmentRepo,
		productRepo:    productRepo,
		warehouseRepo:  warehouseRepo,
		stockRepo:      stockRepo,
		scope:          scope,
		engine:         engine,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new adjustment in Draft. The document number is drawn
// and the header saved in one transaction.
func (s *AdjustmentService) Create(ctx context.Context, req CreateAdjustmentRequest) (*AdjustmentResponse, error) {
	if _, err := s.warehouseRepo.FindLocationByID(ctx, req.LocationID); err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if _, err := s.productRepo.FindByID(ctx, line.ProductID); err != nil {
			return nil, err
		}
	}

	var adjustment *document.Adjustment
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		sequence, err := repos.SequenceRepo().Next(ctx, document.TypeAdjustment)
		if err != nil {
			return err
		}
		number := document.FormatNumber(document.TypeAdjustment, sequence)

		a, err := document.NewAdjustment(number, req.LocationID, req.Reason)
		if err != nil {
			return err
		}
		a.Note = req.Note
		for _, line := range req.Lines {
			currentQty, err := repos.StockLevelRepo().QuantityByKey(ctx, line.ProductID, req.LocationID)
			if err != nil {
				return err
			}
			if err := a.AddLine(line.ProductID, line.CountedQty, currentQty); err != nil {
				return err
			}
		}

		if err := repos.AdjustmentRepo().Save(ctx, a); err != nil {
			return err
		}
		adjustment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, document.NewDocumentCreatedEvent(document.TypeAdjustment, adjustment.ID, adjustment.Number))
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// GetByID retrieves an adjustment by ID
func (s *AdjustmentService) GetByID(ctx context.Context, adjustmentID uuid.UUID) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// GetByNumber retrieves an adjustment by document number
func (s *AdjustmentService) GetByNumber(ctx context.Context, number string) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// List retrieves adjustments with filtering and pagination
func (s *AdjustmentService) List(ctx context.Context, filter ListFilter) ([]AdjustmentResponse, int64, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	adjustments, err := s.adjustmentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.adjustmentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]AdjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		responses[i] = ToAdjustmentResponse(a)
	}
	return responses, total, nil
}

// AddLine records a counted product on a draft adjustment, capturing the
// current system quantity alongside the count
func (s *AdjustmentService) AddLine(ctx context.Context, adjustmentID uuid.UUID, req AdjustmentLineRequest) (*AdjustmentResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	currentQty, err := s.stockRepo.QuantityByKey(ctx, req.ProductID, adjustment.LocationID)
	if err != nil {
		return nil, err
	}
	if err := adjustment.AddLine(req.ProductID, req.CountedQty, currentQty); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// UpdateLine changes the counted quantity on a draft adjustment line
func (s *AdjustmentService) UpdateLine(ctx context.Context, adjustmentID, lineID uuid.UUID, countedQty decimal.Decimal) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	if err := adjustment.UpdateLine(lineID, countedQty); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// RemoveLine removes a line from a draft adjustment
func (s *AdjustmentService) RemoveLine(ctx context.Context, adjustmentID, lineID uuid.UUID) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	if err := adjustment.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// Process drives a draft adjustment straight to Done, applying each line's
// counted-minus-captured delta. Lines whose delta is zero produce no
// movement.
func (s *AdjustmentService) Process(ctx context.Context, adjustmentID uuid.UUID) (*AdjustmentResponse, error) {
	load := func(ctx context.Context, repos appinv.TransactionalRepositories) (document.Document, error) {
		return repos.AdjustmentRepo().FindByID(ctx, adjustmentID)
	}
	save := func(ctx context.Context, repos appinv.TransactionalRepositories, doc document.Document, expectedStatus document.Status, expectedVersion int) error {
		return repos.AdjustmentRepo().SaveWithStatusGate(ctx, doc.(*document.Adjustment), expectedStatus, expectedVersion)
	}
	if err := s.engine.Process(ctx, load, save); err != nil {
		return nil, err
	}

	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, document.NewDocumentDoneEvent(document.TypeAdjustment, adjustment.ID, adjustment.Number))
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// Cancel cancels a draft adjustment
func (s *AdjustmentService) Cancel(ctx context.Context, adjustmentID uuid.UUID, req CancelRequest) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	if err := adjustment.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	s.publishAggregateEvents(ctx, adjustment)
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// Delete removes a draft adjustment entirely
func (s *AdjustmentService) Delete(ctx context.Context, adjustmentID uuid.UUID) error {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return err
	}
	if adjustment.Status != document.StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Only draft documents can be deleted")
	}
	return s.adjustmentRepo.Delete(ctx, adjustmentID)
}

func (s *AdjustmentService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func (s *AdjustmentService) publishAggregateEvents(ctx context.Context, adjustment *document.Adjustment) {
	if s.eventPublisher == nil {
		return
	}
	events := adjustment.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	adjustment.ClearDomainEvents()
}
