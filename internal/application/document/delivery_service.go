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

// DeliveryService handles delivery order business operations
type DeliveryService struct {
	deliveryRepo   document.DeliveryRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  catalog.WarehouseRepository
	stockRepo      inventory.StockLevelRepository
	scope          appinv.TransactionScope
	engine         *appinv.StockApplicationEngine
	eventPublisher shared.EventPublisher
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(
	deliveryRepo document.DeliveryRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo catalog.WarehouseRepository,
	stockRepo inventory.StockLevelRepository,
	scope appinv.TransactionScope,
	engine *appinv.StockApplicationEngine,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo:  deliveryRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		scope:         scope,
		engine:        engine,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *DeliveryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new delivery in Draft. The document number is drawn and
// the header saved in one transaction.
func (s *DeliveryService) Create(ctx context.Context, req CreateDeliveryRequest) (*DeliveryResponse, error) {
	if _, err := s.warehouseRepo.FindLocationByID(ctx, req.LocationID); err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if _, err := s.productRepo.FindByID(ctx, line.ProductID); err != nil {
			return nil, err
		}
	}

	var delivery *document.Delivery
	err := s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		sequence, err := repos.SequenceRepo().Next(ctx, document.TypeDelivery)
		if err != nil {
			return err
		}
		number := document.FormatNumber(document.TypeDelivery, sequence)

		d, err := document.NewDelivery(number, req.CustomerName, req.LocationID)
		if err != nil {
			return err
		}
		d.ShippingAddress = req.ShippingAddress
		d.Note = req.Note
		for _, line := range req.Lines {
			if err := d.AddLine(line.ProductID, line.Quantity, line.UnitPrice); err != nil {
				return err
			}
		}

		if err := repos.DeliveryRepo().Save(ctx, d); err != nil {
			return err
		}
		delivery = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, document.NewDocumentCreatedEvent(document.TypeDelivery, delivery.ID, delivery.Number))
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// GetByID retrieves a delivery by ID
func (s *DeliveryService) GetByID(ctx context.Context, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// GetByNumber retrieves a delivery by document number
func (s *DeliveryService) GetByNumber(ctx context.Context, number string) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// List retrieves deliveries with filtering and pagination
func (s *DeliveryService) List(ctx context.Context, filter ListFilter) ([]DeliveryResponse, int64, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	deliveries, err := s.deliveryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.deliveryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]DeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		responses[i] = ToDeliveryResponse(d)
	}
	return responses, total, nil
}

// ListWaiting retrieves deliveries parked in Waiting, oldest first
func (s *DeliveryService) ListWaiting(ctx context.Context, filter ListFilter) ([]DeliveryResponse, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, err
	}
	domainFilter.OrderBy = "created_at"
	domainFilter.OrderDir = "asc"
	deliveries, err := s.deliveryRepo.FindByStatus(ctx, document.StatusWaiting, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]DeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		responses[i] = ToDeliveryResponse(d)
	}
	return responses, nil
}

// AddLine adds a product line to a draft delivery
func (s *DeliveryService) AddLine(ctx context.Context, deliveryID uuid.UUID, req DeliveryLineRequest) (*DeliveryResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := delivery.AddLine(req.ProductID, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Save(ctx, delivery); err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// UpdateLine changes quantity and unit price on a draft delivery line
func (s *DeliveryService) UpdateLine(ctx context.Context, deliveryID, lineID uuid.UUID, quantity, unitPrice decimal.Decimal) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := delivery.UpdateLine(lineID, quantity, unitPrice); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Save(ctx, delivery); err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// RemoveLine removes a line from a draft delivery
func (s *DeliveryService) RemoveLine(ctx context.Context, deliveryID, lineID uuid.UUID) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := delivery.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Save(ctx, delivery); err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// Validate checks availability for a Draft or Waiting delivery and routes
// it to Ready when every line is covered, or to Waiting with the deficient
// lines otherwise. Validation reads current stock but reserves nothing:
// the final check happens again at processing time.
func (s *DeliveryService) Validate(ctx context.Context, deliveryID uuid.UUID) (*ValidationResult, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	deficient, err := s.checkAvailability(ctx, delivery)
	if err != nil {
		return nil, err
	}

	if len(deficient) == 0 {
		if err := delivery.MarkReady(); err != nil {
			return nil, err
		}
	} else {
		if err := delivery.MarkWaiting(); err != nil {
			return nil, err
		}
	}
	if err := s.deliveryRepo.Save(ctx, delivery); err != nil {
		return nil, err
	}
	s.publishAggregateEvents(ctx, delivery)

	return &ValidationResult{
		Status:         delivery.Status.String(),
		DeficientLines: deficient,
	}, nil
}

// Process drives a Ready delivery to Done and applies its stock effect.
// Stock that disappeared since validation surfaces as a NEGATIVE_STOCK
// error and rolls the whole attempt back.
func (s *DeliveryService) Process(ctx context.Context, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	load := func(ctx context.Context, repos appinv.TransactionalRepositories) (document.Document, error) {
		return repos.DeliveryRepo().FindByID(ctx, deliveryID)
	}
	save := func(ctx context.Context, repos appinv.TransactionalRepositories, doc document.Document, expectedStatus document.Status, expectedVersion int) error {
		return repos.DeliveryRepo().SaveWithStatusGate(ctx, doc.(*document.Delivery), expectedStatus, expectedVersion)
	}
	if err := s.engine.Process(ctx, load, save); err != nil {
		return nil, err
	}

	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, document.NewDocumentDoneEvent(document.TypeDelivery, delivery.ID, delivery.Number))
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// Cancel cancels a Draft or Waiting delivery
func (s *DeliveryService) Cancel(ctx context.Context, deliveryID uuid.UUID, req CancelRequest) (*DeliveryResponse, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if err := delivery.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.deliveryRepo.Save(ctx, delivery); err != nil {
		return nil, err
	}
	s.publishAggregateEvents(ctx, delivery)
	response := ToDeliveryResponse(delivery)
	return &response, nil
}

// Delete removes a draft delivery entirely
func (s *DeliveryService) Delete(ctx context.Context, deliveryID uuid.UUID) error {
	delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return err
	}
	if delivery.Status != document.StatusDraft {
		return shared.NewDomainError("DOCUMENT_NOT_DRAFT", "Only draft documents can be deleted")
	}
	return s.deliveryRepo.Delete(ctx, deliveryID)
}

func (s *DeliveryService) checkAvailability(ctx context.Context, delivery *document.Delivery) ([]document.DeficientLine, error) {
	deficient := make([]document.DeficientLine, 0)
	for i := range delivery.Lines {
		line := &delivery.Lines[i]
		available, err := s.stockRepo.QuantityByKey(ctx, line.ProductID, delivery.LocationID)
		if err != nil {
			return nil, err
		}
		if available.LessThan(line.Quantity) {
			deficient = append(deficient, document.DeficientLine{
				LineID:     line.ID,
				ProductID:  line.ProductID,
				LocationID: delivery.LocationID,
				Requested:  line.Quantity,
				Available:  available,
			})
		}
	}
	return deficient, nil
}

func (s *DeliveryService) publishEvents(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

func (s *DeliveryService) publishAggregateEvents(ctx context.Context, delivery *document.Delivery) {
	if s.eventPublisher == nil {
		return
	}
	events := delivery.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	delivery.ClearDomainEvents()
}
